package cmd

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lasuillard-s/go-fixedwidth"
)

func newDecodeCmd() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a record into a JSON object",
		Long: `Decode reads one record, from file or stdin, and writes its fields as
a JSON object. A single trailing newline after the record is ignored.
Padding fields are left out.

Example:
  fixedwidth decode --layout payment.yaml payment.dat`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(cmd)
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			input = bytes.TrimSuffix(input, []byte("\n"))
			input = bytes.TrimSuffix(input, []byte("\r"))

			dec := fixedwidth.NewDecoder()
			dec.SetLogger(logger(cmd))
			allowShort, _ := cmd.Flags().GetBool("allow-short")
			dec.SetAllowShortInput(allowShort)
			values, err := dec.DecodeValues(s, input, nil)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			return errors.Wrap(enc.Encode(values), "failed to write JSON")
		},
	}
	decodeCmd.Flags().Bool("allow-short", false, "Decode records shorter than the layout, leaving missing fields empty")
	return decodeCmd
}
