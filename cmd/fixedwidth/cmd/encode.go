package cmd

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lasuillard-s/go-fixedwidth"
)

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode a JSON object into a record",
		Long: `Encode reads one JSON object, from file or stdin, and writes the
record it encodes to followed by a newline.

Example:
  echo '{"account": "A-1", "amount": 42}' | fixedwidth encode --layout payment.yaml`,
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

			values := make(fixedwidth.Values)
			dec := json.NewDecoder(bytes.NewReader(input))
			dec.UseNumber()
			if err := dec.Decode(&values); err != nil {
				return errors.Wrap(err, "input is not a JSON object")
			}

			enc := fixedwidth.NewEncoder()
			enc.SetLogger(logger(cmd))
			data, err := enc.EncodeValues(s, values)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(append(data, '\n')); err != nil {
				return errors.Wrap(err, "failed to write record")
			}
			return nil
		},
	}
}
