package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lasuillard-s/go-fixedwidth/layout"
)

func newDescribeCmd() *cobra.Command {
	describeCmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the byte layout of a record",
		Long: `Describe prints the offset, length, justification and fill byte of
every field of the layout, followed by the record length. With
--format yaml it prints the normalized layout document instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(cmd)
			if err != nil {
				return err
			}
			doc := layout.FromSchema(s)
			out := cmd.OutOrStdout()

			format, _ := cmd.Flags().GetString("format")
			switch format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(doc); err != nil {
					return errors.Wrap(err, "failed to write layout")
				}
				return enc.Close()
			case "table":
			default:
				return errors.Errorf("unknown format %q", format)
			}

			fmt.Fprintf(out, "%s\n", s.Name())
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tOFFSET\tLENGTH\tJUSTIFY\tFILL\tTYPE")
			off := 0
			for _, f := range doc.Fields {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%q\t%s\n", f.Name, off, f.Length, f.Justify, f.Fill, f.Type)
				off += f.Length
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "total length: %d\n", s.Len())
			return nil
		},
	}
	describeCmd.Flags().StringP("format", "f", "table", "Output format: table or yaml")
	return describeCmd
}
