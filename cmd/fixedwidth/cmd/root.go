package cmd

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lasuillard-s/go-fixedwidth"
	"github.com/lasuillard-s/go-fixedwidth/layout"
)

// newRootCmd builds the command tree. Every call returns fresh flags.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fixedwidth",
		Short: "Encode and decode fixed-width records",
		Long: `fixedwidth converts between JSON objects and fixed-width records
laid out by a YAML or JSON layout file.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("layout", "l", "", "Layout file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every formatted or parsed record to stderr")
	_ = rootCmd.MarkPersistentFlagRequired("layout")

	rootCmd.AddCommand(newEncodeCmd(), newDecodeCmd(), newDescribeCmd())
	return rootCmd
}

// Execute runs the fixedwidth command. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func loadSchema(cmd *cobra.Command) (*fixedwidth.Schema, error) {
	path, _ := cmd.Flags().GetString("layout")
	return layout.Load(path)
}

// logger returns the logger selected by --verbose, or nil.
func logger(cmd *cobra.Command) *log.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return log.New(cmd.ErrOrStderr(), "fixedwidth: ", log.LstdFlags)
	}
	return nil
}

// readInput reads the named file, or stdin when args is empty or "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, errors.Wrap(err, "failed to read stdin")
	}
	data, err := os.ReadFile(args[0])
	return data, errors.Wrap(err, "failed to read input")
}
