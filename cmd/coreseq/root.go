package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// exitError carries a process exit code through cobra's error path.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitf(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "coreseq",
		Short: "Grammar-based sequence compression",
		Long: `coreseq compresses byte sequences into small context-free grammars
using the Sequitur, RLE-Sequitur, and RePair algorithms, and reports how much
of the input the grammar explains.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a TOML config file")

	root.AddCommand(newCompressCmd(&cfgPath))
	root.AddCommand(newDocsCmd(&cfgPath))
	root.AddCommand(newSearchCmd(&cfgPath))

	return root
}
