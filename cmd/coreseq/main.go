// Command coreseq compresses files with the coreseq grammar engines and
// reports grammar statistics.
//
// The compress and docs subcommands ingest the input, verify it by
// reconstructing through the engine's iterator, and print a stats block; the
// search subcommand prints matches and stats without a verify pass. Exit
// codes: 0 on
// success, 1 when an input file cannot be opened, 2 when reconstruction does
// not match the input.
package main

import (
	"errors"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}
