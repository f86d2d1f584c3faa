package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coregx/coreseq"
	"github.com/coregx/coreseq/search"
)

func newSearchCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "search <file> <pattern>...",
		Short: "Compress a file, then search the grammar for literal patterns",
		Long: `search compresses the file with Sequitur and streams the reconstruction
through an Aho-Corasick automaton built from the patterns, so the file is
never re-materialised in full.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(*cfgPath); err != nil {
				return err
			}
			return runSearch(cmd, args[0], args[1:])
		},
	}
}

func runSearch(cmd *cobra.Command, path string, patterns []string) error {
	data, err := readInput(path)
	if err != nil {
		return exitf(1, "open %s: %v", path, err)
	}

	e := coreseq.NewSequitur[byte]()
	e.Extend(data)

	pats := make([][]byte, len(patterns))
	for i, p := range patterns {
		pats[i] = []byte(p)
	}
	s, err := search.New(pats)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	matches := s.Scan(e.Iter())
	for _, m := range matches {
		fmt.Fprintf(out, "%d-%d\t%s\n", m.Start, m.End, data[m.Start:m.End])
	}

	st := e.Stats()
	fmt.Fprint(out, renderStats("Search", [][2]string{
		{"Matches", fmt.Sprint(len(matches))},
		{"Input bytes", fmt.Sprint(st.InputLength)},
		{"Grammar symbols", fmt.Sprint(st.GrammarSymbols)},
		{"Ratio", fmt.Sprintf("%.2f%%", st.Ratio())},
	}))

	return nil
}
