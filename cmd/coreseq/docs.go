package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/coregx/coreseq"
)

func newDocsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "docs <file>...",
		Short: "Compress several files as documents sharing one grammar",
		Long: `docs ingests each file as an independent document over a shared rule
pool, so content recurring across files is stored once. Pass "-" to read an
additional unnamed document from stdin; it is keyed by a fresh UUID.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(*cfgPath); err != nil {
				return err
			}
			return runDocs(cmd, args)
		},
	}
}

func runDocs(cmd *cobra.Command, paths []string) error {
	out := cmd.OutOrStdout()
	d := coreseq.NewDocuments[byte, string]()

	contents := make(map[string][]byte, len(paths))
	for _, path := range paths {
		var (
			id   string
			data []byte
			err  error
		)
		if path == "-" {
			id = uuid.New().String()
			data, err = io.ReadAll(os.Stdin)
		} else {
			id = path
			data, err = readInput(path)
		}
		if err != nil {
			return exitf(1, "open %s: %v", path, err)
		}
		d.ExtendDocument(id, data)
		contents[id] = data
	}

	for id, data := range contents {
		it, ok := d.IterDocument(id)
		if !ok || !verify(data, it) {
			return exitf(2, "reconstruction mismatch for document %s", id)
		}
	}

	for _, id := range d.DocumentIDs() {
		st, ok := d.DocumentStats(id)
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%s: %d bytes -> %d symbols (%.1f%%)\n",
			id, st.InputLength, st.DocumentSymbols, st.Ratio())
	}

	overall := d.OverallStats()
	fmt.Fprint(out, renderStats("Overall", [][2]string{
		{"Documents", fmt.Sprint(overall.NumDocuments)},
		{"Input bytes", fmt.Sprint(overall.TotalInputLength)},
		{"Grammar symbols", fmt.Sprint(overall.TotalGrammarSymbols)},
		{"Shared rules", fmt.Sprint(overall.NumRules)},
		{"Ratio", fmt.Sprintf("%.2f%%", overall.Ratio())},
	}))

	return nil
}
