package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/coregx/coreseq"
)

func newCompressCmd(cfgPath *string) *cobra.Command {
	var engine string

	cmd := &cobra.Command{
		Use:   "compress <file>",
		Short: "Compress a file and print grammar statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if engine != "" {
				cfg.Engine = engine
			}
			return runCompress(cmd, args[0], cfg)
		},
	}

	cmd.Flags().StringVar(&engine, "engine", "", "engine to use: sequitur, rle, or repair")
	return cmd
}

func runCompress(cmd *cobra.Command, path string, cfg config) error {
	data, err := readInput(path)
	if err != nil {
		return exitf(1, "open %s: %v", path, err)
	}

	out := cmd.OutOrStdout()

	switch cfg.Engine {
	case "sequitur":
		e := coreseq.NewSequitur[byte]()
		ingest(out, data, cfg.Progress, e.Push)
		if !verify(data, e.Iter()) {
			return exitf(2, "reconstruction mismatch for %s", path)
		}
		st := e.Stats()
		fmt.Fprint(out, renderStats("Sequitur", [][2]string{
			{"Input bytes", fmt.Sprint(st.InputLength)},
			{"Grammar symbols", fmt.Sprint(st.GrammarSymbols)},
			{"Rules", fmt.Sprint(st.NumRules)},
			{"Ratio", fmt.Sprintf("%.2f%%", st.Ratio())},
		}))

	case "rle":
		e := coreseq.NewRLE[byte]()
		ingest(out, data, cfg.Progress, e.Push)
		if !verify(data, e.Iter()) {
			return exitf(2, "reconstruction mismatch for %s", path)
		}
		st := e.Stats()
		fmt.Fprint(out, renderStats("RLE-Sequitur", [][2]string{
			{"Input bytes", fmt.Sprint(st.InputLength)},
			{"Grammar nodes", fmt.Sprint(st.GrammarNodes)},
			{"Expanded symbols", fmt.Sprint(st.GrammarSymbolsExpanded)},
			{"Rules", fmt.Sprint(st.NumRules)},
			{"Ratio", fmt.Sprintf("%.2f%%", st.Ratio())},
		}))

	case "repair":
		e := coreseq.NewRePair[byte]()
		ingest(out, data, cfg.Progress, e.Push)
		e.Compress()
		if !verify(data, e.Iter()) {
			return exitf(2, "reconstruction mismatch for %s", path)
		}
		st := e.Stats()
		fmt.Fprint(out, renderStats("RePair", [][2]string{
			{"Input bytes", fmt.Sprint(st.InputLength)},
			{"Grammar symbols", fmt.Sprint(st.GrammarSymbols)},
			{"Rules", fmt.Sprint(st.NumRules)},
			{"Ratio", fmt.Sprintf("%.2f%%", st.Ratio())},
		}))

	default:
		return fmt.Errorf("unknown engine %q", cfg.Engine)
	}

	return nil
}

type byteIter interface {
	Next() (byte, bool)
}

// ingest pushes data byte by byte, printing progress every interval bytes.
func ingest(out io.Writer, data []byte, interval int, push func(byte)) {
	for i, b := range data {
		push(b)
		if interval > 0 && (i+1)%interval == 0 {
			fmt.Fprintf(out, "%d\n", i+1)
		}
	}
}

// verify replays the iterator against the original bytes.
func verify(data []byte, it byteIter) bool {
	for _, want := range data {
		got, ok := it.Next()
		if !ok || got != want {
			return false
		}
	}
	_, extra := it.Next()
	return !extra
}
