// Package search provides multi-pattern matching over grammar-compressed
// byte sequences.
//
// A Scanner compiles a set of literal patterns into an Aho-Corasick automaton
// and runs it over the reconstruction stream of a compression engine through
// a sliding window, so the compressed sequence never has to be materialised
// in full. Windows overlap by the longest pattern length minus one, which
// guarantees every match is seen exactly once.
package search

import (
	"errors"

	"github.com/coregx/ahocorasick"
)

// defaultWindow is the number of fresh bytes decompressed per search window.
const defaultWindow = 64 << 10

// ErrNoPatterns is returned when a Scanner is built without any pattern.
var ErrNoPatterns = errors.New("search: no patterns")

// ByteSource yields one byte at a time. The reconstruction iterators over
// byte terminals satisfy it.
type ByteSource interface {
	Next() (byte, bool)
}

// Match is one pattern occurrence, as byte offsets into the reconstructed
// sequence. End is exclusive.
type Match struct {
	Start int
	End   int
}

// Scanner searches for a fixed set of byte patterns.
type Scanner struct {
	auto    *ahocorasick.Automaton
	overlap int
	window  int
}

// New builds a Scanner from the given patterns. Empty patterns are rejected
// alongside an empty pattern set.
func New(patterns [][]byte) (*Scanner, error) {
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}

	maxLen := 0
	builder := ahocorasick.NewBuilder()
	for _, p := range patterns {
		if len(p) == 0 {
			return nil, errors.New("search: empty pattern")
		}
		if len(p) > maxLen {
			maxLen = len(p)
		}
		builder.AddPattern(p)
	}

	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}

	return &Scanner{
		auto:    auto,
		overlap: maxLen - 1,
		window:  defaultWindow,
	}, nil
}

// ScanBytes returns all non-overlapping matches in data, leftmost-first.
func (s *Scanner) ScanBytes(data []byte) []Match {
	var matches []Match
	at := 0
	for at < len(data) {
		m := s.auto.Find(data, at)
		if m == nil {
			break
		}
		matches = append(matches, Match{Start: m.Start, End: m.End})
		at = m.End
	}
	return matches
}

// Scan drains src and returns all non-overlapping matches, with offsets
// relative to the start of the stream.
func (s *Scanner) Scan(src ByteSource) []Match {
	var matches []Match

	buf := make([]byte, 0, s.window+s.overlap)
	base := 0   // stream offset of buf[0]
	prefix := 0 // leading bytes re-searched from the previous window

	for {
		eof := false
		for len(buf) < cap(buf) {
			b, ok := src.Next()
			if !ok {
				eof = true
				break
			}
			buf = append(buf, b)
		}

		at := 0
		for at < len(buf) {
			m := s.auto.Find(buf, at)
			if m == nil {
				break
			}
			// Matches wholly inside the overlap prefix were already
			// reported by the previous window.
			if m.End > prefix {
				matches = append(matches, Match{Start: base + m.Start, End: base + m.End})
			}
			at = m.End
		}

		if eof {
			return matches
		}

		keep := s.overlap
		if keep > len(buf) {
			keep = len(buf)
		}
		base += len(buf) - keep
		copy(buf, buf[len(buf)-keep:])
		buf = buf[:keep]
		prefix = keep
	}
}
