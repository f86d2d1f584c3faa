// Package coreseq provides grammar-based sequence compression engines for Go.
//
// Given a stream of comparable values, an engine incrementally maintains a
// small context-free grammar whose start rule derives exactly the values seen
// so far. Three algorithm families share one symbol-graph core:
//
//   - Sequitur: strict online maintenance of digram uniqueness and rule
//     utility after every push (package sequitur).
//   - RLE-Sequitur: the same invariants plus run-length encoding, so
//     consecutive identical values collapse into one node (package rle).
//   - RePair: offline greedy most-frequent-pair replacement, run once after
//     the sequence is assembled (package repair).
//
// Sequitur and RLE-Sequitur also come in a multi-document form where several
// independent sequences share one rule pool, so patterns recurring across
// inputs are stored once. RePair has no multi-document form.
//
// Basic usage:
//
//	seq := coreseq.NewSequitur[byte]()
//	seq.Extend([]byte("abcabcabc"))
//
//	st := seq.Stats()
//	fmt.Printf("%d rules, ratio %.1f%%\n", st.NumRules, st.Ratio())
//
//	it := seq.Iter()
//	for v, ok := it.Next(); ok; v, ok = it.Next() {
//	    // the original bytes, in order
//	    _ = v
//	}
//
// Engines take exclusive ownership of their state: they are not safe for
// concurrent use, and iterators borrow the engine read-only. All reported
// compression ratios are grammar size over input length as a percentage;
// lower is better and an empty input reports 0.
package coreseq

import (
	"github.com/coregx/coreseq/repair"
	"github.com/coregx/coreseq/rle"
	"github.com/coregx/coreseq/sequitur"
)

// NewSequitur creates an empty online Sequitur engine over terminals of type
// T.
func NewSequitur[T comparable]() *sequitur.Engine[T] {
	return sequitur.New[T]()
}

// NewRLE creates an empty RLE-Sequitur engine over terminals of type T.
func NewRLE[T comparable]() *rle.Engine[T] {
	return rle.New[T]()
}

// NewRePair creates an empty RePair engine over terminals of type T.
func NewRePair[T comparable]() *repair.Engine[T] {
	return repair.New[T]()
}

// NewDocuments creates an empty multi-document Sequitur engine over terminals
// of type T with document ids of type D.
func NewDocuments[T comparable, D comparable]() *sequitur.Documents[T, D] {
	return sequitur.NewDocuments[T, D]()
}

// NewRLEDocuments creates an empty multi-document RLE-Sequitur engine over
// terminals of type T with document ids of type D.
func NewRLEDocuments[T comparable, D comparable]() *rle.Documents[T, D] {
	return rle.NewDocuments[T, D]()
}

// Ratio returns grammarSize over inputLength as a percentage. Lower is
// better; an empty input reports 0.
func Ratio(grammarSize, inputLength int) float64 {
	if inputLength == 0 {
		return 0
	}
	return float64(grammarSize) / float64(inputLength) * 100
}
