// Package repair implements the RePair grammar compression algorithm.
//
// RePair is offline and greedy: the whole sequence is assembled first, then
// Compress repeatedly replaces the globally most frequent pair of adjacent
// symbols with a new rule until no pair occurs twice.
//
// The implementation threads every occurrence of a pair through a doubly
// linked list and keeps the pairs in a frequency-indexed bucket queue, so a
// replacement only touches the modified neighbourhoods and the whole
// compression runs in time proportional to the input plus the number of
// replacements.
//
// Basic usage:
//
//	rp := repair.New[byte]()
//	rp.Extend([]byte("abcabcabcabc"))
//	rp.Compress()
//
//	it := rp.Iter()
//	for v, ok := it.Next(); ok; v, ok = it.Next() {
//	    _ = v // original sequence, in order
//	}
package repair

import "github.com/coregx/coreseq/grammar"

// Engine is a RePair compressor over terminals of type T. Values are pushed
// first; Compress is one-shot and pushing afterwards panics. The engine is
// not safe for concurrent use.
type Engine[T comparable] struct {
	arena  *grammar.Arena[T]
	rules  map[grammar.RuleID]grammar.Index
	ids    grammar.IDGen
	seqEnd grammar.Index
	length int

	// Terminal interning: symbol equality over pairs reduces to integer
	// equality on these ids.
	values     []T
	valueIndex map[T]uint32

	compressed bool

	// Pair tracking, alive only while Compress runs.
	pairs   map[pairKey]*pairRecord
	threads map[grammar.Index]occLink
	buckets [][]pairKey
	maxFreq int
}

// New creates an empty engine with rule 0 in place.
func New[T comparable]() *Engine[T] {
	e := &Engine[T]{
		arena:      grammar.NewArena[T](),
		rules:      make(map[grammar.RuleID]grammar.Index),
		valueIndex: make(map[T]uint32),
	}

	id := e.ids.Get() // rule 0
	tail := e.arena.Insert(grammar.NewRuleTail[T]())
	head := e.arena.Insert(grammar.NewRuleHead[T](id, tail))
	e.arena.Get(head).Next = tail
	e.arena.Get(tail).Prev = head
	e.rules[id] = head
	e.seqEnd = tail

	return e
}

// Push appends one value to the sequence. Calling Push after Compress is a
// contract violation and panics.
func (e *Engine[T]) Push(v T) {
	if e.compressed {
		panic("repair: Push after Compress")
	}

	e.intern(v)

	node := e.arena.Insert(grammar.NewValue(v))

	tail := e.seqEnd
	prev := e.arena.Get(tail).Prev

	n := e.arena.Get(node)
	n.Next = tail
	n.Prev = prev
	e.arena.Get(tail).Prev = node
	if !prev.IsNone() {
		e.arena.Get(prev).Next = node
	}

	e.length++
}

// Extend appends every value in order.
func (e *Engine[T]) Extend(values []T) {
	for _, v := range values {
		e.Push(v)
	}
}

// Len returns the number of values accepted.
func (e *Engine[T]) Len() int { return e.length }

// IsEmpty reports whether no values have been accepted.
func (e *Engine[T]) IsEmpty() bool { return e.length == 0 }

// Rules returns the rule index. The map is a read-only view owned by the
// engine and must not be modified.
func (e *Engine[T]) Rules() map[grammar.RuleID]grammar.Index { return e.rules }

// IsCompressed reports whether Compress has run.
func (e *Engine[T]) IsCompressed() bool { return e.compressed }

// Iter returns a lazy iterator reconstructing the input. Before Compress it
// replays the raw sequence; afterwards it expands rules.
func (e *Engine[T]) Iter() *grammar.Expander[T] {
	start := e.arena.Get(e.rules[0]).Next
	return grammar.NewExpander(e.arena, e.rules, start)
}

// Stats returns compression accounting for the current grammar.
func (e *Engine[T]) Stats() Stats {
	total := 0
	for _, head := range e.rules {
		cur := e.arena.Get(head).Next
		for !cur.IsNone() {
			next := e.arena.Get(cur).Next
			if next.IsNone() {
				break // the rule tail
			}
			total++
			cur = next
		}
	}
	return Stats{
		InputLength:    e.length,
		GrammarSymbols: total,
		NumRules:       len(e.rules),
		Compressed:     e.compressed,
	}
}

func (e *Engine[T]) intern(v T) uint32 {
	if id, ok := e.valueIndex[v]; ok {
		return id
	}
	id := uint32(len(e.values))
	e.values = append(e.values, v)
	e.valueIndex[v] = id
	return id
}

// Stats describes the size of a RePair grammar relative to its input.
type Stats struct {
	InputLength    int
	GrammarSymbols int
	NumRules       int
	Compressed     bool
}

// Ratio returns grammar symbols over input length as a percentage. Lower is
// better; 100 means no compression and an empty input reports 0.
func (s Stats) Ratio() float64 {
	if s.InputLength == 0 {
		return 0
	}
	return float64(s.GrammarSymbols) / float64(s.InputLength) * 100
}
