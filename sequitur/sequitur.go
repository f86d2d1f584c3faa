// Package sequitur implements online grammar-based sequence compression.
//
// An Engine incrementally maintains a small context-free grammar whose start
// rule derives exactly the values pushed so far, enforcing two invariants
// after every insert:
//
//  1. Digram uniqueness: no pair of adjacent symbols appears more than once
//     in the grammar.
//  2. Rule utility: every rule other than the start rule is referenced at
//     least twice.
//
// A duplicated digram becomes a rule; a rule whose reference count drops to
// one is expanded back inline. Both restorations run in amortized constant
// time per pushed value.
//
// Basic usage:
//
//	seq := sequitur.New[byte]()
//	seq.Extend([]byte("abcabcabc"))
//
//	it := seq.Iter()
//	for v, ok := it.Next(); ok; v, ok = it.Next() {
//	    // values come back in input order
//	    _ = v
//	}
//
// The Documents type applies the same grammar maintenance across several
// independent sequences sharing one rule pool.
package sequitur

import "github.com/coregx/coreseq/grammar"

// Engine is a single-sequence Sequitur compressor over terminals of type T.
//
// An Engine is not safe for concurrent use. Every mutating call takes the
// engine exclusively; iterators borrow it read-only and must not outlive
// intervening mutations.
type Engine[T comparable] struct {
	core[T]

	// seqEnd is the RuleTail of rule 0; values are appended before it.
	seqEnd grammar.Index
	length int
}

// New creates an empty engine. Rule 0, the start rule, exists from the
// beginning with an empty body.
func New[T comparable]() *Engine[T] {
	e := &Engine[T]{core: newCore[T]()}

	id := e.ids.Get() // rule 0
	tail := e.arena.Insert(grammar.NewRuleTail[T]())
	head := e.arena.Insert(grammar.NewRuleHead[T](id, tail))
	e.link(head, tail)
	e.rules[id] = head
	e.seqEnd = tail

	return e
}

// Push appends one value to the sequence and restores the grammar invariants.
func (e *Engine[T]) Push(v T) {
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

	if !prev.IsNone() && !e.arena.Get(prev).Sym.IsStart() {
		e.linkMade(prev)
	}
}

// Extend appends every value in order. Equivalent to pushing one by one.
func (e *Engine[T]) Extend(values []T) {
	for _, v := range values {
		e.Push(v)
	}
}

// Len returns the number of values accepted so far.
func (e *Engine[T]) Len() int { return e.length }

// IsEmpty reports whether no values have been accepted.
func (e *Engine[T]) IsEmpty() bool { return e.length == 0 }

// Rules returns the live rule index: rule id to RuleHead position. The map is
// a read-only view owned by the engine and must not be modified.
func (e *Engine[T]) Rules() map[grammar.RuleID]grammar.Index { return e.rules }

// Iter returns a lazy iterator that reconstructs the input sequence.
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
	}
}

// Stats describes the size of a grammar relative to its input.
type Stats struct {
	// InputLength is the number of values accepted.
	InputLength int
	// GrammarSymbols is the total number of symbols across all rule bodies.
	GrammarSymbols int
	// NumRules counts rules including rule 0.
	NumRules int
}

// Ratio returns grammar symbols over input length as a percentage. Lower is
// better; an empty input reports 0.
func (s Stats) Ratio() float64 {
	if s.InputLength == 0 {
		return 0
	}
	return float64(s.GrammarSymbols) / float64(s.InputLength) * 100
}
