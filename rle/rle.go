// Package rle implements RLE-Sequitur: online grammar compression where each
// node carries a run length, so consecutive identical symbols collapse into
// one node.
//
// On top of the standard Sequitur invariants the engine maintains a third:
// no two adjacent non-sentinel nodes carry equal payloads. Digram similarity
// ignores run counts, and rule creation normalises runs by splitting nodes
// down to the per-position minimum of the two matched occurrences.
//
// The payoff is on run-heavy inputs: a run of 1000 equal values is a single
// node, and a pattern like (ab)^k needs a constant number of rules where
// standard Sequitur builds O(log k).
package rle

import "github.com/coregx/coreseq/grammar"

// Engine is a single-sequence RLE-Sequitur compressor over terminals of type
// T. It is not safe for concurrent use.
type Engine[T comparable] struct {
	core[T]

	seqEnd grammar.Index
	length int
}

// New creates an empty engine with rule 0 in place.
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

// Push appends one value. If the value equals the last node's payload only
// the run count grows and no grammar work happens; otherwise a new node is
// linked in and the invariants are restored.
func (e *Engine[T]) Push(v T) {
	tail := e.seqEnd
	prev := e.arena.Get(tail).Prev

	if !prev.IsNone() {
		pn := e.arena.Get(prev)
		if pn.Sym.Kind() == grammar.KindValue && pn.Sym.Value() == v {
			pn.Run++
			e.length++
			return
		}
	}

	node := e.arena.Insert(grammar.NewValue(v))

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

// Extend appends every value in order.
func (e *Engine[T]) Extend(values []T) {
	for _, v := range values {
		e.Push(v)
	}
}

// EndRun signals that the current run of repeated values has finished and the
// trailing digram should be re-checked. Optional: the grammar stays correct
// without it, but restructuring around a still-open run is deferred until the
// next distinct value arrives.
func (e *Engine[T]) EndRun() {
	prev := e.arena.Get(e.seqEnd).Prev
	if prev.IsNone() || e.arena.Get(prev).Sym.IsStart() {
		return
	}
	pp := e.arena.Get(prev).Prev
	if pp.IsNone() || e.arena.Get(pp).Sym.IsStart() {
		return
	}
	e.linkMade(pp)
}

// Len returns the number of values accepted, counting run lengths.
func (e *Engine[T]) Len() int { return e.length }

// IsEmpty reports whether no values have been accepted.
func (e *Engine[T]) IsEmpty() bool { return e.length == 0 }

// Rules returns the live rule index. The map is a read-only view owned by the
// engine and must not be modified.
func (e *Engine[T]) Rules() map[grammar.RuleID]grammar.Index { return e.rules }

// Iter returns a lazy iterator that reconstructs the input, replaying each
// node's run count.
func (e *Engine[T]) Iter() *grammar.RunExpander[T] {
	start := e.arena.Get(e.rules[0]).Next
	return grammar.NewRunExpander(e.arena, e.rules, start)
}

// Stats returns compression accounting for the current grammar.
func (e *Engine[T]) Stats() Stats {
	nodes := 0
	var expanded uint64
	for _, head := range e.rules {
		cur := e.arena.Get(head).Next
		for !cur.IsNone() {
			n := e.arena.Get(cur)
			if n.Next.IsNone() {
				break // the rule tail
			}
			nodes++
			expanded += uint64(n.Run)
			cur = n.Next
		}
	}
	return Stats{
		InputLength:            e.length,
		GrammarNodes:           nodes,
		GrammarSymbolsExpanded: expanded,
		NumRules:               len(e.rules),
	}
}

// Stats describes the size of an RLE grammar relative to its input.
type Stats struct {
	// InputLength is the number of values accepted, counting runs.
	InputLength int
	// GrammarNodes is the number of distinct nodes across all rule bodies.
	GrammarNodes int
	// GrammarSymbolsExpanded is the sum of run counts across those nodes.
	GrammarSymbolsExpanded uint64
	// NumRules counts rules including rule 0.
	NumRules int
}

// Ratio returns grammar nodes over input length as a percentage. Lower is
// better; an empty input reports 0.
func (s Stats) Ratio() float64 {
	if s.InputLength == 0 {
		return 0
	}
	return float64(s.GrammarNodes) / float64(s.InputLength) * 100
}

// ExpandedRatio returns the ratio counting expanded runs instead of nodes.
func (s Stats) ExpandedRatio() float64 {
	if s.InputLength == 0 {
		return 0
	}
	return float64(s.GrammarSymbolsExpanded) / float64(s.InputLength) * 100
}
