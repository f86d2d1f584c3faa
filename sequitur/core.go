package sequitur

import "github.com/coregx/coreseq/grammar"

// core holds the grammar state shared by the single-sequence Engine and the
// multi-document Documents engine, together with the invariant-restoration
// machinery. Both engines embed it, so rule creation, rule reuse, and
// rule-utility expansion behave identically whether digram occurrences live
// in one start rule or across document sequences.
type core[T comparable] struct {
	arena   *grammar.Arena[T]
	digrams *grammar.Digrams[T]
	rules   map[grammar.RuleID]grammar.Index
	ids     grammar.IDGen
}

func newCore[T comparable]() core[T] {
	arena := grammar.NewArena[T]()
	return core[T]{
		arena:   arena,
		digrams: grammar.NewDigrams(arena),
		rules:   make(map[grammar.RuleID]grammar.Index),
	}
}

// link makes b the successor of a.
func (c *core[T]) link(a, b grammar.Index) {
	c.arena.Get(a).Next = b
	c.arena.Get(b).Prev = a
}

// linkMade is the heart of the algorithm. It is invoked whenever a new
// adjacency appears at first, and restores digram uniqueness by either
// reusing an existing rule (when the matching occurrence is a whole rule
// body) or creating a new rule from the two occurrences. Either path can
// cascade further linkMade calls; every action removes at least one grammar
// symbol or leaves both invariants satisfied, so the recursion terminates.
func (c *core[T]) linkMade(first grammar.Index) {
	second := c.arena.Get(first).Next
	if second.IsNone() {
		return
	}

	m := c.digrams.FindOrInsert(first, second)
	if m.Kind != grammar.MatchFound {
		return
	}

	if head, ok := c.completeRule(m.Other); ok {
		ref := c.swapForExistingRule(first, head)
		c.checkNewLinks(ref)
		return
	}

	loc1, loc2 := c.swapForNewRule(first, m.Other)
	c.checkNewLinksPair(loc1, loc2)
}

// completeRule reports whether the digram starting at first is an entire rule
// body: preceded by a RuleHead whose paired tail immediately follows the
// second node. Returns the RuleHead position on success.
func (c *core[T]) completeRule(first grammar.Index) (grammar.Index, bool) {
	fn := c.arena.Get(first)
	second := fn.Next
	prev := fn.Prev
	if second.IsNone() || prev.IsNone() {
		return grammar.None, false
	}

	pn := c.arena.Get(prev)
	if pn.Sym.Kind() != grammar.KindRuleHead {
		return grammar.None, false
	}

	after := c.arena.Get(second).Next
	if after.IsNone() || c.arena.Get(after).Sym.Kind() != grammar.KindRuleTail {
		return grammar.None, false
	}

	if pn.Sym.Tail() != after {
		return grammar.None, false
	}
	return prev, true
}

// swapForNewRule creates a rule from the two digram occurrences starting at a
// and b, replaces both with references to it, and returns the positions of
// the two new references. The rule body holds copies of the symbol payloads,
// not the original nodes.
func (c *core[T]) swapForNewRule(a, b grammar.Index) (grammar.Index, grammar.Index) {
	aSecond := c.arena.Get(a).Next
	firstSym := c.arena.Get(a).Sym
	secondSym := c.arena.Get(aSecond).Sym

	id := c.ids.Get()
	tail := c.arena.Insert(grammar.NewRuleTail[T]())
	head := c.arena.Insert(grammar.NewRuleHead[T](id, tail))
	ruleFirst := c.arena.Insert(firstSym)
	ruleSecond := c.arena.Insert(secondSym)

	c.link(head, ruleFirst)
	c.link(ruleFirst, ruleSecond)
	c.link(ruleSecond, tail)

	// Point the index at the rule's own copy of the digram.
	c.digrams.RemoveIfAt(a)
	c.digrams.RemoveIfAt(b)
	c.digrams.Put(ruleFirst)

	c.rules[id] = head

	c.incIfRule(ruleFirst)
	c.incIfRule(ruleSecond)

	loc1 := c.swapForExistingRule(a, head)
	loc2 := c.swapForExistingRule(b, head)
	return loc1, loc2
}

// swapForExistingRule replaces the digram starting at first with a reference
// to the rule at ruleHead and returns the reference's position.
func (c *core[T]) swapForExistingRule(first, ruleHead grammar.Index) grammar.Index {
	second := c.arena.Get(first).Next
	before := c.arena.Get(first).Prev
	after := c.arena.Get(second).Next

	// Invalidate index records that name the nodes being spliced out.
	if !before.IsNone() {
		c.digrams.RemoveIfAt(before)
	}
	c.digrams.RemoveIfAt(second)

	// Only decrement here; utility expansion happens after the splice.
	c.decIfRule(first)
	c.decIfRule(second)

	id := c.arena.Get(ruleHead).Sym.Rule()
	ref := c.arena.Insert(grammar.NewRuleRef[T](id))

	rn := c.arena.Get(ref)
	rn.Prev = before
	rn.Next = after
	if !before.IsNone() {
		c.arena.Get(before).Next = ref
	}
	if !after.IsNone() {
		c.arena.Get(after).Prev = ref
	}

	c.arena.Get(ruleHead).Sym.AddCount(1)

	c.arena.Remove(first)
	c.arena.Remove(second)

	// The decrements above may have dropped a rule referenced from this
	// rule's body to a single use. Re-resolve the body positions between
	// expansions: the first expansion can cascade and restructure it.
	c.expandRuleIfNecessary(c.arena.Get(ruleHead).Next)
	if c.arena.Contains(ruleHead) {
		if rf := c.arena.Get(ruleHead).Next; !rf.IsNone() && c.arena.Contains(rf) {
			if rs := c.arena.Get(rf).Next; !rs.IsNone() && c.arena.Contains(rs) &&
				c.arena.Get(rs).Sym.Kind() != grammar.KindRuleTail {
				c.expandRuleIfNecessary(rs)
			}
		}
	}

	return ref
}

// expandRuleIfNecessary enforces rule utility: a RuleRef whose rule has
// dropped to exactly one use is replaced by the rule body, the rule is
// destroyed and its id freed, and the splice joints are re-checked.
func (c *core[T]) expandRuleIfNecessary(pos grammar.Index) {
	if pos.IsNone() || !c.arena.Contains(pos) {
		return
	}
	n := c.arena.Get(pos)
	if n.Sym.Kind() != grammar.KindRuleRef {
		return
	}
	head, ok := c.rules[n.Sym.Rule()]
	if !ok {
		return
	}
	hn := c.arena.Get(head)
	if hn.Sym.Count() != 1 {
		return
	}

	id := hn.Sym.Rule()
	tail := hn.Sym.Tail()
	ruleFirst := hn.Next
	ruleLast := c.arena.Get(tail).Prev

	before := n.Prev
	after := n.Next

	if !before.IsNone() {
		c.digrams.RemoveIfAt(before)
	}
	c.digrams.RemoveIfAt(pos)

	delete(c.rules, id)
	c.ids.Free(id)

	c.arena.Remove(head)
	c.arena.Remove(tail)

	// Splice the rule body in place of the reference.
	c.arena.Get(ruleFirst).Prev = before
	c.arena.Get(ruleLast).Next = after
	if !before.IsNone() {
		c.arena.Get(before).Next = ruleFirst
	}
	if !after.IsNone() {
		c.arena.Get(after).Prev = ruleLast
	}

	c.arena.Remove(pos)

	// Check the joints. The first call can cascade and delete the nodes the
	// second would start from, hence the membership re-checks.
	if !before.IsNone() && c.arena.Contains(before) && !c.arena.Get(before).Sym.IsStart() {
		c.linkMade(before)
	}
	if !after.IsNone() && c.arena.Contains(after) && c.arena.Contains(ruleLast) &&
		!c.arena.Get(after).Sym.IsEnd() {
		c.linkMade(ruleLast)
	}
}

// checkNewLinks re-examines the adjacencies around a freshly inserted
// reference: the digram ending at pos and the digram starting at it.
func (c *core[T]) checkNewLinks(pos grammar.Index) {
	if !c.arena.Contains(pos) {
		return
	}
	if prev := c.arena.Get(pos).Prev; !prev.IsNone() && !c.arena.Get(prev).Sym.IsStart() {
		c.linkMade(prev)
	}

	if !c.arena.Contains(pos) {
		return
	}
	n := c.arena.Get(pos)
	if next := n.Next; !next.IsNone() && !c.arena.Get(next).Sym.IsEnd() && !n.Sym.IsStart() {
		c.linkMade(pos)
	}
}

// checkNewLinksPair re-examines the adjacencies around the two references
// inserted by a rule creation.
func (c *core[T]) checkNewLinksPair(r1, r2 grammar.Index) {
	if c.arena.Contains(r1) {
		n := c.arena.Get(r1)
		if next := n.Next; !next.IsNone() && !c.arena.Get(next).Sym.IsEnd() && !n.Sym.IsStart() {
			c.linkMade(r1)
		}
	}

	if c.arena.Contains(r2) {
		n := c.arena.Get(r2)
		if next := n.Next; !next.IsNone() && !c.arena.Get(next).Sym.IsEnd() && !n.Sym.IsStart() {
			c.linkMade(r2)
		}
	}

	if c.arena.Contains(r2) {
		if prev := c.arena.Get(r2).Prev; !prev.IsNone() && prev != r1 &&
			!c.arena.Get(prev).Sym.IsStart() {
			c.linkMade(prev)
		}
	}

	if c.arena.Contains(r1) {
		if prev := c.arena.Get(r1).Prev; !prev.IsNone() && prev != r2 &&
			!c.arena.Get(prev).Sym.IsStart() {
			c.linkMade(prev)
		}
	}
}

func (c *core[T]) incIfRule(pos grammar.Index) {
	n := c.arena.Get(pos)
	if n.Sym.Kind() != grammar.KindRuleRef {
		return
	}
	if head, ok := c.rules[n.Sym.Rule()]; ok {
		c.arena.Get(head).Sym.AddCount(1)
	}
}

func (c *core[T]) decIfRule(pos grammar.Index) {
	n := c.arena.Get(pos)
	if n.Sym.Kind() != grammar.KindRuleRef {
		return
	}
	if head, ok := c.rules[n.Sym.Rule()]; ok {
		c.arena.Get(head).Sym.SubCount(1)
	}
}
