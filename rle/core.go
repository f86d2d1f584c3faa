package rle

import "github.com/coregx/coreseq/grammar"

// core holds the run-length grammar state shared by Engine and Documents,
// plus the RLE variant of the invariant machinery. It differs from the
// standard engine in three ways: adjacent nodes with equal payloads are
// merged into one node whose run is the sum, digram matching ignores run
// counts, and rule reference counts are weighted by the referencing node's
// run.
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

func (c *core[T]) link(a, b grammar.Index) {
	c.arena.Get(a).Next = b
	c.arena.Get(b).Prev = a
}

// tryMergeWithNext collapses k and its successor into one node when they
// carry equal payloads, adding the successor's run to k's. Reference counts
// do not change: the total number of uses is preserved in the merged run.
// Returns true if a merge occurred.
func (c *core[T]) tryMergeWithNext(k grammar.Index) bool {
	n := c.arena.Get(k)
	next := n.Next
	if next.IsNone() {
		return false
	}
	nn := c.arena.Get(next)
	if nn.Sym.IsEnd() {
		return false
	}
	if !n.Sym.Equal(nn.Sym) {
		return false
	}

	if !n.Prev.IsNone() {
		c.digrams.RemoveIfAt(n.Prev)
	}
	c.digrams.RemoveIfAt(k)
	c.digrams.RemoveIfAt(next)

	after := nn.Next
	run := nn.Run

	n = c.arena.Get(k)
	n.Run += run
	n.Next = after
	if !after.IsNone() {
		c.arena.Get(after).Prev = k
	}
	c.arena.Remove(next)
	return true
}

// splitNode truncates k to firstRun and inserts a sibling after it carrying
// the same payload and the remaining run. Requires 0 < firstRun < k.Run.
// Reference counts do not change: the runs on both halves sum to the
// original. Returns the sibling's position.
func (c *core[T]) splitNode(k grammar.Index, firstRun uint32) grammar.Index {
	total := c.arena.Get(k).Run
	if firstRun == 0 || firstRun >= total {
		panic("rle: splitNode run out of range")
	}

	c.digrams.RemoveIfAt(k)

	sym := c.arena.Get(k).Sym
	second := c.arena.InsertRun(sym, total-firstRun)

	kn := c.arena.Get(k)
	kn.Run = firstRun
	after := kn.Next
	kn.Next = second

	sn := c.arena.Get(second)
	sn.Prev = k
	sn.Next = after
	if !after.IsNone() {
		c.arena.Get(after).Prev = second
	}
	return second
}

// completeRule reports whether the digram starting at first is an entire rule
// body. In RLE mode both body nodes must additionally have run exactly 1, so
// that reuse does not over-count.
func (c *core[T]) completeRule(first grammar.Index) (grammar.Index, bool) {
	fn := c.arena.Get(first)
	second := fn.Next
	if second.IsNone() {
		return grammar.None, false
	}
	if fn.Run != 1 || c.arena.Get(second).Run != 1 {
		return grammar.None, false
	}

	prev := fn.Prev
	if prev.IsNone() {
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

// swapForNewRule creates a rule from two similar digrams whose runs may
// differ. The rule body carries the per-position minimum of the two digrams'
// runs; each occurrence is first split down to those minima (the first node
// from its right so the tail aligns, the second from its left so the head
// aligns), leaving the residual halves in the outer sequence.
func (c *core[T]) swapForNewRule(m1, m2 grammar.Index) (grammar.Index, grammar.Index) {
	m1Second := c.arena.Get(m1).Next
	m2Second := c.arena.Get(m2).Next

	firstRun := min(c.arena.Get(m1).Run, c.arena.Get(m2).Run)
	secondRun := min(c.arena.Get(m1Second).Run, c.arena.Get(m2Second).Run)

	m1First, m1Sec := c.prepareDigram(m1, firstRun, secondRun)
	m2First, _ := c.prepareDigram(m2, firstRun, secondRun)

	id := c.ids.Get()
	tail := c.arena.Insert(grammar.NewRuleTail[T]())
	head := c.arena.Insert(grammar.NewRuleHead[T](id, tail))

	firstSym := c.arena.Get(m1First).Sym
	secondSym := c.arena.Get(m1Sec).Sym
	ruleFirst := c.arena.InsertRun(firstSym, firstRun)
	ruleSecond := c.arena.InsertRun(secondSym, secondRun)

	c.link(head, ruleFirst)
	c.link(ruleFirst, ruleSecond)
	c.link(ruleSecond, tail)

	c.digrams.RemoveIfAt(m1First)
	c.digrams.RemoveIfAt(m2First)
	c.digrams.Put(ruleFirst)

	c.rules[id] = head

	c.incIfRule(ruleFirst)
	c.incIfRule(ruleSecond)

	loc1 := c.swapForExistingRule(m1First, head)
	loc2 := c.swapForExistingRule(m2First, head)
	return loc1, loc2
}

// prepareDigram splits the digram's nodes down to the target runs and returns
// the (possibly new) first and second positions.
func (c *core[T]) prepareDigram(first grammar.Index, targetFirst, targetSecond uint32) (grammar.Index, grammar.Index) {
	firstKey := first
	secondKey := c.arena.Get(first).Next

	if run := c.arena.Get(firstKey).Run; run > targetFirst {
		// Keep the last targetFirst occurrences adjacent to the second node.
		firstKey = c.splitNode(firstKey, run-targetFirst)
		secondKey = c.arena.Get(firstKey).Next
	}

	if run := c.arena.Get(secondKey).Run; run > targetSecond {
		// Keep the first targetSecond occurrences adjacent to the first node.
		c.splitNode(secondKey, targetSecond)
	}

	return firstKey, secondKey
}

// swapForExistingRule replaces the digram starting at first with a run-1
// reference to the rule at ruleHead.
func (c *core[T]) swapForExistingRule(first, ruleHead grammar.Index) grammar.Index {
	second := c.arena.Get(first).Next
	before := c.arena.Get(first).Prev
	after := c.arena.Get(second).Next

	if !before.IsNone() {
		c.digrams.RemoveIfAt(before)
	}
	c.digrams.RemoveIfAt(second)

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

	// Expanding the first body position can cascade and restructure the
	// body, so the second position is re-resolved from the head afterwards.
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

// expandRuleIfNecessary enforces rule utility. Only a reference with run
// exactly 1 naming a rule with count exactly 1 is expanded inline; a run
// greater than 1 still represents multiple textual uses.
func (c *core[T]) expandRuleIfNecessary(pos grammar.Index) {
	if pos.IsNone() || !c.arena.Contains(pos) {
		return
	}
	n := c.arena.Get(pos)
	if n.Sym.Kind() != grammar.KindRuleRef || n.Run != 1 {
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

	c.arena.Get(ruleFirst).Prev = before
	c.arena.Get(ruleLast).Next = after
	if !before.IsNone() {
		c.arena.Get(before).Next = ruleFirst
	}
	if !after.IsNone() {
		c.arena.Get(after).Prev = ruleLast
	}

	c.arena.Remove(pos)

	// The splice may have created adjacent equal nodes; merge before any
	// digram checks.
	if !before.IsNone() && c.arena.Contains(before) && !c.arena.Get(before).Sym.IsStart() {
		if !c.tryMergeWithNext(before) {
			c.linkMade(before)
		}
	}
	if !after.IsNone() && c.arena.Contains(after) && !c.arena.Get(after).Sym.IsEnd() {
		if c.arena.Contains(ruleLast) && !c.tryMergeWithNext(ruleLast) {
			c.linkMade(ruleLast)
		}
	}
}

// linkMade restores the RLE invariants after a new adjacency appears at
// first: merge adjacent equals first, then resolve any duplicated digram.
func (c *core[T]) linkMade(first grammar.Index) {
	if c.tryMergeWithNext(first) {
		// Re-examine the digrams formed around the merged node.
		prev := c.arena.Get(first).Prev
		if !prev.IsNone() && !c.arena.Get(prev).Sym.IsStart() {
			if m := c.digrams.FindOrInsert(prev, first); m.Kind == grammar.MatchFound {
				c.handleDuplicate(prev)
			}
		}
		if c.arena.Contains(first) {
			next := c.arena.Get(first).Next
			if !next.IsNone() && !c.arena.Get(next).Sym.IsEnd() {
				if m := c.digrams.FindOrInsert(first, next); m.Kind == grammar.MatchFound {
					c.handleDuplicate(first)
				}
			}
		}
		return
	}

	second := c.arena.Get(first).Next
	if second.IsNone() {
		return
	}
	if m := c.digrams.FindOrInsert(first, second); m.Kind == grammar.MatchFound {
		c.handleDuplicateWithMatch(first, m.Other)
	}
}

// handleDuplicate re-resolves the match for the digram at first before acting
// on it; the triggering lookup may already be stale after a merge.
func (c *core[T]) handleDuplicate(first grammar.Index) {
	if other, ok := c.digrams.Lookup(first); ok {
		c.handleDuplicateWithMatch(first, other)
	}
}

func (c *core[T]) handleDuplicateWithMatch(first, match grammar.Index) {
	if head, ok := c.completeRule(match); ok {
		second := c.arena.Get(first).Next
		if c.arena.Get(first).Run == 1 && c.arena.Get(second).Run == 1 {
			ref := c.swapForExistingRule(first, head)
			c.checkNewLinks(ref)
			return
		}
	}

	loc1, loc2 := c.swapForNewRule(first, match)
	c.checkNewLinksPair(loc1, loc2)
}

// checkNewLinks re-examines the adjacencies around a freshly inserted
// reference, attempting merges before digram checks.
func (c *core[T]) checkNewLinks(pos grammar.Index) {
	if !c.arena.Contains(pos) {
		return
	}

	if prev := c.arena.Get(pos).Prev; !prev.IsNone() && !c.arena.Get(prev).Sym.IsStart() {
		if c.tryMergeWithNext(prev) {
			c.checkNewLinks(prev)
			return
		}
	}

	if !c.arena.Contains(pos) {
		return
	}
	if next := c.arena.Get(pos).Next; !next.IsNone() && !c.arena.Get(next).Sym.IsEnd() {
		if c.tryMergeWithNext(pos) {
			c.checkNewLinks(pos)
			return
		}
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
// inserted by a rule creation: merges first, then digram checks.
func (c *core[T]) checkNewLinksPair(r1, r2 grammar.Index) {
	for _, k := range [2]grammar.Index{r1, r2} {
		if !c.arena.Contains(k) {
			continue
		}
		if prev := c.arena.Get(k).Prev; !prev.IsNone() && !c.arena.Get(prev).Sym.IsStart() {
			c.tryMergeWithNext(prev)
		}
	}

	for _, k := range [2]grammar.Index{r1, r2} {
		if !c.arena.Contains(k) {
			continue
		}
		if next := c.arena.Get(k).Next; !next.IsNone() && !c.arena.Get(next).Sym.IsEnd() {
			c.tryMergeWithNext(k)
		}
	}

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
		if prev := c.arena.Get(r2).Prev; !prev.IsNone() && c.arena.Contains(r1) && prev != r1 &&
			!c.arena.Get(prev).Sym.IsStart() {
			c.linkMade(prev)
		}
	}

	if c.arena.Contains(r1) {
		if prev := c.arena.Get(r1).Prev; !prev.IsNone() && c.arena.Contains(r2) && prev != r2 &&
			!c.arena.Get(prev).Sym.IsStart() {
			c.linkMade(prev)
		}
	}
}

// incIfRule raises the referenced rule's count by the node's run: a reference
// with run r represents r textual uses.
func (c *core[T]) incIfRule(pos grammar.Index) {
	n := c.arena.Get(pos)
	if n.Sym.Kind() != grammar.KindRuleRef {
		return
	}
	run := n.Run
	if head, ok := c.rules[n.Sym.Rule()]; ok {
		c.arena.Get(head).Sym.AddCount(run)
	}
}

func (c *core[T]) decIfRule(pos grammar.Index) {
	n := c.arena.Get(pos)
	if n.Sym.Kind() != grammar.KindRuleRef {
		return
	}
	run := n.Run
	if head, ok := c.rules[n.Sym.Rule()]; ok {
		c.arena.Get(head).Sym.SubCount(run)
	}
}
