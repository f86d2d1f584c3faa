package repair

import "github.com/coregx/coreseq/grammar"

// symID identifies one half of a pair: an interned terminal or a rule
// reference. Distinguishing the kind keeps terminal ids and rule ids from
// colliding.
type symID struct {
	isRule bool
	id     uint32
}

// pairKey identifies a pair of adjacent symbols.
type pairKey struct {
	first, second symID
}

// pairRecord tracks one pair across the sequence: its current frequency and
// the head and tail of the doubly linked thread through all its occurrences.
type pairRecord struct {
	freq     uint32
	firstOcc grammar.Index
	lastOcc  grammar.Index
}

// occLink threads a sequence position into the occurrence list of the pair it
// currently starts.
type occLink struct {
	key  pairKey
	prev grammar.Index
	next grammar.Index
}

// symIDAt returns the pair identity of the node at pos, or false for
// sentinels.
func (e *Engine[T]) symIDAt(pos grammar.Index) (symID, bool) {
	n := e.arena.Get(pos)
	switch n.Sym.Kind() {
	case grammar.KindValue:
		id, ok := e.valueIndex[n.Sym.Value()]
		if !ok {
			return symID{}, false
		}
		return symID{id: id}, true
	case grammar.KindRuleRef:
		return symID{isRule: true, id: uint32(n.Sym.Rule())}, true
	default:
		return symID{}, false
	}
}

// pairKeyAt returns the key of the pair starting at pos, or false when either
// member is a sentinel.
func (e *Engine[T]) pairKeyAt(pos grammar.Index) (pairKey, bool) {
	first, ok := e.symIDAt(pos)
	if !ok {
		return pairKey{}, false
	}
	next := e.arena.Get(pos).Next
	if next.IsNone() {
		return pairKey{}, false
	}
	second, ok := e.symIDAt(next)
	if !ok {
		return pairKey{}, false
	}
	return pairKey{first: first, second: second}, true
}

// symbolFor converts a pair half back into a symbol for a rule body.
func (e *Engine[T]) symbolFor(id symID) grammar.Symbol[T] {
	if id.isRule {
		return grammar.NewRuleRef[T](grammar.RuleID(id.id))
	}
	return grammar.NewValue(e.values[id.id])
}

// thread appends pos to the occurrence list for key, creating the record if
// needed, and returns the pair's new frequency. O(1) via the tail pointer.
func (e *Engine[T]) thread(pos grammar.Index, key pairKey) uint32 {
	rec := e.pairs[key]
	if rec == nil {
		rec = &pairRecord{}
		e.pairs[key] = rec
	}

	if rec.lastOcc.IsNone() {
		rec.firstOcc = pos
	} else {
		last := e.threads[rec.lastOcc]
		last.next = pos
		e.threads[rec.lastOcc] = last
	}
	e.threads[pos] = occLink{key: key, prev: rec.lastOcc}
	rec.lastOcc = pos

	rec.freq++
	return rec.freq
}

// unthread removes pos from its pair's occurrence list and decrements the
// pair's frequency. A position with no thread entry is ignored.
func (e *Engine[T]) unthread(pos grammar.Index) {
	o, ok := e.threads[pos]
	if !ok {
		return
	}
	delete(e.threads, pos)

	rec := e.pairs[o.key]
	if rec == nil {
		return
	}

	if o.prev.IsNone() {
		rec.firstOcc = o.next
	} else if p, ok := e.threads[o.prev]; ok {
		p.next = o.next
		e.threads[o.prev] = p
	}

	if o.next.IsNone() {
		rec.lastOcc = o.prev
	} else if n, ok := e.threads[o.next]; ok {
		n.prev = o.prev
		e.threads[o.next] = n
	}

	if rec.freq > 0 {
		rec.freq--
	}
}
