package repair

import "github.com/coregx/coreseq/grammar"

// Compress runs the RePair replacement loop. It is idempotent: calling it
// again after it has finished is a no-op, and reconstruction is unchanged.
func (e *Engine[T]) Compress() {
	if e.compressed || e.length < 2 {
		e.compressed = true
		return
	}

	e.buildPairTable()

	for {
		key, rec, ok := e.popBucket()
		if !ok {
			break
		}
		e.replacePair(key, rec)
	}

	// The tracking structures only live for the duration of the loop.
	e.pairs = nil
	e.threads = nil
	e.buckets = nil
	e.maxFreq = 0

	e.compressed = true
}

// buildPairTable scans rule 0 once, threading every non-sentinel-bounded
// adjacent pair into the record for its key, then queues the keys with
// frequency at least 2.
func (e *Engine[T]) buildPairTable() {
	e.pairs = make(map[pairKey]*pairRecord)
	e.threads = make(map[grammar.Index]occLink)
	e.buckets = nil
	e.maxFreq = 0

	head := e.rules[0]
	cur := e.arena.Get(head).Next
	for !cur.IsNone() {
		next := e.arena.Get(cur).Next
		if next.IsNone() {
			break
		}
		if key, ok := e.pairKeyAt(cur); ok {
			e.thread(cur, key)
		}
		cur = next
	}

	for key, rec := range e.pairs {
		if rec.freq >= 2 {
			e.pushBucket(key, rec.freq)
		}
	}
}

// replacePair creates a rule for the pair and rewrites every still-valid
// occurrence on its thread into a reference, maintaining the neighbouring
// pairs' threads and frequencies as it goes.
func (e *Engine[T]) replacePair(key pairKey, rec *pairRecord) {
	id := e.ids.Get()
	tail := e.arena.Insert(grammar.NewRuleTail[T]())
	head := e.arena.Insert(grammar.NewRuleHead[T](id, tail))
	ruleFirst := e.arena.Insert(e.symbolFor(key.first))
	ruleSecond := e.arena.Insert(e.symbolFor(key.second))

	e.arena.Get(head).Next = ruleFirst
	e.arena.Get(ruleFirst).Prev = head
	e.arena.Get(ruleFirst).Next = ruleSecond
	e.arena.Get(ruleSecond).Prev = ruleFirst
	e.arena.Get(ruleSecond).Next = tail
	e.arena.Get(tail).Prev = ruleSecond

	e.rules[id] = head

	// Snapshot the thread before mutating it: replacements unthread their
	// neighbours, which may include later occurrences of this same pair.
	occs := make([]grammar.Index, 0, rec.freq)
	for p := rec.firstOcc; !p.IsNone(); {
		occs = append(occs, p)
		o, ok := e.threads[p]
		if !ok {
			break
		}
		p = o.next
	}

	var count uint32
	for _, occ := range occs {
		second, ok := e.occurrenceValid(occ, key)
		if !ok {
			// Invalidated by an earlier replacement in this pass.
			delete(e.threads, occ)
			continue
		}

		before := e.arena.Get(occ).Prev
		after := e.arena.Get(second).Next

		// Retire the consumed occurrence and the two overlapping pairs.
		e.unthread(occ)
		if !before.IsNone() {
			e.unthread(before)
		}
		e.unthread(second)

		ref := e.arena.Insert(grammar.NewRuleRef[T](id))
		rn := e.arena.Get(ref)
		rn.Prev = before
		rn.Next = after
		if !before.IsNone() {
			e.arena.Get(before).Next = ref
		}
		if !after.IsNone() {
			e.arena.Get(after).Prev = ref
		}

		e.arena.Remove(occ)
		e.arena.Remove(second)
		count++

		// Register the two pairs created around the new reference.
		if !before.IsNone() {
			if k, ok := e.pairKeyAt(before); ok {
				if f := e.thread(before, k); f >= 2 {
					e.pushBucket(k, f)
				}
			}
		}
		if k, ok := e.pairKeyAt(ref); ok {
			if f := e.thread(ref, k); f >= 2 {
				e.pushBucket(k, f)
			}
		}
	}

	e.arena.Get(head).Sym.AddCount(count)
	delete(e.pairs, key)
}

// occurrenceValid re-checks that the two nodes at occ still form the target
// pair. Earlier replacements in the same pass may have consumed either node
// or changed its neighbourhood.
func (e *Engine[T]) occurrenceValid(occ grammar.Index, key pairKey) (grammar.Index, bool) {
	if !e.arena.Contains(occ) {
		return grammar.None, false
	}
	first, ok := e.symIDAt(occ)
	if !ok || first != key.first {
		return grammar.None, false
	}

	second := e.arena.Get(occ).Next
	if second.IsNone() || !e.arena.Contains(second) {
		return grammar.None, false
	}
	sid, ok := e.symIDAt(second)
	if !ok || sid != key.second {
		return grammar.None, false
	}
	return second, true
}
