package grammar

import "testing"

// chain inserts value nodes and links them into one sequence, returning the
// indices in order.
func chain(a *Arena[byte], values ...byte) []Index {
	idx := make([]Index, len(values))
	for i, v := range values {
		idx[i] = a.Insert(NewValue(v))
		if i > 0 {
			a.Get(idx[i-1]).Next = idx[i]
			a.Get(idx[i]).Prev = idx[i-1]
		}
	}
	return idx
}

func TestDigrams_InsertThenFind(t *testing.T) {
	a := NewArena[byte]()
	d := NewDigrams(a)

	// a b ... a b
	idx := chain(a, 'a', 'b', 'c', 'a', 'b')

	if m := d.FindOrInsert(idx[0], idx[1]); m.Kind != MatchInserted {
		t.Fatalf("first occurrence: kind = %v, want MatchInserted", m.Kind)
	}
	m := d.FindOrInsert(idx[3], idx[4])
	if m.Kind != MatchFound {
		t.Fatalf("second occurrence: kind = %v, want MatchFound", m.Kind)
	}
	if m.Other != idx[0] {
		t.Error("match should point at the first occurrence")
	}
}

func TestDigrams_Self(t *testing.T) {
	a := NewArena[byte]()
	d := NewDigrams(a)
	idx := chain(a, 'a', 'b')

	d.FindOrInsert(idx[0], idx[1])
	if m := d.FindOrInsert(idx[0], idx[1]); m.Kind != MatchSelfOrOverlap {
		t.Errorf("re-inserting the same occurrence: kind = %v, want MatchSelfOrOverlap", m.Kind)
	}
}

func TestDigrams_Overlap(t *testing.T) {
	a := NewArena[byte]()
	d := NewDigrams(a)

	// In "aaa" the pair at 0-1 overlaps the pair at 1-2.
	idx := chain(a, 'a', 'a', 'a')

	if m := d.FindOrInsert(idx[0], idx[1]); m.Kind != MatchInserted {
		t.Fatalf("kind = %v, want MatchInserted", m.Kind)
	}
	if m := d.FindOrInsert(idx[1], idx[2]); m.Kind != MatchSelfOrOverlap {
		t.Errorf("overlapping pair: kind = %v, want MatchSelfOrOverlap", m.Kind)
	}
}

func TestDigrams_Stale(t *testing.T) {
	a := NewArena[byte]()
	d := NewDigrams(a)

	idx := chain(a, 'a', 'b')
	d.FindOrInsert(idx[0], idx[1])

	// Remove the recorded occurrence, then present a fresh one elsewhere.
	a.Get(idx[0]).Next = None
	a.Get(idx[1]).Prev = None
	a.Remove(idx[0])
	a.Remove(idx[1])

	fresh := chain(a, 'a', 'b')
	if m := d.FindOrInsert(fresh[0], fresh[1]); m.Kind != MatchStale {
		t.Errorf("kind = %v, want MatchStale", m.Kind)
	}

	// The replacement entry is live: a second fresh occurrence matches it.
	more := chain(a, 'a', 'b')
	m := d.FindOrInsert(more[0], more[1])
	if m.Kind != MatchFound || m.Other != fresh[0] {
		t.Errorf("got (%v, %v), want match at the replacement occurrence", m.Kind, m.Other)
	}
}

func TestDigrams_SentinelSuppression(t *testing.T) {
	a := NewArena[byte]()
	d := NewDigrams(a)

	tail := a.Insert(NewRuleTail[byte]())
	head := a.Insert(NewRuleHead[byte](0, tail))
	v := a.Insert(NewValue[byte]('a'))

	a.Get(head).Next = v
	a.Get(v).Prev = head
	a.Get(v).Next = tail
	a.Get(tail).Prev = v

	if m := d.FindOrInsert(head, v); m.Kind != MatchNone {
		t.Errorf("head-first pair: kind = %v, want MatchNone", m.Kind)
	}
	if m := d.FindOrInsert(v, tail); m.Kind != MatchNone {
		t.Errorf("tail-second pair: kind = %v, want MatchNone", m.Kind)
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}
}

func TestDigrams_RemoveIfAt(t *testing.T) {
	a := NewArena[byte]()
	d := NewDigrams(a)

	idx := chain(a, 'a', 'b', 'c', 'a', 'b')
	d.FindOrInsert(idx[0], idx[1])

	// Removing via another occurrence must not clear the live entry.
	d.RemoveIfAt(idx[3])
	if m := d.FindOrInsert(idx[3], idx[4]); m.Kind != MatchFound {
		t.Fatalf("entry was removed through the wrong occurrence")
	}

	d.RemoveIfAt(idx[0])
	if m := d.FindOrInsert(idx[0], idx[1]); m.Kind != MatchInserted {
		t.Errorf("kind = %v, want MatchInserted after removal", m.Kind)
	}
}

func TestDigrams_Lookup(t *testing.T) {
	a := NewArena[byte]()
	d := NewDigrams(a)

	idx := chain(a, 'a', 'b', 'c', 'a', 'b')
	d.FindOrInsert(idx[0], idx[1])

	other, ok := d.Lookup(idx[3])
	if !ok || other != idx[0] {
		t.Errorf("Lookup = (%v, %v), want (%v, true)", other, ok, idx[0])
	}

	// Lookup from the recorded occurrence itself reports nothing.
	if _, ok := d.Lookup(idx[0]); ok {
		t.Error("Lookup at the recorded occurrence should not match itself")
	}
}
