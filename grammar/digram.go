package grammar

// MatchKind classifies the outcome of a digram lookup.
type MatchKind uint8

const (
	// MatchNone means nothing was recorded and no match exists: the pair is
	// sentinel-bounded, or a fingerprint collision failed the full equality
	// check.
	MatchNone MatchKind = iota

	// MatchInserted means no prior occurrence existed; the index now records
	// this one.
	MatchInserted

	// MatchStale means the prior occurrence referred to removed nodes; the
	// entry was replaced with this occurrence.
	MatchStale

	// MatchSelfOrOverlap means the stored occurrence is this occurrence, or
	// the two occurrences share a node. Overlapping digrams must not form
	// rules: in "aaa" the pair at positions 0-1 overlaps the pair at 1-2.
	MatchSelfOrOverlap

	// MatchFound means a valid prior non-overlapping occurrence exists,
	// confirmed by full payload equality.
	MatchFound
)

// Match is the result of Digrams.FindOrInsert. Other is the first node of the
// prior occurrence and is only meaningful for MatchFound.
type Match struct {
	Kind  MatchKind
	Other Index
}

type digramKey struct {
	first, second Fingerprint
}

// Digrams maps each digram fingerprint to the first node of one occurrence.
//
// At rest the Sequitur engines keep this mapping one-to-one: every duplicated
// digram is resolved into a rule before control returns to the caller, so each
// fingerprint names the sole surviving occurrence. Digrams that start at a
// RuleHead/DocHead or end at a RuleTail/DocTail are never recorded.
type Digrams[T comparable] struct {
	arena *Arena[T]
	table map[digramKey]Index
}

// NewDigrams returns an empty index over the given arena.
func NewDigrams[T comparable](arena *Arena[T]) *Digrams[T] {
	return &Digrams[T]{
		arena: arena,
		table: make(map[digramKey]Index),
	}
}

// Len returns the number of recorded digrams.
func (d *Digrams[T]) Len() int { return len(d.table) }

// FindOrInsert looks up the digram (first, second), where second must be
// first's successor. If no valid prior occurrence exists the digram is
// recorded at first. All outcomes are reported via the returned Match; only
// MatchFound carries a usable prior occurrence.
func (d *Digrams[T]) FindOrInsert(first, second Index) Match {
	fn := d.arena.Get(first)
	sn := d.arena.Get(second)

	if fn.Sym.IsStart() || sn.Sym.IsEnd() {
		return Match{Kind: MatchNone}
	}

	key := digramKey{fn.Sym.Fingerprint(), sn.Sym.Fingerprint()}
	other, ok := d.table[key]
	if !ok {
		d.table[key] = first
		return Match{Kind: MatchInserted}
	}

	if other == first {
		return Match{Kind: MatchSelfOrOverlap}
	}

	// The stored occurrence may have been removed by a cascading rewrite.
	if !d.arena.Contains(other) {
		d.table[key] = first
		return Match{Kind: MatchStale}
	}
	otherSecond := d.arena.Get(other).Next
	if otherSecond.IsNone() || !d.arena.Contains(otherSecond) {
		d.table[key] = first
		return Match{Kind: MatchStale}
	}

	// Occurrences sharing a node do not count as duplicates.
	if otherSecond == first || other == second {
		return Match{Kind: MatchSelfOrOverlap}
	}

	// Full equality check guards against fingerprint collisions.
	if !fn.Sym.Equal(d.arena.Get(other).Sym) || !sn.Sym.Equal(d.arena.Get(otherSecond).Sym) {
		return Match{Kind: MatchNone}
	}

	return Match{Kind: MatchFound, Other: other}
}

// Lookup returns the recorded occurrence for the digram starting at first,
// excluding first itself and stale entries. It never modifies the index.
func (d *Digrams[T]) Lookup(first Index) (Index, bool) {
	key, ok := d.keyAt(first)
	if !ok {
		return None, false
	}
	other, ok := d.table[key]
	if !ok || other == first || !d.arena.Contains(other) {
		return None, false
	}
	return other, true
}

// RemoveIfAt removes the entry for the digram starting at first, but only
// when the index still names this exact occurrence. This prevents the removal
// of another live occurrence of the same digram.
func (d *Digrams[T]) RemoveIfAt(first Index) {
	if !d.arena.Contains(first) {
		return
	}
	key, ok := d.keyAt(first)
	if !ok {
		return
	}
	if cur, ok := d.table[key]; ok && cur == first {
		delete(d.table, key)
	}
}

// Put records the digram starting at first unconditionally, overwriting any
// prior entry. Used to point the index at a freshly created rule body.
func (d *Digrams[T]) Put(first Index) {
	key, ok := d.keyAt(first)
	if !ok {
		return
	}
	d.table[key] = first
}

func (d *Digrams[T]) keyAt(first Index) (digramKey, bool) {
	fn := d.arena.Get(first)
	if fn.Sym.IsStart() {
		return digramKey{}, false
	}
	second := fn.Next
	if second.IsNone() {
		return digramKey{}, false
	}
	sn := d.arena.Get(second)
	if sn.Sym.IsEnd() {
		return digramKey{}, false
	}
	return digramKey{fn.Sym.Fingerprint(), sn.Sym.Fingerprint()}, true
}
