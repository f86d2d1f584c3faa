package grammar

// IDGen allocates rule ids. Freed ids are reused in LIFO order so that
// long-running streams with rule churn cannot exhaust the 32-bit id space.
//
// The zero IDGen is ready to use; the first Get returns 0.
type IDGen struct {
	next  RuleID
	freed []RuleID
}

// Get returns an id unused by any live rule: the most recently freed id if
// one exists, otherwise a fresh one.
func (g *IDGen) Get() RuleID {
	if n := len(g.freed); n > 0 {
		id := g.freed[n-1]
		g.freed = g.freed[:n-1]
		return id
	}
	id := g.next
	g.next++
	return id
}

// Free returns an id for reuse. Freeing an id at or above the high-water mark
// is a bug in the caller and panics.
func (g *IDGen) Free(id RuleID) {
	if id >= g.next {
		panic("grammar: Free of rule id that was never allocated")
	}
	g.freed = append(g.freed, id)
}
