package rle

import "github.com/coregx/coreseq/grammar"

// Documents is a multi-document RLE-Sequitur compressor: independent document
// sequences bracketed by DocHead/DocTail sentinels over one shared rule pool
// and digram index, with run-length encoding inside every sequence.
type Documents[T comparable, D comparable] struct {
	core[T]

	docs map[D]*docInfo
}

type docInfo struct {
	head   grammar.Index
	tail   grammar.Index
	length int
}

// NewDocuments creates an empty multi-document engine.
func NewDocuments[T comparable, D comparable]() *Documents[T, D] {
	return &Documents[T, D]{
		core: newCore[T](),
		docs: make(map[D]*docInfo),
	}
}

// PushToDocument appends one value to the named document, creating the
// document on first use. Runs extend in place exactly as in Engine.Push.
func (d *Documents[T, D]) PushToDocument(id D, v T) {
	info, ok := d.docs[id]
	if !ok {
		info = d.createDocument(id)
	}

	tail := info.tail
	prev := d.arena.Get(tail).Prev

	if !prev.IsNone() {
		pn := d.arena.Get(prev)
		if pn.Sym.Kind() == grammar.KindValue && pn.Sym.Value() == v {
			pn.Run++
			info.length++
			return
		}
	}

	node := d.arena.Insert(grammar.NewValue(v))

	n := d.arena.Get(node)
	n.Next = tail
	n.Prev = prev
	d.arena.Get(tail).Prev = node
	if !prev.IsNone() {
		d.arena.Get(prev).Next = node
	}

	info.length++

	if !prev.IsNone() && !d.arena.Get(prev).Sym.IsStart() {
		d.linkMade(prev)
	}
}

// ExtendDocument appends every value in order to the named document.
func (d *Documents[T, D]) ExtendDocument(id D, values []T) {
	for _, v := range values {
		d.PushToDocument(id, v)
	}
}

// IterDocument returns a run-replaying iterator over the named document, or
// false if the document does not exist.
func (d *Documents[T, D]) IterDocument(id D) (*grammar.RunExpander[T], bool) {
	info, ok := d.docs[id]
	if !ok {
		return nil, false
	}
	start := d.arena.Get(info.head).Next
	return grammar.NewRunExpander(d.arena, d.rules, start), true
}

// DocumentLen returns the number of values in the named document (counting
// runs), or false if it does not exist.
func (d *Documents[T, D]) DocumentLen(id D) (int, bool) {
	info, ok := d.docs[id]
	if !ok {
		return 0, false
	}
	return info.length, true
}

// DocumentIsEmpty reports whether the named document exists and holds no
// values.
func (d *Documents[T, D]) DocumentIsEmpty(id D) (bool, bool) {
	info, ok := d.docs[id]
	if !ok {
		return false, false
	}
	return info.length == 0, true
}

// DocumentIDs returns the ids of all documents, in no particular order.
func (d *Documents[T, D]) DocumentIDs() []D {
	ids := make([]D, 0, len(d.docs))
	for id := range d.docs {
		ids = append(ids, id)
	}
	return ids
}

// NumDocuments returns the number of documents.
func (d *Documents[T, D]) NumDocuments() int { return len(d.docs) }

// Rules returns the shared rule index. The map is a read-only view owned by
// the engine and must not be modified.
func (d *Documents[T, D]) Rules() map[grammar.RuleID]grammar.Index { return d.rules }

// DocumentStats returns node accounting for a single document, or false if
// it does not exist.
func (d *Documents[T, D]) DocumentStats(id D) (DocumentStats, bool) {
	info, ok := d.docs[id]
	if !ok {
		return DocumentStats{}, false
	}

	nodes := 0
	cur := d.arena.Get(info.head).Next
	for !cur.IsNone() {
		n := d.arena.Get(cur)
		if n.Sym.Kind() == grammar.KindDocTail {
			break
		}
		nodes++
		cur = n.Next
	}

	return DocumentStats{
		InputLength:   info.length,
		DocumentNodes: nodes,
	}, true
}

// OverallStats returns node accounting summed across all documents and the
// shared rules.
func (d *Documents[T, D]) OverallStats() OverallStats {
	totalInput := 0
	totalNodes := 0

	for _, info := range d.docs {
		totalInput += info.length
		cur := d.arena.Get(info.head).Next
		for !cur.IsNone() {
			n := d.arena.Get(cur)
			if n.Sym.Kind() == grammar.KindDocTail {
				break
			}
			totalNodes++
			cur = n.Next
		}
	}

	for _, head := range d.rules {
		cur := d.arena.Get(head).Next
		for !cur.IsNone() {
			next := d.arena.Get(cur).Next
			if next.IsNone() {
				break
			}
			totalNodes++
			cur = next
		}
	}

	return OverallStats{
		TotalInputLength:  totalInput,
		TotalGrammarNodes: totalNodes,
		NumRules:          len(d.rules),
		NumDocuments:      len(d.docs),
	}
}

func (d *Documents[T, D]) createDocument(id D) *docInfo {
	tail := d.arena.Insert(grammar.NewDocTail[T]())
	head := d.arena.Insert(grammar.NewDocHead[T](tail))
	d.link(head, tail)

	info := &docInfo{head: head, tail: tail}
	d.docs[id] = info
	return info
}

// DocumentStats describes one document's share of the grammar.
type DocumentStats struct {
	InputLength   int
	DocumentNodes int
}

// Ratio returns document nodes over input length as a percentage; 0 for an
// empty document.
func (s DocumentStats) Ratio() float64 {
	if s.InputLength == 0 {
		return 0
	}
	return float64(s.DocumentNodes) / float64(s.InputLength) * 100
}

// OverallStats describes the whole engine across documents and shared rules.
type OverallStats struct {
	TotalInputLength  int
	TotalGrammarNodes int
	NumRules          int
	NumDocuments      int
}

// Ratio returns total grammar nodes over total input length as a percentage;
// 0 when nothing has been pushed.
func (s OverallStats) Ratio() float64 {
	if s.TotalInputLength == 0 {
		return 0
	}
	return float64(s.TotalGrammarNodes) / float64(s.TotalInputLength) * 100
}
