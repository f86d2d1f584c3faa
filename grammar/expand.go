package grammar

// Expander walks a start sequence and lazily expands rule references,
// emitting terminal values in order. It borrows the engine's arena and rule
// index read-only for its lifetime; mutating the engine while an Expander is
// live is undefined.
//
// An Expander is finite and not restartable: construct a fresh one to iterate
// again.
type Expander[T comparable] struct {
	arena   *Arena[T]
	rules   map[RuleID]Index
	current Index
	stack   []Index
}

// NewExpander returns an iterator over the sequence beginning at start, which
// is normally the successor of a RuleHead or DocHead. Iteration ends at the
// start sequence's end sentinel.
func NewExpander[T comparable](arena *Arena[T], rules map[RuleID]Index, start Index) *Expander[T] {
	e := &Expander[T]{arena: arena, rules: rules}
	e.current = e.resolve(start)
	return e
}

// Next returns the next terminal value, or false when the sequence is
// exhausted.
func (e *Expander[T]) Next() (T, bool) {
	if e.current.IsNone() {
		var zero T
		return zero, false
	}
	n := e.arena.Get(e.current)
	v := n.Sym.Value()
	e.current = e.resolve(n.Next)
	return v, true
}

// resolve advances from pos to the next terminal position, descending into
// rule bodies and popping back out at rule tails.
func (e *Expander[T]) resolve(pos Index) Index {
	for {
		if pos.IsNone() {
			return None
		}
		n := e.arena.Get(pos)
		switch n.Sym.Kind() {
		case KindValue:
			return pos

		case KindRuleRef:
			head, ok := e.rules[n.Sym.Rule()]
			if !ok {
				return None
			}
			e.stack = append(e.stack, pos)
			pos = e.arena.Get(head).Next

		case KindRuleHead, KindDocHead:
			pos = n.Next

		case KindRuleTail:
			if len(e.stack) == 0 {
				return None
			}
			parent := e.stack[len(e.stack)-1]
			e.stack = e.stack[:len(e.stack)-1]
			pos = e.arena.Get(parent).Next

		default: // KindDocTail
			return None
		}
	}
}

type runFrame struct {
	pos       Index
	remaining uint32
}

// RunExpander is the run-length-aware counterpart of Expander. A value node
// with run r emits r copies of its payload; a rule reference with run r
// replays the rule body r times.
type RunExpander[T comparable] struct {
	arena     *Arena[T]
	rules     map[RuleID]Index
	current   Index
	remaining uint32
	stack     []runFrame
}

// NewRunExpander returns a run-aware iterator over the sequence beginning at
// start.
func NewRunExpander[T comparable](arena *Arena[T], rules map[RuleID]Index, start Index) *RunExpander[T] {
	e := &RunExpander[T]{arena: arena, rules: rules}
	e.resolve(start)
	return e
}

// Next returns the next terminal value, or false when the sequence is
// exhausted.
func (e *RunExpander[T]) Next() (T, bool) {
	if e.current.IsNone() {
		var zero T
		return zero, false
	}
	v := e.arena.Get(e.current).Sym.Value()
	if e.remaining > 1 {
		e.remaining--
	} else {
		e.resolve(e.arena.Get(e.current).Next)
	}
	return v, true
}

func (e *RunExpander[T]) resolve(pos Index) {
	for {
		if pos.IsNone() {
			e.stop()
			return
		}
		n := e.arena.Get(pos)
		switch n.Sym.Kind() {
		case KindValue:
			e.current = pos
			e.remaining = n.Run
			return

		case KindRuleRef:
			head, ok := e.rules[n.Sym.Rule()]
			if !ok {
				e.stop()
				return
			}
			e.stack = append(e.stack, runFrame{pos: pos, remaining: n.Run})
			pos = e.arena.Get(head).Next

		case KindRuleHead, KindDocHead:
			pos = n.Next

		case KindRuleTail:
			if len(e.stack) == 0 {
				e.stop()
				return
			}
			fr := e.stack[len(e.stack)-1]
			e.stack = e.stack[:len(e.stack)-1]
			fr.remaining--
			if fr.remaining > 0 {
				// Replay the same rule body for the remaining runs.
				e.stack = append(e.stack, fr)
				ref := e.arena.Get(fr.pos)
				head := e.rules[ref.Sym.Rule()]
				pos = e.arena.Get(head).Next
				continue
			}
			pos = e.arena.Get(fr.pos).Next

		default: // KindDocTail
			e.stop()
			return
		}
	}
}

func (e *RunExpander[T]) stop() {
	e.current = None
	e.remaining = 0
}
