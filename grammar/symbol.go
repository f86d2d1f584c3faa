// Package grammar provides the shared symbol graph used by the coreseq
// compression engines.
//
// The graph is a set of doubly-linked symbol sequences stored in a
// generational arena. Each node carries a tagged Symbol (terminal value, rule
// reference, or sentinel) and a run count used by the RLE engine. On top of
// the arena the package provides the digram index that drives the Sequitur
// invariants, a rule-id allocator with LIFO reuse, and the lazy reconstruction
// iterators shared by every engine.
//
// The package is storage only: the compression algorithms themselves live in
// the sequitur, rle, and repair packages and operate through the exported
// surface defined here.
package grammar

import "fmt"

// RuleID identifies a grammar rule.
// This is a 32-bit unsigned integer for compact representation.
type RuleID uint32

// Kind identifies the type of a symbol and determines which fields are valid.
type Kind uint8

const (
	// KindValue is a terminal symbol carrying an input item.
	KindValue Kind = iota

	// KindRuleRef is a non-terminal reference to a rule.
	KindRuleRef

	// KindRuleHead marks the beginning of a rule body. It carries the rule
	// id, the rule's reference count, and the arena index of the paired
	// RuleTail.
	KindRuleHead

	// KindRuleTail marks the end of a rule body.
	KindRuleTail

	// KindDocHead marks the beginning of a document sequence
	// (multi-document mode only). It carries the index of the paired
	// DocTail.
	KindDocHead

	// KindDocTail marks the end of a document sequence.
	KindDocTail
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindValue:
		return "Value"
	case KindRuleRef:
		return "RuleRef"
	case KindRuleHead:
		return "RuleHead"
	case KindRuleTail:
		return "RuleTail"
	case KindDocHead:
		return "DocHead"
	case KindDocTail:
		return "DocTail"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// Symbol is a tagged variant over one sequence position.
//
// The kind determines which fields are meaningful:
//
//	Value    — value
//	RuleRef  — rule
//	RuleHead — rule, count, tail
//	RuleTail — nothing
//	DocHead  — tail
//	DocTail  — nothing
//
// Symbols are plain values; copying a Symbol copies its payload, never the
// surrounding list structure.
type Symbol[T comparable] struct {
	kind  Kind
	value T
	rule  RuleID
	count uint32
	tail  Index
}

// NewValue returns a terminal symbol carrying v.
func NewValue[T comparable](v T) Symbol[T] {
	return Symbol[T]{kind: KindValue, value: v}
}

// NewRuleRef returns a non-terminal reference to the given rule.
func NewRuleRef[T comparable](id RuleID) Symbol[T] {
	return Symbol[T]{kind: KindRuleRef, rule: id}
}

// NewRuleHead returns a rule-start sentinel with reference count zero.
func NewRuleHead[T comparable](id RuleID, tail Index) Symbol[T] {
	return Symbol[T]{kind: KindRuleHead, rule: id, tail: tail}
}

// NewRuleTail returns a rule-end sentinel.
func NewRuleTail[T comparable]() Symbol[T] {
	return Symbol[T]{kind: KindRuleTail}
}

// NewDocHead returns a document-start sentinel.
func NewDocHead[T comparable](tail Index) Symbol[T] {
	return Symbol[T]{kind: KindDocHead, tail: tail}
}

// NewDocTail returns a document-end sentinel.
func NewDocTail[T comparable]() Symbol[T] {
	return Symbol[T]{kind: KindDocTail}
}

// Kind returns the symbol's tag.
func (s Symbol[T]) Kind() Kind { return s.kind }

// Value returns the terminal payload. Only meaningful for KindValue.
func (s Symbol[T]) Value() T { return s.value }

// Rule returns the referenced rule id. Only meaningful for KindRuleRef and
// KindRuleHead.
func (s Symbol[T]) Rule() RuleID { return s.rule }

// Count returns the rule's reference count. Only meaningful for KindRuleHead.
func (s Symbol[T]) Count() uint32 { return s.count }

// Tail returns the paired end sentinel. Only meaningful for KindRuleHead and
// KindDocHead.
func (s Symbol[T]) Tail() Index { return s.tail }

// AddCount raises a RuleHead's reference count by delta.
func (s *Symbol[T]) AddCount(delta uint32) {
	if s.kind != KindRuleHead {
		return
	}
	s.count += delta
}

// SubCount lowers a RuleHead's reference count by delta.
// Dropping below zero is a bug in the caller and panics.
func (s *Symbol[T]) SubCount(delta uint32) {
	if s.kind != KindRuleHead {
		return
	}
	if delta > s.count {
		panic("grammar: rule reference count underflow")
	}
	s.count -= delta
}

// IsStart reports whether the symbol starts a sequence (RuleHead or DocHead).
// Digrams never begin at a start sentinel.
func (s Symbol[T]) IsStart() bool {
	return s.kind == KindRuleHead || s.kind == KindDocHead
}

// IsEnd reports whether the symbol ends a sequence (RuleTail or DocTail).
// Digrams never end at an end sentinel.
func (s Symbol[T]) IsEnd() bool {
	return s.kind == KindRuleTail || s.kind == KindDocTail
}

// Equal reports payload equality: terminals compare by value, references and
// heads by rule id, sentinels by kind. Reference counts, tail links, and run
// counts are ignored.
func (s Symbol[T]) Equal(o Symbol[T]) bool {
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case KindValue:
		return s.value == o.value
	case KindRuleRef, KindRuleHead:
		return s.rule == o.rule
	default:
		return true
	}
}
