package grammar

import "testing"

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindValue, "Value"},
		{KindRuleRef, "RuleRef"},
		{KindRuleHead, "RuleHead"},
		{KindRuleTail, "RuleTail"},
		{KindDocHead, "DocHead"},
		{KindDocTail, "DocTail"},
		{Kind(99), "Unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestSymbol_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Symbol[int]
		want bool
	}{
		{"equal values", NewValue(42), NewValue(42), true},
		{"different values", NewValue(42), NewValue(99), false},
		{"equal refs", NewRuleRef[int](1), NewRuleRef[int](1), true},
		{"different refs", NewRuleRef[int](1), NewRuleRef[int](2), false},
		{"value vs ref", NewValue(1), NewRuleRef[int](1), false},
		{"tails", NewRuleTail[int](), NewRuleTail[int](), true},
		{"tail vs doc tail", NewRuleTail[int](), NewDocTail[int](), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSymbol_Sentinels(t *testing.T) {
	if !NewRuleHead[int](0, None).IsStart() || !NewDocHead[int](None).IsStart() {
		t.Error("heads should be sequence starts")
	}
	if !NewRuleTail[int]().IsEnd() || !NewDocTail[int]().IsEnd() {
		t.Error("tails should be sequence ends")
	}
	if NewValue(1).IsStart() || NewValue(1).IsEnd() {
		t.Error("values are not sentinels")
	}
}

func TestSymbol_Counts(t *testing.T) {
	head := NewRuleHead[int](3, None)
	head.AddCount(2)
	if head.Count() != 2 {
		t.Fatalf("Count = %d, want 2", head.Count())
	}
	head.SubCount(1)
	if head.Count() != 1 {
		t.Fatalf("Count = %d, want 1", head.Count())
	}

	defer func() {
		if recover() == nil {
			t.Error("SubCount below zero should panic")
		}
	}()
	head.SubCount(2)
}

func TestFingerprint_Consistency(t *testing.T) {
	a1 := NewValue[rune]('a')
	a2 := NewValue[rune]('a')
	b := NewValue[rune]('b')

	if a1.Fingerprint() != a2.Fingerprint() {
		t.Error("equal values should fingerprint equally")
	}
	if a1.Fingerprint() == b.Fingerprint() {
		t.Error("distinct values should fingerprint differently")
	}
}

func TestFingerprint_RuleRef(t *testing.T) {
	r1 := NewRuleRef[rune](1)
	r1b := NewRuleRef[rune](1)
	r2 := NewRuleRef[rune](2)

	if r1.Fingerprint() != r1b.Fingerprint() {
		t.Error("same rule id should fingerprint equally")
	}
	if r1.Fingerprint() == r2.Fingerprint() {
		t.Error("distinct rule ids should fingerprint differently")
	}
}

func TestFingerprint_IgnoresCounts(t *testing.T) {
	a := NewRuleHead[rune](7, None)
	b := NewRuleHead[rune](7, None)
	b.AddCount(5)

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("reference counts must not affect the fingerprint")
	}
}
