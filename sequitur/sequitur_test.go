package sequitur

import (
	"strings"
	"testing"

	"github.com/coregx/coreseq/grammar"
)

func collectBytes(e *Engine[byte]) string {
	var sb strings.Builder
	it := e.Iter()
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		sb.WriteByte(v)
	}
	return sb.String()
}

// checkRuleUtility asserts that every rule other than rule 0 is referenced at
// least twice.
func checkRuleUtility[T comparable](t *testing.T, rules map[grammar.RuleID]grammar.Index, arena *grammar.Arena[T]) {
	t.Helper()
	for id, head := range rules {
		if id == 0 {
			continue
		}
		if count := arena.Get(head).Sym.Count(); count < 2 {
			t.Errorf("rule %d has count %d, want >= 2", id, count)
		}
	}
}

// checkNonEmptyRules asserts that every rule body holds at least one symbol.
func checkNonEmptyRules[T comparable](t *testing.T, rules map[grammar.RuleID]grammar.Index, arena *grammar.Arena[T]) {
	t.Helper()
	for id, head := range rules {
		if id == 0 {
			continue
		}
		first := arena.Get(head).Next
		if first.IsNone() || arena.Get(first).Sym.Kind() == grammar.KindRuleTail {
			t.Errorf("rule %d is empty", id)
		}
	}
}

// checkDigramUniqueness asserts that no digram occurs at two non-overlapping
// positions anywhere in the grammar.
func checkDigramUniqueness(t *testing.T, e *Engine[byte]) {
	t.Helper()

	type occ struct{ first, second grammar.Index }
	type key struct{ a, b grammar.Fingerprint }
	seen := make(map[key][]occ)

	for _, head := range e.rules {
		cur := e.arena.Get(head).Next
		for !cur.IsNone() {
			n := e.arena.Get(cur)
			next := n.Next
			if next.IsNone() {
				break
			}
			nn := e.arena.Get(next)
			if !n.Sym.IsStart() && !nn.Sym.IsEnd() {
				k := key{n.Sym.Fingerprint(), nn.Sym.Fingerprint()}
				seen[k] = append(seen[k], occ{cur, next})
			}
			cur = next
		}
	}

	for k, occs := range seen {
		for i := 0; i < len(occs); i++ {
			for j := i + 1; j < len(occs); j++ {
				a, b := occs[i], occs[j]
				overlapping := a.second == b.first || b.second == a.first
				if !overlapping {
					t.Errorf("digram %v occurs at two non-overlapping positions", k)
				}
			}
		}
	}
}

func TestNew(t *testing.T) {
	e := New[byte]()
	if e.Len() != 0 || !e.IsEmpty() {
		t.Error("new engine should be empty")
	}
	if len(e.Rules()) != 1 {
		t.Errorf("rules = %d, want 1 (rule 0)", len(e.Rules()))
	}
}

func TestPush(t *testing.T) {
	e := New[byte]()
	e.Push('a')
	if e.Len() != 1 || e.IsEmpty() {
		t.Error("Len() should track pushes")
	}
	e.Push('b')
	e.Push('c')
	if e.Len() != 3 {
		t.Errorf("Len() = %d, want 3", e.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"ab",
		"abab",
		"abcabc",
		"abcabcabcabc",
		"aaaa",
		"aaaaaaaa",
		"abracadabra",
		"mississippi",
		"the quick brown fox jumps over the lazy dog",
		strings.Repeat("hello", 100),
		strings.Repeat("abcab", 31),
	}

	for _, input := range inputs {
		t.Run(input[:min(len(input), 16)], func(t *testing.T) {
			e := New[byte]()
			e.Extend([]byte(input))

			if got := collectBytes(e); got != input {
				t.Errorf("round trip: got %q, want %q", got, input)
			}
			if e.Len() != len(input) {
				t.Errorf("Len() = %d, want %d", e.Len(), len(input))
			}

			checkRuleUtility(t, e.rules, e.arena)
			checkNonEmptyRules(t, e.rules, e.arena)
			checkDigramUniqueness(t, e)
		})
	}
}

func TestIncrementalMatchesBatch(t *testing.T) {
	input := []byte("abcabcabcXabcabc")

	batch := New[byte]()
	batch.Extend(input)

	oneByOne := New[byte]()
	for _, v := range input {
		oneByOne.Push(v)
	}

	if a, b := collectBytes(batch), collectBytes(oneByOne); a != b {
		t.Errorf("batch %q != incremental %q", a, b)
	}
}

func TestCreatesRules(t *testing.T) {
	e := New[byte]()
	e.Extend([]byte("abcabc"))

	if len(e.Rules()) < 2 {
		t.Errorf("rules = %d, want at least one non-start rule", len(e.Rules()))
	}
}

func TestStats(t *testing.T) {
	e := New[byte]()
	e.Extend([]byte(strings.Repeat("hello", 100)))

	st := e.Stats()
	if st.InputLength != 500 {
		t.Errorf("InputLength = %d, want 500", st.InputLength)
	}
	if st.GrammarSymbols >= st.InputLength {
		t.Errorf("GrammarSymbols = %d, want < %d", st.GrammarSymbols, st.InputLength)
	}
	if st.Ratio() <= 0 || st.Ratio() >= 100 {
		t.Errorf("Ratio() = %.2f, want in (0, 100)", st.Ratio())
	}
}

func TestStatsEmpty(t *testing.T) {
	e := New[byte]()
	st := e.Stats()
	if st.InputLength != 0 || st.GrammarSymbols != 0 {
		t.Errorf("empty stats = %+v", st)
	}
	if st.Ratio() != 0 {
		t.Errorf("Ratio() = %v, want 0 on empty input", st.Ratio())
	}
}

func TestIDReuse(t *testing.T) {
	e := New[byte]()

	// "abcabc" first builds a rule for "ab", then replaces it with a rule
	// for "abc", expanding and freeing the intermediate id.
	e.Extend([]byte("abcabc"))
	if _, ok := e.Rules()[1]; ok {
		t.Fatal("intermediate rule id 1 should have been freed")
	}
	if _, ok := e.Rules()[2]; !ok {
		t.Fatal("expected surviving rule with id 2")
	}

	// The next rule created picks the freed id back up.
	e.Extend([]byte("xyxy"))
	if _, ok := e.Rules()[1]; !ok {
		t.Error("freed id 1 should be reused by the next rule")
	}
}

func TestIterGeneric(t *testing.T) {
	e := New[int]()
	e.Extend([]int{1, 2, 3, 1, 2, 3, 1, 2, 3})

	var got []int
	it := e.Iter()
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		got = append(got, v)
	}

	want := []int{1, 2, 3, 1, 2, 3, 1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte("abcabcabc"))
	f.Add([]byte("aaaaaaaaaaaa"))
	f.Add([]byte("abracadabra"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, input []byte) {
		e := New[byte]()
		e.Extend(input)

		if got := collectBytes(e); got != string(input) {
			t.Fatalf("round trip: got %q, want %q", got, input)
		}
		checkRuleUtility(t, e.rules, e.arena)
	})
}
