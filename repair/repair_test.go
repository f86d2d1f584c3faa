package repair

import (
	"strings"
	"testing"
)

func collectBytes(e *Engine[byte]) string {
	var sb strings.Builder
	it := e.Iter()
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		sb.WriteByte(v)
	}
	return sb.String()
}

func TestNew(t *testing.T) {
	e := New[byte]()
	if e.Len() != 0 || !e.IsEmpty() {
		t.Error("new engine should be empty")
	}
	if len(e.Rules()) != 1 {
		t.Errorf("rules = %d, want 1 (rule 0)", len(e.Rules()))
	}
	if e.IsCompressed() {
		t.Error("new engine should not be compressed")
	}
}

func TestPushExtend(t *testing.T) {
	e := New[byte]()
	e.Push('a')
	e.Extend([]byte("bc"))
	if e.Len() != 3 {
		t.Errorf("Len() = %d, want 3", e.Len())
	}
}

func TestIterBeforeCompress(t *testing.T) {
	e := New[byte]()
	e.Extend([]byte("abab"))

	if got := collectBytes(e); got != "abab" {
		t.Errorf("uncompressed iteration: got %q, want %q", got, "abab")
	}
}

func TestCompressNoRepetition(t *testing.T) {
	e := New[byte]()
	e.Extend([]byte("abc"))
	e.Compress()

	if !e.IsCompressed() {
		t.Fatal("IsCompressed() = false after Compress")
	}
	// No pair occurs twice, so only rule 0 exists.
	if len(e.Rules()) != 1 {
		t.Errorf("rules = %d, want 1", len(e.Rules()))
	}
	if got := collectBytes(e); got != "abc" {
		t.Errorf("got %q, want %q", got, "abc")
	}
}

func TestCompressNested(t *testing.T) {
	e := New[byte]()
	e.Extend([]byte("abcabcabcabc"))
	e.Compress()

	if len(e.Rules()) < 2 {
		t.Errorf("rules = %d, want at least 2 for nested repetition", len(e.Rules()))
	}
	if got := collectBytes(e); got != "abcabcabcabc" {
		t.Errorf("got %q, want %q", got, "abcabcabcabc")
	}

	st := e.Stats()
	if st.GrammarSymbols >= st.InputLength {
		t.Errorf("GrammarSymbols = %d, want < %d", st.GrammarSymbols, st.InputLength)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"ab",
		"abab",
		"aaaa",
		"aaaaaaaaa",
		"abcabcabcabc",
		"abracadabra",
		"mississippi",
		"xxyxxyxxy",
		strings.Repeat("hello", 50),
		strings.Repeat("ab", 100),
	}

	for _, input := range inputs {
		t.Run(input[:min(len(input), 16)], func(t *testing.T) {
			e := New[byte]()
			e.Extend([]byte(input))
			e.Compress()

			if got := collectBytes(e); got != input {
				t.Errorf("round trip: got %q, want %q", got, input)
			}
			if e.Len() != len(input) {
				t.Errorf("Len() = %d, want %d", e.Len(), len(input))
			}
		})
	}
}

func TestCompressIdempotent(t *testing.T) {
	e := New[byte]()
	e.Extend([]byte("abcabcabcabc"))
	e.Compress()

	before := collectBytes(e)
	rules := len(e.Rules())

	e.Compress()

	if got := collectBytes(e); got != before {
		t.Errorf("second Compress changed reconstruction: %q -> %q", before, got)
	}
	if len(e.Rules()) != rules {
		t.Errorf("second Compress changed rules: %d -> %d", rules, len(e.Rules()))
	}
}

func TestPushAfterCompressPanics(t *testing.T) {
	e := New[byte]()
	e.Extend([]byte("abab"))
	e.Compress()

	defer func() {
		if recover() == nil {
			t.Error("Push after Compress should panic")
		}
	}()
	e.Push('x')
}

func TestCompressEmpty(t *testing.T) {
	e := New[byte]()
	e.Compress()

	if !e.IsCompressed() {
		t.Error("Compress on empty engine should succeed")
	}
	st := e.Stats()
	if st.Ratio() != 0 {
		t.Errorf("Ratio() = %v, want 0 on empty input", st.Ratio())
	}
}

func TestStats(t *testing.T) {
	e := New[byte]()
	e.Extend([]byte("abab"))
	e.Compress()

	st := e.Stats()
	if st.InputLength != 4 {
		t.Errorf("InputLength = %d, want 4", st.InputLength)
	}
	if !st.Compressed {
		t.Error("Compressed = false")
	}
}

func TestGenericValues(t *testing.T) {
	e := New[string]()
	words := []string{"the", "cat", "the", "cat", "the", "cat"}
	e.Extend(words)
	e.Compress()

	var got []string
	it := e.Iter()
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		got = append(got, v)
	}

	if len(got) != len(words) {
		t.Fatalf("len = %d, want %d", len(got), len(words))
	}
	for i := range words {
		if got[i] != words[i] {
			t.Fatalf("got[%d] = %q, want %q", i, got[i], words[i])
		}
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte("abcabcabc"))
	f.Add([]byte("aaaaaa"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, input []byte) {
		e := New[byte]()
		e.Extend(input)
		e.Compress()

		if got := collectBytes(e); got != string(input) {
			t.Fatalf("round trip: got %q, want %q", got, input)
		}
	})
}
