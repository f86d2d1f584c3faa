package grammar

import "testing"

func TestIDGen_Sequential(t *testing.T) {
	var g IDGen
	for want := RuleID(0); want < 3; want++ {
		if got := g.Get(); got != want {
			t.Fatalf("Get() = %d, want %d", got, want)
		}
	}
}

func TestIDGen_ReuseLIFO(t *testing.T) {
	var g IDGen
	id0 := g.Get()
	id1 := g.Get()
	id2 := g.Get()

	g.Free(id1)
	if got := g.Get(); got != 1 {
		t.Fatalf("Get() = %d, want freed id 1", got)
	}

	g.Free(id0)
	g.Free(id2)
	if got := g.Get(); got != 2 {
		t.Fatalf("Get() = %d, want 2 (LIFO)", got)
	}
	if got := g.Get(); got != 0 {
		t.Fatalf("Get() = %d, want 0", got)
	}
}

func TestIDGen_FreeInvalidPanics(t *testing.T) {
	var g IDGen
	g.Get()

	defer func() {
		if recover() == nil {
			t.Error("Free of unallocated id should panic")
		}
	}()
	g.Free(999)
}
