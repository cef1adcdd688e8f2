package id

import (
	"Automancy/internal/game/errs"
	"errors"
	"sync"
	"testing"
)

func TestParseRaw(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{"automancy:conveyor", false},
		{"automancy", true},
		{":conveyor", true},
		{"automancy:", true},
		{"a:b:c", true},
	}
	for _, tc := range cases {
		raw, err := ParseRaw(tc.in)
		if tc.wantErr {
			if !errors.Is(err, errs.ErrInvalidID) {
				t.Fatalf("ParseRaw(%q) err=%v want ErrInvalidID", tc.in, err)
			}
			continue
		}
		if err != nil || raw.String() != tc.in {
			t.Fatalf("ParseRaw(%q)=%v,%v", tc.in, raw, err)
		}
	}
}

func TestInterner_InternIsIdempotent(t *testing.T) {
	in := NewInterner()
	a, err := in.Intern("automancy", "machine")
	if err != nil {
		t.Fatal(err)
	}
	b := in.MustIntern("automancy:machine")
	if a != b || !a.Valid() {
		t.Fatalf("intern ids differ: %d %d", a, b)
	}
	c := in.MustIntern("automancy:storage")
	if c == a {
		t.Fatalf("distinct names share an id")
	}
	if in.Len() != 2 {
		t.Fatalf("Len()=%d want 2", in.Len())
	}
}

func TestInterner_ResolveAndGet(t *testing.T) {
	in := NewInterner()
	x := in.MustIntern("mod:x")

	raw, ok := in.Resolve(x)
	if !ok || raw.Namespace != "mod" || raw.Name != "x" {
		t.Fatalf("Resolve()=%+v,%v", raw, ok)
	}
	if _, ok := in.Resolve(0); ok {
		t.Fatalf("zero id must not resolve")
	}
	if _, ok := in.Resolve(Id(99)); ok {
		t.Fatalf("unknown id must not resolve")
	}
	if got, ok := in.Get("mod:x"); !ok || got != x {
		t.Fatalf("Get()=%d,%v", got, ok)
	}
	if _, ok := in.Get("mod:y"); ok {
		t.Fatalf("Get must not intern")
	}
	if in.Len() != 1 {
		t.Fatalf("Get interned a value")
	}
}

func TestInterner_ConcurrentIntern(t *testing.T) {
	in := NewInterner()
	var wg sync.WaitGroup
	ids := make([]Id, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = in.MustIntern("automancy:shared")
		}(i)
	}
	wg.Wait()
	for _, got := range ids {
		if got != ids[0] {
			t.Fatalf("concurrent intern produced different ids: %v", ids)
		}
	}
}
