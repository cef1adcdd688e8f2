package entity

import (
	"Automancy/internal/game/coord"
	"testing"
)

func op(q int32) Operation {
	return Operation{Restores: []Restore{{Coord: coord.New(q, 0)}}}
}

func TestHistoryPopsNewestFirst(t *testing.T) {
	h := NewHistory(4)
	for i := int32(0); i < 3; i++ {
		h.Push(op(i))
	}
	for want := int32(2); want >= 0; want-- {
		got, ok := h.Pop()
		if !ok || got.Restores[0].Coord.Q != want {
			t.Fatalf("Pop=%v,%v want q=%d", got, ok, want)
		}
	}
	if _, ok := h.Pop(); ok {
		t.Fatalf("empty history must report nothing")
	}
}

func TestHistoryDropsOldestWhenFull(t *testing.T) {
	h := NewHistory(2)
	h.Push(op(1))
	h.Push(op(2))
	h.Push(op(3))
	if h.Len() != 2 {
		t.Fatalf("Len=%d want 2", h.Len())
	}
	a, _ := h.Pop()
	b, _ := h.Pop()
	if a.Restores[0].Coord.Q != 3 || b.Restores[0].Coord.Q != 2 {
		t.Fatalf("got %v then %v", a, b)
	}
}

func TestHistoryZeroLimitKeepsNothing(t *testing.T) {
	h := NewHistory(0)
	h.Push(op(1))
	if h.Len() != 0 {
		t.Fatalf("Len=%d", h.Len())
	}
}
