package data

import (
	"Automancy/internal/game/id"
	"testing"
)

func TestInventoryAddThenTakeRestores(t *testing.T) {
	const item id.Id = 7
	cases := []struct {
		name  string
		start uint32
		m     uint32
	}{
		{"empty", 0, 5},
		{"existing", 10, 3},
		{"fills to max", 100, MaxStack - 100},
		{"zero", 4, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := NewInventory()
			inv.Set(item, tc.start)
			before := inv.Copy()

			if added := inv.Add(item, tc.m); added != tc.m {
				t.Fatalf("Add=%d want %d", added, tc.m)
			}
			if taken := inv.Take(item, tc.m); taken != tc.m {
				t.Fatalf("Take=%d want %d", taken, tc.m)
			}
			if !inv.Equal(before) {
				t.Fatalf("inventory changed: %v != %v", inv.Items(), before.Items())
			}
		})
	}
}

func TestInventoryAddCapsAtMaxStack(t *testing.T) {
	inv := NewInventory()
	inv.Set(1, MaxStack-2)
	if added := inv.Add(1, 10); added != 2 {
		t.Fatalf("Add=%d want 2", added)
	}
	if got := inv.Get(1); got != MaxStack {
		t.Fatalf("Get=%d want %d", got, MaxStack)
	}
	if added := inv.Add(1, 1); added != 0 {
		t.Fatalf("Add on a full stack=%d", added)
	}
}

func TestInventoryTakeMoreThanHeld(t *testing.T) {
	inv := NewInventory()
	inv.Add(3, 4)
	if taken := inv.Take(3, 9); taken != 4 {
		t.Fatalf("Take=%d want 4", taken)
	}
	if inv.Get(3) != 0 || !inv.Empty() {
		t.Fatalf("zero entries must be removed, items=%v", inv.Items())
	}
	if taken := inv.Take(3, 1); taken != 0 {
		t.Fatalf("Take from empty=%d", taken)
	}
}

func TestInventoryItemsSorted(t *testing.T) {
	inv := NewInventory()
	inv.Add(9, 1)
	inv.Add(2, 5)
	inv.Add(4, 3)
	items := inv.Items()
	if len(items) != 3 || items[0].ID != 2 || items[1].ID != 4 || items[2].ID != 9 {
		t.Fatalf("Items=%v", items)
	}
	if inv.Total() != 9 {
		t.Fatalf("Total=%d", inv.Total())
	}
}

func TestInventoryCopyIsIndependent(t *testing.T) {
	inv := NewInventory()
	inv.Add(1, 2)
	cp := inv.Copy()
	cp.Add(1, 5)
	if inv.Get(1) != 2 {
		t.Fatalf("copy aliases original")
	}
}
