package data

import (
	"Automancy/internal/game/id"
	"maps"
	"slices"
)

// MaxStack bounds the count of a single item held in one inventory.
const MaxStack = 65535

// Inventory maps items to counts in [1, MaxStack]. Zero counts are not stored.
type Inventory struct {
	items map[id.Id]uint32
}

func NewInventory() *Inventory {
	return &Inventory{items: make(map[id.Id]uint32)}
}

func (inv *Inventory) Get(item id.Id) uint32 {
	if inv == nil {
		return 0
	}
	return inv.items[item]
}

func (inv *Inventory) Contains(item id.Id, n uint32) bool {
	return inv.Get(item) >= n
}

// Add puts up to n of item in, stopping at MaxStack, and returns how many
// were actually added.
func (inv *Inventory) Add(item id.Id, n uint32) uint32 {
	if n == 0 {
		return 0
	}
	if inv.items == nil {
		inv.items = make(map[id.Id]uint32)
	}
	cur := inv.items[item]
	added := min(n, MaxStack-cur)
	if added > 0 {
		inv.items[item] = cur + added
	}
	return added
}

// Room reports how many more of item fit before MaxStack.
func (inv *Inventory) Room(item id.Id) uint32 {
	return MaxStack - inv.Get(item)
}

// Take removes up to n of item and returns how many were actually removed.
func (inv *Inventory) Take(item id.Id, n uint32) uint32 {
	cur := inv.Get(item)
	taken := min(n, cur)
	if taken == 0 {
		return 0
	}
	if cur == taken {
		delete(inv.items, item)
	} else {
		inv.items[item] = cur - taken
	}
	return taken
}

// Set overwrites the count of item, clamped to MaxStack. Zero removes it.
func (inv *Inventory) Set(item id.Id, n uint32) {
	if n == 0 {
		delete(inv.items, item)
		return
	}
	if inv.items == nil {
		inv.items = make(map[id.Id]uint32)
	}
	inv.items[item] = min(n, MaxStack)
}

// Total sums every count.
func (inv *Inventory) Total() uint64 {
	var sum uint64
	if inv == nil {
		return 0
	}
	for _, n := range inv.items {
		sum += uint64(n)
	}
	return sum
}

func (inv *Inventory) Len() int {
	if inv == nil {
		return 0
	}
	return len(inv.items)
}

func (inv *Inventory) Empty() bool { return inv.Len() == 0 }

// Items lists stacks in ascending item order.
func (inv *Inventory) Items() []ItemStack {
	if inv == nil {
		return nil
	}
	keys := slices.Sorted(maps.Keys(inv.items))
	out := make([]ItemStack, 0, len(keys))
	for _, k := range keys {
		out = append(out, ItemStack{ID: k, Amount: inv.items[k]})
	}
	return out
}

func (inv *Inventory) Equal(o *Inventory) bool {
	if inv.Len() != o.Len() {
		return false
	}
	for k, n := range inv.itemsOrNil() {
		if o.items[k] != n {
			return false
		}
	}
	return true
}

func (inv *Inventory) Clone() Data { return inv.Copy() }

// Copy is Clone with the concrete type.
func (inv *Inventory) Copy() *Inventory {
	if inv == nil {
		return NewInventory()
	}
	return &Inventory{items: maps.Clone(inv.itemsOrNil())}
}

func (inv *Inventory) itemsOrNil() map[id.Id]uint32 {
	if inv == nil {
		return nil
	}
	return inv.items
}
