package data

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/id"
	"maps"
	"slices"
)

// DataMap holds at most one value per key. A missing key is unset, which is
// not the same as a zero value. Reads are nil-safe; Set allocates on demand.
type DataMap map[id.Id]Data

func (m DataMap) Get(key id.Id) (Data, bool) {
	v, ok := m[key]
	return v, ok
}

func (m *DataMap) Set(key id.Id, v Data) {
	if v == nil {
		m.Remove(key)
		return
	}
	if *m == nil {
		*m = make(DataMap)
	}
	(*m)[key] = v
}

// Remove deletes key and reports whether a value was present.
func (m *DataMap) Remove(key id.Id) bool {
	if _, ok := (*m)[key]; !ok {
		return false
	}
	delete(*m, key)
	return true
}

func (m DataMap) Len() int { return len(m) }

// Keys returns every key in ascending order.
func (m DataMap) Keys() []id.Id {
	return slices.Sorted(maps.Keys(m))
}

// Clone deep-copies every value so the result shares nothing with m.
func (m DataMap) Clone() DataMap {
	if m == nil {
		return nil
	}
	out := make(DataMap, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

func (m DataMap) Equal(o DataMap) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		ov, ok := o[k]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

func (m DataMap) Amount(key id.Id) (uint32, bool) {
	v, ok := m[key].(Amount)
	return uint32(v), ok
}

func (m DataMap) ID(key id.Id) (id.Id, bool) {
	v, ok := m[key].(ID)
	return id.Id(v), ok
}

func (m DataMap) Coord(key id.Id) (coord.TileCoord, bool) {
	v, ok := m[key].(Coord)
	return coord.TileCoord(v), ok
}

func (m DataMap) Bool(key id.Id) (bool, bool) {
	v, ok := m[key].(Bool)
	return bool(v), ok
}

// Inventory returns the stored inventory itself, not a copy.
func (m DataMap) Inventory(key id.Id) (*Inventory, bool) {
	v, ok := m[key].(*Inventory)
	return v, ok
}

// InventoryOrNew returns the inventory at key, storing an empty one first
// when the key is unset or holds another variant.
func (m *DataMap) InventoryOrNew(key id.Id) *Inventory {
	if inv, ok := m.Inventory(key); ok && inv != nil {
		return inv
	}
	inv := NewInventory()
	m.Set(key, inv)
	return inv
}
