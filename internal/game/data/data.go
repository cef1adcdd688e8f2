// Package data is the typed key/value store owned by every tile and by the
// world: a closed set of value variants keyed by interned identifiers.
package data

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/id"
	"maps"
	"slices"
)

// Data is one of Amount, ID, Coord, Bool, *Inventory, VecID or SetID.
type Data interface {
	Clone() Data
	isData()
}

type (
	Amount uint32
	ID     id.Id
	Coord  coord.TileCoord
	Bool   bool
	VecID  []id.Id
	SetID  map[id.Id]struct{}
)

func (Amount) isData()     {}
func (ID) isData()         {}
func (Coord) isData()      {}
func (Bool) isData()       {}
func (VecID) isData()      {}
func (SetID) isData()      {}
func (*Inventory) isData() {}

func (v Amount) Clone() Data { return v }
func (v ID) Clone() Data     { return v }
func (v Coord) Clone() Data  { return v }
func (v Bool) Clone() Data   { return v }
func (v VecID) Clone() Data  { return slices.Clone(v) }
func (v SetID) Clone() Data  { return maps.Clone(v) }

func NewSetID(ids ...id.Id) SetID {
	s := make(SetID, len(ids))
	for _, i := range ids {
		s[i] = struct{}{}
	}
	return s
}

func (v SetID) Has(i id.Id) bool {
	_, ok := v[i]
	return ok
}

// Sorted returns the members in ascending id order.
func (v SetID) Sorted() []id.Id {
	out := slices.Collect(maps.Keys(v))
	slices.Sort(out)
	return out
}

// Equal compares two values structurally.
func Equal(a, b Data) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Amount:
		bv, ok := b.(Amount)
		return ok && av == bv
	case ID:
		bv, ok := b.(ID)
		return ok && av == bv
	case Coord:
		bv, ok := b.(Coord)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case VecID:
		bv, ok := b.(VecID)
		return ok && slices.Equal(av, bv)
	case SetID:
		bv, ok := b.(SetID)
		return ok && maps.Equal(av, bv)
	case *Inventory:
		bv, ok := b.(*Inventory)
		return ok && av.Equal(bv)
	}
	return false
}

// ItemStack is an amount of one item.
type ItemStack struct {
	ID     id.Id  `json:"id"`
	Amount uint32 `json:"amount"`
}
