package data

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/id"
	"encoding/json"
	"fmt"
	"slices"
)

// StackRaw encodes as a two-element array ["ns:name", count].
type StackRaw struct {
	ID     string
	Amount uint32
}

func (s StackRaw) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{s.ID, s.Amount})
}

func (s *StackRaw) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("item stack: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &s.ID); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &s.Amount)
}

// DataRaw is the persisted and wire form of a Data value. Exactly one field
// is set; collection fields are pointers so an empty collection survives.
type DataRaw struct {
	Amount    *uint32          `json:"amount,omitempty"`
	ID        string           `json:"id,omitempty"`
	Coord     *coord.TileCoord `json:"coord,omitempty"`
	Bool      *bool            `json:"bool,omitempty"`
	Inventory *[]StackRaw      `json:"inventory,omitempty"`
	VecID     *[]string        `json:"vec_id,omitempty"`
	SetID     *[]string        `json:"set_id,omitempty"`
}

// DataMapRaw keys values by the string form of their identifier.
type DataMapRaw map[string]DataRaw

// ToRaw converts v. It fails only when an identifier cannot be resolved.
func ToRaw(v Data, in *id.Interner) (DataRaw, bool) {
	switch tv := v.(type) {
	case Amount:
		n := uint32(tv)
		return DataRaw{Amount: &n}, true
	case ID:
		name := in.Name(id.Id(tv))
		return DataRaw{ID: name}, name != ""
	case Coord:
		c := coord.TileCoord(tv)
		return DataRaw{Coord: &c}, true
	case Bool:
		b := bool(tv)
		return DataRaw{Bool: &b}, true
	case *Inventory:
		stacks := InventoryToRaw(tv, in)
		return DataRaw{Inventory: &stacks}, true
	case VecID:
		names := namesOf([]id.Id(tv), in)
		return DataRaw{VecID: &names}, true
	case SetID:
		names := namesOf(tv.Sorted(), in)
		return DataRaw{SetID: &names}, true
	}
	return DataRaw{}, false
}

// FromRaw resolves identifiers through in without interning new ones.
// Unknown members of inventories and sets are dropped; an unknown ID value
// fails the whole entry.
func (r DataRaw) FromRaw(in *id.Interner) (Data, bool) {
	switch {
	case r.Amount != nil:
		return Amount(*r.Amount), true
	case r.ID != "":
		i, ok := in.Get(r.ID)
		return ID(i), ok
	case r.Coord != nil:
		return Coord(*r.Coord), true
	case r.Bool != nil:
		return Bool(*r.Bool), true
	case r.Inventory != nil:
		return InventoryFromRaw(*r.Inventory, in), true
	case r.VecID != nil:
		return VecID(idsOf(*r.VecID, in)), true
	case r.SetID != nil:
		return NewSetID(idsOf(*r.SetID, in)...), true
	}
	return nil, false
}

func InventoryToRaw(inv *Inventory, in *id.Interner) []StackRaw {
	out := make([]StackRaw, 0, inv.Len())
	for _, s := range inv.Items() {
		if name := in.Name(s.ID); name != "" {
			out = append(out, StackRaw{ID: name, Amount: s.Amount})
		}
	}
	return out
}

func InventoryFromRaw(raw []StackRaw, in *id.Interner) *Inventory {
	inv := NewInventory()
	for _, s := range raw {
		if i, ok := in.Get(s.ID); ok {
			inv.Add(i, s.Amount)
		}
	}
	return inv
}

// ToRaw converts every resolvable entry of m.
func (m DataMap) ToRaw(in *id.Interner) DataMapRaw {
	out := make(DataMapRaw, len(m))
	for _, k := range m.Keys() {
		name := in.Name(k)
		if name == "" {
			continue
		}
		if raw, ok := ToRaw(m[k], in); ok {
			out[name] = raw
		}
	}
	return out
}

// FromRaw skips entries whose key or value cannot be resolved.
func (r DataMapRaw) FromRaw(in *id.Interner) DataMap {
	out := make(DataMap, len(r))
	for name, raw := range r {
		k, ok := in.Get(name)
		if !ok {
			continue
		}
		if v, ok := raw.FromRaw(in); ok {
			out[k] = v
		}
	}
	return out
}

func namesOf(ids []id.Id, in *id.Interner) []string {
	out := make([]string, 0, len(ids))
	for _, i := range ids {
		if name := in.Name(i); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func idsOf(names []string, in *id.Interner) []id.Id {
	out := make([]id.Id, 0, len(names))
	for _, n := range names {
		if i, ok := in.Get(n); ok {
			out = append(out, i)
		}
	}
	return slices.Clip(out)
}
