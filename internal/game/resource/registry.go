// Package resource holds the item, tag, script and tile tables loaded once
// at startup and shared read-only afterwards.
package resource

import (
	"Automancy/internal/game/data"
	"Automancy/internal/game/id"
	"maps"
	"slices"
)

// IDs are the identifiers the engine itself relies on.
type IDs struct {
	None    id.Id
	Target  id.Id
	Link    id.Id
	Buffer  id.Id
	Script  id.Id
	Storage id.Id
	Amount  id.Id
}

func internIDs(in *id.Interner) IDs {
	ns := id.DefaultNamespace + id.Separator
	return IDs{
		None:    in.MustIntern(ns + "none"),
		Target:  in.MustIntern(ns + "target"),
		Link:    in.MustIntern(ns + "link"),
		Buffer:  in.MustIntern(ns + "buffer"),
		Script:  in.MustIntern(ns + "script"),
		Storage: in.MustIntern(ns + "storage"),
		Amount:  in.MustIntern(ns + "amount"),
	}
}

type Item struct {
	ID id.Id
}

// Script is an immutable recipe.
type Script struct {
	ID      id.Id
	Inputs  []data.ItemStack
	Outputs []data.ItemStack
}

// TileDef describes a placeable tile type. Data holds defaults copied into
// every new instance.
type TileDef struct {
	ID       id.Id
	Kind     Kind
	Targeted bool
	Linking  bool
	Models   []id.Id
	Data     data.DataMap
}

// Model picks the model for a modifier, wrapping over the available ones.
func (t TileDef) Model(modifier int32) id.Id {
	if len(t.Models) == 0 {
		return t.ID
	}
	n := int32(len(t.Models))
	return t.Models[((modifier%n)+n)%n]
}

type Registry struct {
	Interner *id.Interner
	IDs      IDs

	items   map[id.Id]Item
	tags    map[id.Id]data.SetID
	scripts map[id.Id]Script
	tiles   map[id.Id]TileDef
}

func newRegistry(in *id.Interner) *Registry {
	r := &Registry{
		Interner: in,
		IDs:      internIDs(in),
		items:    make(map[id.Id]Item),
		tags:     make(map[id.Id]data.SetID),
		scripts:  make(map[id.Id]Script),
		tiles:    make(map[id.Id]TileDef),
	}
	r.tiles[r.IDs.None] = TileDef{ID: r.IDs.None, Kind: KindNone}
	return r
}

func (r *Registry) Item(i id.Id) (Item, bool) {
	v, ok := r.items[i]
	return v, ok
}

func (r *Registry) Tag(i id.Id) (data.SetID, bool) {
	v, ok := r.tags[i]
	return v, ok
}

func (r *Registry) Script(i id.Id) (Script, bool) {
	v, ok := r.scripts[i]
	return v, ok
}

func (r *Registry) Tile(i id.Id) (TileDef, bool) {
	v, ok := r.tiles[i]
	return v, ok
}

// TileIDs lists every tile type, none included, in ascending id order.
func (r *Registry) TileIDs() []id.Id {
	return slices.Sorted(maps.Keys(r.tiles))
}

func (r *Registry) ItemIDs() []id.Id {
	return slices.Sorted(maps.Keys(r.items))
}

func (r *Registry) ScriptIDs() []id.Id {
	return slices.Sorted(maps.Keys(r.scripts))
}

// ItemMatches reports whether item satisfies filter: the same item, or a
// member of the tag named filter.
func (r *Registry) ItemMatches(item, filter id.Id) bool {
	if item == filter {
		return true
	}
	tag, ok := r.tags[filter]
	return ok && tag.Has(item)
}

// Name is shorthand for the interned string of i.
func (r *Registry) Name(i id.Id) string {
	return r.Interner.Name(i)
}
