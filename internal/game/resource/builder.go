package resource

import (
	"Automancy/internal/game/data"
	"Automancy/internal/game/id"
)

// Builder assembles a Registry in code. Names are "namespace:name" and
// panic when malformed, so it is meant for tests and tools.
type Builder struct {
	reg *Registry
}

func NewBuilder() *Builder {
	return &Builder{reg: newRegistry(id.NewInterner())}
}

func (b *Builder) IDs() IDs { return b.reg.IDs }

func (b *Builder) ID(name string) id.Id {
	return b.reg.Interner.MustIntern(name)
}

func (b *Builder) Item(name string) id.Id {
	i := b.ID(name)
	b.reg.items[i] = Item{ID: i}
	return i
}

func (b *Builder) Tag(name string, items ...id.Id) id.Id {
	i := b.ID(name)
	b.reg.tags[i] = data.NewSetID(items...)
	return i
}

func (b *Builder) Script(name string, inputs, outputs []data.ItemStack) id.Id {
	i := b.ID(name)
	b.reg.scripts[i] = Script{ID: i, Inputs: inputs, Outputs: outputs}
	return i
}

type TileOption func(*TileDef)

func Targeted() TileOption { return func(t *TileDef) { t.Targeted = true } }

func Linking() TileOption { return func(t *TileDef) { t.Linking = true } }

func WithDefault(key id.Id, v data.Data) TileOption {
	return func(t *TileDef) { t.Data.Set(key, v) }
}

func WithModels(models ...id.Id) TileOption {
	return func(t *TileDef) { t.Models = models }
}

func (b *Builder) Tile(name string, kind Kind, opts ...TileOption) id.Id {
	i := b.ID(name)
	def := TileDef{ID: i, Kind: kind, Data: data.DataMap{}}
	for _, opt := range opts {
		opt(&def)
	}
	b.reg.tiles[i] = def
	return i
}

// Build hands out the registry. The builder must not be used afterwards.
func (b *Builder) Build() *Registry {
	reg := b.reg
	b.reg = nil
	return reg
}
