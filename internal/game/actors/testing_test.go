package actors

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/id"
	"Automancy/internal/game/resource"
)

type testIDs struct {
	resource.IDs
	ore, ingot, ores   id.Id
	mine, smelt        id.Id
	producer, smelter  id.Id
	chest, smallChest  id.Id
	oreChest           id.Id
	node, linker, void id.Id
	rock, ghost        id.Id
}

// newTestRegistry builds a small pack: a producer that mines ore out of
// nothing, a smelter turning 2 ore into an ingot, and the passive kinds.
func newTestRegistry(withGhost bool) (*resource.Registry, testIDs) {
	b := resource.NewBuilder()
	ids := testIDs{IDs: b.IDs()}
	ids.ore = b.Item("automancy:ore")
	ids.ingot = b.Item("automancy:ingot")
	ids.ores = b.Tag("automancy:ores", ids.ore)
	ids.mine = b.Script("automancy:mine", nil, []data.ItemStack{{ID: ids.ore, Amount: 1}})
	ids.smelt = b.Script("automancy:smelt",
		[]data.ItemStack{{ID: ids.ores, Amount: 2}},
		[]data.ItemStack{{ID: ids.ingot, Amount: 1}})

	ids.producer = b.Tile("automancy:producer", resource.KindMachine, resource.Targeted(),
		resource.WithDefault(ids.Script, data.ID(ids.mine)),
		resource.WithDefault(ids.Target, data.Coord(coord.Right)))
	ids.smelter = b.Tile("automancy:smelter", resource.KindMachine, resource.Targeted(),
		resource.WithDefault(ids.Script, data.ID(ids.smelt)))
	ids.chest = b.Tile("automancy:chest", resource.KindStorage)
	ids.smallChest = b.Tile("automancy:small_chest", resource.KindStorage,
		resource.WithDefault(ids.Amount, data.Amount(1)))
	ids.oreChest = b.Tile("automancy:ore_chest", resource.KindStorage,
		resource.WithDefault(ids.Storage, data.ID(ids.ores)))
	ids.node = b.Tile("automancy:conveyor", resource.KindNode, resource.Targeted())
	ids.linker = b.Tile("automancy:linker", resource.KindLinker, resource.Targeted(), resource.Linking())
	ids.void = b.Tile("automancy:void", resource.KindVoid)
	ids.rock = b.Tile("automancy:rock", resource.KindDeco)
	if withGhost {
		ids.ghost = b.Tile("automancy:ghost", resource.KindDeco)
	}
	return b.Build(), ids
}

func inventoryOf(d data.DataMap, key id.Id) *data.Inventory {
	inv, _ := d.Inventory(key)
	return inv
}
