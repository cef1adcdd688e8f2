package actors

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/entity"
	"Automancy/internal/game/id"
	"Automancy/internal/shared/actor/messages"
	"testing"
)

func newTile(t *testing.T, tileID id.Id, d data.DataMap) (*TileActor, testIDs) {
	t.Helper()
	reg, ids := newTestRegistry(false)
	def, ok := reg.Tile(tileID)
	if !ok {
		t.Fatalf("tile %d not registered", tileID)
	}
	base := def.Data.Clone()
	for k, v := range d {
		base.Set(k, v)
	}
	return NewTileActor(coord.Zero, def, 0, base, entity.NewStateCell(nil), reg), ids
}

func offer(seq uint64, item id.Id, n uint32) *messages.TransactionOffer {
	return &messages.TransactionOffer{Seq: seq, Stack: data.ItemStack{ID: item, Amount: n}}
}

func accepted(res any) bool {
	_, ok := res.(*messages.TransactionResult)
	return ok
}

func TestProducerOffersWithoutInputs(t *testing.T) {
	_, ids := newTestRegistry(false)
	tile, _ := newTile(t, ids.producer, nil)

	out := tile.tick(1)
	if len(out.Offers) != 1 {
		t.Fatalf("offers=%v", out.Offers)
	}
	got := out.Offers[0]
	if got.Destination != coord.Right || got.Stack.ID != ids.ore || got.Stack.Amount != 1 {
		t.Fatalf("offer=%+v", got)
	}
	if again := tile.tick(2); len(again.Offers) != 0 {
		t.Fatalf("must not offer while the last offer is unresolved")
	}
	tile.offering = false
	tile.onDone(got.Stack)
	if again := tile.tick(3); len(again.Offers) != 1 {
		t.Fatalf("should offer again once resolved")
	}
}

func TestSmelterConsumesOnDone(t *testing.T) {
	_, ids := newTestRegistry(false)
	tile, _ := newTile(t, ids.smelter, data.DataMap{ids.Target: data.Coord(coord.Left)})

	if out := tile.tick(1); len(out.Offers) != 0 {
		t.Fatalf("no inputs, no offer: %v", out.Offers)
	}
	if res := tile.accept(offer(1, ids.ingot, 1)); accepted(res) {
		t.Fatalf("ingot is not a smelter input")
	}
	if res := tile.accept(offer(2, ids.ore, 3)); !accepted(res) {
		t.Fatalf("ore rejected: %+v", res)
	}
	if res := tile.accept(offer(3, ids.ore, 2)); accepted(res) {
		t.Fatalf("buffer above twice the recipe must reject")
	}

	out := tile.tick(2)
	if len(out.Offers) != 1 || out.Offers[0].Stack.ID != ids.ingot || out.Offers[0].Destination != coord.Left {
		t.Fatalf("offers=%+v", out.Offers)
	}
	// Nothing is consumed until the transfer is confirmed.
	if n := inventoryOf(tile.data, ids.Buffer).Get(ids.ore); n != 3 {
		t.Fatalf("ore before done=%d", n)
	}
	tile.offering = false
	tile.onDone(out.Offers[0].Stack)
	if n := inventoryOf(tile.data, ids.Buffer).Get(ids.ore); n != 1 {
		t.Fatalf("ore after done=%d", n)
	}
	if s := tile.cell.Load(); s == nil || !s.Data.Equal(tile.data) {
		t.Fatalf("state not published")
	}
}

func TestStorageAccepts(t *testing.T) {
	_, ids := newTestRegistry(false)
	cases := []struct {
		name string
		tile id.Id
		item id.Id
		n    uint32
		want bool
	}{
		{"any item", ids.chest, ids.ingot, 10, true},
		{"filter match", ids.oreChest, ids.ore, 1, true},
		{"filter miss", ids.oreChest, ids.ingot, 1, false},
		{"within cap", ids.smallChest, ids.ore, 1, true},
		{"over cap", ids.smallChest, ids.ore, 2, false},
		{"over max stack", ids.chest, ids.ore, data.MaxStack + 1, false},
		{"zero", ids.chest, ids.ore, 0, false},
		{"void", ids.void, ids.ore, 7, true},
		{"deco", ids.rock, ids.ore, 1, false},
		{"linker", ids.linker, ids.ore, 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tile, _ := newTile(t, tc.tile, nil)
			if got := accepted(tile.accept(offer(1, tc.item, tc.n))); got != tc.want {
				t.Fatalf("accepted=%v want %v", got, tc.want)
			}
		})
	}
}

func TestVoidKeepsNothing(t *testing.T) {
	_, ids := newTestRegistry(false)
	tile, _ := newTile(t, ids.void, nil)
	tile.accept(offer(1, ids.ore, 5))
	if _, ok := tile.data.Get(ids.Buffer); ok {
		t.Fatalf("void stored items")
	}
}

func TestNodeHoldsOneStack(t *testing.T) {
	_, ids := newTestRegistry(false)
	tile, _ := newTile(t, ids.node, data.DataMap{ids.Target: data.Coord(coord.BottomRight)})

	if !accepted(tile.accept(offer(1, ids.ore, 2))) {
		t.Fatalf("empty node must accept")
	}
	if accepted(tile.accept(offer(2, ids.ore, 1))) {
		t.Fatalf("full node must reject")
	}
	out := tile.tick(1)
	if len(out.Offers) != 1 || out.Offers[0].Stack.Amount != 2 || out.Offers[0].Destination != coord.BottomRight {
		t.Fatalf("offers=%+v", out.Offers)
	}
	tile.offering = false
	tile.onDone(out.Offers[0].Stack)
	if !inventoryOf(tile.data, ids.Buffer).Empty() {
		t.Fatalf("node not cleared")
	}
}

func TestLinkerRequestsExtract(t *testing.T) {
	_, ids := newTestRegistry(false)
	tile, _ := newTile(t, ids.linker, data.DataMap{ids.Target: data.Coord(coord.Right)})

	if out := tile.tick(1); len(out.Extracts) != 0 {
		t.Fatalf("unlinked linker extracted")
	}
	if reply := tile.toggleLink(coord.Left); !reply.Linked {
		t.Fatalf("first toggle should link")
	}
	out := tile.tick(2)
	if len(out.Extracts) != 1 || out.Extracts[0].From != coord.Left || out.Extracts[0].To != coord.Right {
		t.Fatalf("extracts=%+v", out.Extracts)
	}
	if reply := tile.toggleLink(coord.Left); reply.Linked {
		t.Fatalf("second toggle should unlink")
	}
	if reply := tile.toggleLink(coord.TopLeft); !reply.Linked {
		t.Fatalf("toggling a different link replaces it")
	}
	if cur, _ := tile.data.Coord(ids.Link); cur != coord.TopLeft {
		t.Fatalf("link=%v", cur)
	}
}

func TestExtractReservesUntilNextTick(t *testing.T) {
	_, ids := newTestRegistry(false)
	inv := data.NewInventory()
	inv.Add(ids.ore, 1)
	tile, _ := newTile(t, ids.chest, data.DataMap{ids.Buffer: inv})

	tile.tick(1)
	first := tile.extract(&messages.Extract{Seq: 1})
	if !first.Ok || first.Stack.ID != ids.ore || first.Stack.Amount != 1 {
		t.Fatalf("first=%+v", first)
	}
	if second := tile.extract(&messages.Extract{Seq: 2}); second.Ok {
		t.Fatalf("reserved unit extracted twice")
	}
	tile.tick(2)
	if again := tile.extract(&messages.Extract{Seq: 3}); !again.Ok {
		t.Fatalf("reservation should lapse at the next tick")
	}
	tile.onExtracted(first.Stack)
	if n := inventoryOf(tile.data, ids.Buffer).Get(ids.ore); n != 0 {
		t.Fatalf("ore left=%d", n)
	}
}

func TestTombstonedTileIsInert(t *testing.T) {
	_, ids := newTestRegistry(false)
	tile, _ := newTile(t, ids.producer, nil)
	tile.tombstoned = true

	if out := tile.tick(1); len(out.Offers) != 0 {
		t.Fatalf("tombstoned tile offered")
	}
	res, ok := tile.accept(offer(1, ids.ore, 1)).(*messages.TransactionRejected)
	if !ok || res.Reason != rejectTombstoned {
		t.Fatalf("res=%+v", res)
	}
	if x := tile.extract(&messages.Extract{Seq: 1}); x.Ok {
		t.Fatalf("tombstoned tile extracted")
	}
}
