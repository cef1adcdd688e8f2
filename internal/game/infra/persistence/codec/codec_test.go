package codec

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/entity"
	"Automancy/internal/game/resource"
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

type fixture struct {
	reg    *resource.Registry
	miner  resource.TileDef
	chest  resource.TileDef
	ore    data.ItemStack
	script data.ID
}

func newFixture() fixture {
	b := resource.NewBuilder()
	ids := b.IDs()
	ore := b.Item("automancy:iron_ore")
	script := b.Script("automancy:mine", nil, []data.ItemStack{{ID: ore, Amount: 1}})
	miner := b.Tile("automancy:miner", resource.KindMachine, resource.Targeted(), resource.WithDefault(ids.Script, data.ID(script)))
	chest := b.Tile("automancy:chest", resource.KindStorage)
	b.ID("automancy:retired")
	reg := b.Build()
	m, _ := reg.Tile(miner)
	c, _ := reg.Tile(chest)
	return fixture{reg: reg, miner: m, chest: c, ore: data.ItemStack{ID: ore, Amount: 1}, script: data.ID(script)}
}

func (f fixture) snapshot() *entity.MapSnapshot {
	ids := f.reg.IDs
	minerData := data.DataMap{}
	minerData.Set(ids.Target, data.Coord(coord.Right))
	minerData.Set(ids.Script, f.script)
	minerData.InventoryOrNew(ids.Buffer)

	chestData := data.DataMap{}
	chestData.InventoryOrNew(ids.Buffer).Add(f.ore.ID, 7)
	chestData.Set(ids.Link, data.Coord(coord.New(3, -2)))
	chestData.Set(ids.Amount, data.Amount(100))

	world := data.DataMap{}
	world.Set(ids.Amount, data.Amount(1))

	return &entity.MapSnapshot{
		Name:    "test",
		SavedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Tiles: []entity.TileRecord{
			{Coord: coord.New(0, 0), ID: f.miner.ID, Modifier: 2, Data: minerData},
			{Coord: coord.New(1, 0), ID: f.chest.ID, Data: chestData},
		},
		Data: world,
	}
}

func TestRoundTrip(t *testing.T) {
	f := newFixture()
	c := New(f.reg)
	snap := f.snapshot()

	raw, err := c.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := c.Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Name != snap.Name || !back.SavedAt.Equal(snap.SavedAt) {
		t.Fatalf("header mismatch: %+v", back)
	}
	if len(back.Tiles) != len(snap.Tiles) {
		t.Fatalf("tiles=%d want %d", len(back.Tiles), len(snap.Tiles))
	}
	for i := range snap.Tiles {
		if !back.Tiles[i].Equal(snap.Tiles[i]) {
			t.Fatalf("tile %d mismatch:\n got=%+v\nwant=%+v", i, back.Tiles[i], snap.Tiles[i])
		}
	}
	if !back.Data.Equal(snap.Data) {
		t.Fatalf("world data mismatch")
	}
}

func TestEncodeIsStable(t *testing.T) {
	f := newFixture()
	c := New(f.reg)
	a, err := c.Marshal(f.snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	b, err := c.Marshal(f.snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("equal snapshots encoded differently")
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestEncodeReportsWriteErrors(t *testing.T) {
	f := newFixture()
	want := errors.New("disk full")
	snap := f.snapshot()
	// A long name pushes the header past the bufio buffer so the header
	// write itself reaches the failing sink.
	snap.Name = strings.Repeat("n", 64<<10)
	for _, s := range []*entity.MapSnapshot{f.snapshot(), snap} {
		if err := New(f.reg).Encode(failingWriter{err: want}, s); !errors.Is(err, want) {
			t.Fatalf("Encode(%d byte name) err=%v want %v", len(s.Name), err, want)
		}
	}
}

func TestDecodeDropsUnknownTileTypes(t *testing.T) {
	f := newFixture()
	snap := f.snapshot()
	retired, _ := f.reg.Interner.Get("automancy:retired")
	snap.Tiles = append(snap.Tiles, entity.TileRecord{Coord: coord.New(5, 5), ID: retired})

	c := New(f.reg)
	raw, err := c.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := c.Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back.Tiles) != 2 {
		t.Fatalf("tiles=%d, the retired type must be dropped", len(back.Tiles))
	}
}

func TestDecodeRejectsGarbageAndOtherVersions(t *testing.T) {
	c := New(newFixture().reg)
	if _, err := c.Unmarshal([]byte("not zstd")); err == nil {
		t.Fatalf("garbage must not decode")
	}
}

func TestReadHeader(t *testing.T) {
	f := newFixture()
	raw, err := New(f.reg).Marshal(f.snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	h, err := ReadHeader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Version != FormatVersion || h.TileCount != 2 || h.Name != "test" {
		t.Fatalf("header=%+v", h)
	}
}
