package memory

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/entity"
	"Automancy/internal/game/infra/persistence/codec"
	"Automancy/internal/game/resource"
	"context"
	"testing"
	"time"
)

func TestSaveLoadList(t *testing.T) {
	b := resource.NewBuilder()
	chest := b.Tile("automancy:chest", resource.KindStorage)
	reg := b.Build()
	repo := NewMapRepository(codec.New(reg))
	ctx := context.Background()

	if snap, err := repo.LoadMap(ctx, "none"); err != nil || snap.Name != "none" || len(snap.Tiles) != 0 {
		t.Fatalf("missing map=%+v,%v", snap, err)
	}

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b"} {
		_, err := repo.SaveMap(ctx, &entity.MapSnapshot{
			Name:    name,
			SavedAt: old.Add(time.Duration(i) * time.Hour),
			Tiles:   []entity.TileRecord{{Coord: coord.New(int32(i), 0), ID: chest, Data: data.DataMap{}}},
		})
		if err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	snap, err := repo.LoadMap(ctx, "b")
	if err != nil || len(snap.Tiles) != 1 || snap.Tiles[0].Coord != coord.New(1, 0) {
		t.Fatalf("load=%+v,%v", snap, err)
	}
	infos, _ := repo.ListMaps(ctx)
	if len(infos) != 2 || infos[0].Name != "b" {
		t.Fatalf("list=%+v", infos)
	}
	if info, ok, _ := repo.MapInfo(ctx, "a"); !ok || info.TileCount != 1 {
		t.Fatalf("info=%+v,%v", info, ok)
	}
}
