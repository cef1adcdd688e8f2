package indexdb

import (
	"Automancy/internal/game/entity"
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordListAndGet(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index", "maps.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer idx.Close()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, info := range []entity.MapInfo{
		{Name: "a", TileCount: 1, SavedAt: base},
		{Name: "b", TileCount: 2, SavedAt: base.Add(time.Minute)},
		{Name: "a", TileCount: 5, SavedAt: base.Add(2 * time.Minute)},
	} {
		if err := idx.Record(ctx, info); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	infos, err := idx.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "a" || infos[0].TileCount != 5 || infos[1].Name != "b" {
		t.Fatalf("List=%+v", infos)
	}
	if !infos[0].SavedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("SavedAt=%v", infos[0].SavedAt)
	}

	got, ok, err := idx.Get(ctx, "b")
	if err != nil || !ok || got.TileCount != 2 {
		t.Fatalf("Get=%+v,%v,%v", got, ok, err)
	}
	if _, ok, _ := idx.Get(ctx, "missing"); ok {
		t.Fatalf("missing map reported present")
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatalf("empty path must fail")
	}
}
