package file

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/entity"
	"Automancy/internal/game/errs"
	"Automancy/internal/game/infra/persistence/codec"
	"Automancy/internal/game/resource"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newRepo(t *testing.T, opts ...Option) (*MapRepository, *resource.Registry, string) {
	t.Helper()
	b := resource.NewBuilder()
	b.Tile("automancy:chest", resource.KindStorage)
	reg := b.Build()
	dir := t.TempDir()
	return NewMapRepository(dir, codec.New(reg), opts...), reg, dir
}

func sampleSnapshot(reg *resource.Registry, name string, at time.Time) *entity.MapSnapshot {
	chest, _ := reg.Interner.Get("automancy:chest")
	return &entity.MapSnapshot{
		Name:    name,
		SavedAt: at,
		Tiles:   []entity.TileRecord{{Coord: coord.New(1, 2), ID: chest, Data: data.DataMap{}}},
		Data:    data.DataMap{},
	}
}

func TestLoadMissingIsEmpty(t *testing.T) {
	repo, _, _ := newRepo(t)
	snap, err := repo.LoadMap(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if snap.Name != "nowhere" || len(snap.Tiles) != 0 {
		t.Fatalf("snap=%+v", snap)
	}
}

func TestLoadCorruptIsEmpty(t *testing.T) {
	repo, _, dir := newRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "bad.bin"), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	snap, err := repo.LoadMap(context.Background(), "bad")
	if err != nil || len(snap.Tiles) != 0 {
		t.Fatalf("LoadMap=%+v,%v", snap, err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	repo, reg, dir := newRepo(t)
	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	info, err := repo.SaveMap(context.Background(), sampleSnapshot(reg, "home", at))
	if err != nil {
		t.Fatalf("SaveMap: %v", err)
	}
	if info.TileCount != 1 || !info.SavedAt.Equal(at) {
		t.Fatalf("info=%+v", info)
	}
	if _, err := os.Stat(filepath.Join(dir, "home.bin")); err != nil {
		t.Fatalf("map file missing: %v", err)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}

	snap, err := repo.LoadMap(context.Background(), "home")
	if err != nil || len(snap.Tiles) != 1 || snap.Tiles[0].Coord != coord.New(1, 2) {
		t.Fatalf("LoadMap=%+v,%v", snap, err)
	}
	got, ok, err := repo.MapInfo(context.Background(), "home")
	if err != nil || !ok || got.TileCount != 1 {
		t.Fatalf("MapInfo=%+v,%v,%v", got, ok, err)
	}
}

func TestSaveRejectsUnsafeNames(t *testing.T) {
	repo, reg, _ := newRepo(t)
	for _, name := range []string{"", "..", "a/b", `a\b`} {
		_, err := repo.SaveMap(context.Background(), sampleSnapshot(reg, name, time.Now()))
		if !errors.Is(err, errs.ErrMapSaveFailed) {
			t.Fatalf("SaveMap(%q) err=%v", name, err)
		}
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	b := resource.NewBuilder()
	reg := b.Build()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	repo := NewMapRepository(filepath.Join(blocker, "maps"), codec.New(reg))
	_, err := repo.SaveMap(context.Background(), &entity.MapSnapshot{Name: "x"})
	if !errors.Is(err, errs.ErrMapSaveFailed) {
		t.Fatalf("err=%v", err)
	}
}

func TestListMapsNewestFirst(t *testing.T) {
	repo, reg, _ := newRepo(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "new", "mid"} {
		at := base.Add(time.Duration([]int{0, 2, 1}[i]) * time.Hour)
		if _, err := repo.SaveMap(context.Background(), sampleSnapshot(reg, name, at)); err != nil {
			t.Fatalf("SaveMap: %v", err)
		}
	}
	infos, err := repo.ListMaps(context.Background())
	if err != nil {
		t.Fatalf("ListMaps: %v", err)
	}
	if len(infos) != 3 || infos[0].Name != "new" || infos[1].Name != "mid" || infos[2].Name != "old" {
		t.Fatalf("infos=%+v", infos)
	}
}

type fakeIndex struct {
	recorded []entity.MapInfo
}

func (f *fakeIndex) Record(_ context.Context, info entity.MapInfo) error {
	f.recorded = append(f.recorded, info)
	return nil
}

func (f *fakeIndex) List(context.Context) ([]entity.MapInfo, error) { return f.recorded, nil }

func (f *fakeIndex) Close() error { return nil }

func TestSaveRecordsInIndex(t *testing.T) {
	idx := &fakeIndex{}
	repo, reg, _ := newRepo(t, WithIndex(idx))
	if _, err := repo.SaveMap(context.Background(), sampleSnapshot(reg, "indexed", time.Now())); err != nil {
		t.Fatalf("SaveMap: %v", err)
	}
	infos, _ := repo.ListMaps(context.Background())
	if len(idx.recorded) != 1 || len(infos) != 1 || infos[0].Name != "indexed" {
		t.Fatalf("index=%+v list=%+v", idx.recorded, infos)
	}
}
