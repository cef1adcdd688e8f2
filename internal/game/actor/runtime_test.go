package actor

import (
	"Automancy/internal/game/actors"
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/infra/persistence/codec"
	"Automancy/internal/game/infra/persistence/memory"
	"Automancy/internal/game/resource"
	"Automancy/internal/shared/actor/messages"
	"Automancy/internal/shared/transport"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestRuntime(t *testing.T) (*Runtime, *memory.MapRepository) {
	t.Helper()
	reg, err := resource.Load(filepath.Join("..", "..", "..", "resources"))
	if err != nil {
		t.Fatalf("load resources: %v", err)
	}
	mem := memory.NewMapRepository(codec.New(reg))
	rt := NewRuntime(actors.Options{
		Registry:   reg,
		Repository: mem,
		MapName:    "default",
		AskTimeout: 2 * time.Second,
	})
	t.Cleanup(func() { _ = rt.Shutdown(context.Background()) })
	return rt, mem
}

func place(t *testing.T, rt *Runtime, c coord.TileCoord, name string) {
	t.Helper()
	tileID, ok := rt.Registry().Interner.Get(name)
	if !ok {
		t.Fatalf("unknown tile %q", name)
	}
	res, err := rt.PlaceTile(context.Background(), c, tileID, 0, true, nil)
	if err != nil || res != messages.Placed {
		t.Fatalf("place %s: res=%v err=%v", name, res, err)
	}
}

func TestAbsentTileIsNotAnError(t *testing.T) {
	rt, _ := newTestRuntime(t)
	ctx := context.Background()
	at := coord.New(4, -2)

	if _, ok, err := rt.TileData(ctx, at); ok || err != nil {
		t.Fatalf("TileData ok=%v err=%v", ok, err)
	}
	if ok, err := rt.SetTileData(ctx, at, rt.Registry().IDs.Amount, data.Amount(1)); ok || err != nil {
		t.Fatalf("SetTileData ok=%v err=%v", ok, err)
	}
	if _, ok, err := rt.ToggleLink(ctx, at, coord.New(0, 0)); ok || err != nil {
		t.Fatalf("ToggleLink ok=%v err=%v", ok, err)
	}
	if _, _, ok, err := rt.GetTile(ctx, at); ok || err != nil {
		t.Fatalf("GetTile ok=%v err=%v", ok, err)
	}
}

func TestSetNilRemovesValue(t *testing.T) {
	rt, _ := newTestRuntime(t)
	ctx := context.Background()
	at := coord.New(0, 0)
	place(t, rt, at, "automancy:chest")
	key := rt.Registry().IDs.Amount

	if ok, err := rt.SetTileData(ctx, at, key, data.Amount(5)); !ok || err != nil {
		t.Fatalf("set ok=%v err=%v", ok, err)
	}
	v, ok, err := rt.TileDataValue(ctx, at, key)
	if err != nil || !ok || !data.Equal(v, data.Amount(5)) {
		t.Fatalf("value=%v ok=%v err=%v", v, ok, err)
	}
	if ok, err := rt.SetTileData(ctx, at, key, nil); !ok || err != nil {
		t.Fatalf("remove ok=%v err=%v", ok, err)
	}
	if _, ok, _ := rt.TileDataValue(ctx, at, key); ok {
		t.Fatal("value still set after removal")
	}
}

func TestToggleLink(t *testing.T) {
	rt, _ := newTestRuntime(t)
	ctx := context.Background()
	from, to := coord.New(0, 0), coord.New(2, 0)
	place(t, rt, from, "automancy:linker")

	for i, want := range []bool{true, false, true} {
		linked, ok, err := rt.ToggleLink(ctx, from, to)
		if err != nil || !ok || linked != want {
			t.Fatalf("toggle %d: linked=%v ok=%v err=%v", i, linked, ok, err)
		}
	}
	v, ok, err := rt.TileDataValue(ctx, from, rt.Registry().IDs.Link)
	if err != nil || !ok || !data.Equal(v, data.Coord(to.Sub(from))) {
		t.Fatalf("link=%v ok=%v err=%v", v, ok, err)
	}
}

func TestShutdownSavesRunningMap(t *testing.T) {
	rt, mem := newTestRuntime(t)
	place(t, rt, coord.New(1, 1), "automancy:rock")

	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if _, ok := mem.Bytes("default"); !ok {
		t.Fatal("map not saved on shutdown")
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}

func TestTimeoutFromContext(t *testing.T) {
	r := &Runtime{timeout: 3 * time.Second}

	if got := r.timeoutFromContext(context.Background()); got != 3*time.Second {
		t.Fatalf("no deadline: %v", got)
	}
	short, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if got := r.timeoutFromContext(short); got > 100*time.Millisecond || got <= 0 {
		t.Fatalf("short deadline: %v", got)
	}
	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	if got := r.timeoutFromContext(expired); got != time.Millisecond {
		t.Fatalf("expired deadline: %v", got)
	}
}

func TestCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, transport.OK},
		{"runtime", &RuntimeError{Code: transport.Timeout, Message: "slow"}, transport.Timeout},
		{"wrapped", errors.Join(errors.New("x"), &RuntimeError{Code: transport.Conflict}), transport.Conflict},
		{"plain", errors.New("boom"), transport.SystemError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeFromError(tt.err); got != tt.want {
				t.Fatalf("got %d want %d", got, tt.want)
			}
		})
	}
}
