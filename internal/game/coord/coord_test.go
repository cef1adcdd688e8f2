package coord

import (
	"encoding/json"
	"math"
	"slices"
	"testing"
)

func TestNeighborsAreAtDistanceOne(t *testing.T) {
	c := New(3, -2)
	for _, n := range c.Neighbors() {
		if d := c.Distance(n); d != 1 {
			t.Fatalf("neighbor %v at distance %d", n, d)
		}
	}
}

func TestDirectionsCancel(t *testing.T) {
	pairs := [][2]TileCoord{{Right, Left}, {TopRight, BottomLeft}, {TopLeft, BottomRight}}
	for _, p := range pairs {
		if got := p[0].Add(p[1]); got != Zero {
			t.Fatalf("%v + %v = %v", p[0], p[1], got)
		}
	}
}

func TestDistance(t *testing.T) {
	if d := New(0, 0).Distance(New(3, -1)); d != 3 {
		t.Fatalf("distance=%d want 3", d)
	}
	if d := New(-2, 2).Distance(New(2, -2)); d != 4 {
		t.Fatalf("distance=%d want 4", d)
	}
	if d := New(math.MinInt32, 0).Distance(New(math.MaxInt32, 0)); d != math.MaxUint32 {
		t.Fatalf("distance=%d want %d", d, uint64(math.MaxUint32))
	}
	if d := New(math.MinInt32, math.MaxInt32).Distance(New(math.MaxInt32, math.MinInt32)); d != math.MaxUint32 {
		t.Fatalf("distance=%d want %d", d, uint64(math.MaxUint32))
	}
}

func TestRotation(t *testing.T) {
	cases := map[TileCoord]float32{
		Right:       0,
		TopRight:    60,
		TopLeft:     120,
		Left:        180,
		BottomLeft:  240,
		BottomRight: 300,
	}
	for d, want := range cases {
		got, ok := Rotation(d)
		if !ok || got != want {
			t.Fatalf("Rotation(%v)=%v,%v want %v", d, got, ok, want)
		}
	}
	if _, ok := Rotation(New(2, 0)); ok {
		t.Fatalf("non-unit offsets have no rotation")
	}
}

func TestCompareSortsByQThenR(t *testing.T) {
	cs := []TileCoord{New(1, 0), New(0, 5), New(0, -1), New(-3, 9)}
	slices.SortFunc(cs, Compare)
	want := []TileCoord{New(-3, 9), New(0, -1), New(0, 5), New(1, 0)}
	if !slices.Equal(cs, want) {
		t.Fatalf("sorted=%v want %v", cs, want)
	}
}

func TestJSONIsPair(t *testing.T) {
	raw, err := json.Marshal(New(4, -7))
	if err != nil || string(raw) != "[4,-7]" {
		t.Fatalf("Marshal=%s,%v", raw, err)
	}
	var back TileCoord
	if err := json.Unmarshal(raw, &back); err != nil || back != New(4, -7) {
		t.Fatalf("Unmarshal=%v,%v", back, err)
	}
}

func TestChunk(t *testing.T) {
	cases := []struct {
		tile  TileCoord
		chunk ChunkCoord
	}{
		{New(0, 0), ChunkCoord{0, 0}},
		{New(15, 15), ChunkCoord{0, 0}},
		{New(16, 0), ChunkCoord{1, 0}},
		{New(-1, 0), ChunkCoord{-1, 0}},
		{New(-16, -17), ChunkCoord{-1, -2}},
	}
	for _, tc := range cases {
		if got := tc.tile.Chunk(); got != tc.chunk {
			t.Fatalf("%v.Chunk()=%v want %v", tc.tile, got, tc.chunk)
		}
		if !tc.chunk.Contains(tc.tile) {
			t.Fatalf("%v must contain %v", tc.chunk, tc.tile)
		}
	}
	if o := (ChunkCoord{-1, 2}).Origin(); o != New(-16, 32) {
		t.Fatalf("Origin()=%v", o)
	}
}

func TestTileBounds(t *testing.T) {
	b := TileBounds{Center: New(1, 1), Radius: 2}
	if !b.Contains(New(3, 0)) {
		t.Fatalf("(3,0) is 2 steps from (1,1)")
	}
	if b.Contains(New(4, 1)) {
		t.Fatalf("(4,1) is 3 steps from (1,1)")
	}

	origin := TileBounds{Center: Zero}
	for _, c := range []TileCoord{New(math.MinInt32, 0), New(0, math.MinInt32), New(math.MaxInt32, math.MinInt32)} {
		if origin.Contains(c) {
			t.Fatalf("%v is outside radius 0 around the origin", c)
		}
	}
	wide := TileBounds{Center: New(math.MinInt32, 0), Radius: math.MaxUint32}
	if !wide.Contains(New(math.MaxInt32, 0)) {
		t.Fatalf("opposite extreme lies exactly on the radius")
	}
	if wide.Contains(New(math.MaxInt32, 1)) {
		t.Fatalf("one step past the radius must be culled")
	}
}
