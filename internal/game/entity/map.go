package entity

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"maps"
	"slices"
	"strings"
	"time"
)

// Map is owned by the coordinator actor and is not safe for concurrent use.
type Map struct {
	Name string
	// Data is world-level scratch data.
	Data data.DataMap

	tiles     map[coord.TileCoord]*Tile
	populated map[coord.ChunkCoord]struct{}
}

func NewMap(name string) *Map {
	return &Map{
		Name:      name,
		Data:      data.DataMap{},
		tiles:     make(map[coord.TileCoord]*Tile),
		populated: make(map[coord.ChunkCoord]struct{}),
	}
}

// Insert stores t at c and returns whatever it replaced.
func (m *Map) Insert(c coord.TileCoord, t *Tile) *Tile {
	old := m.tiles[c]
	m.tiles[c] = t
	return old
}

func (m *Map) Remove(c coord.TileCoord) (*Tile, bool) {
	t, ok := m.tiles[c]
	if ok {
		delete(m.tiles, c)
	}
	return t, ok
}

func (m *Map) Get(c coord.TileCoord) (*Tile, bool) {
	t, ok := m.tiles[c]
	return t, ok
}

func (m *Map) Len() int { return len(m.tiles) }

// Coords lists occupied coordinates in ascending order.
func (m *Map) Coords() []coord.TileCoord {
	return slices.SortedFunc(maps.Keys(m.tiles), coord.Compare)
}

// Live lists coordinates whose actor is running, in ascending order.
func (m *Map) Live() []coord.TileCoord {
	out := make([]coord.TileCoord, 0, len(m.tiles))
	for c, t := range m.tiles {
		if t.Live() {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, coord.Compare)
	return out
}

func (m *Map) LiveCount() int {
	n := 0
	for _, t := range m.tiles {
		if t.Live() {
			n++
		}
	}
	return n
}

// Dormant lists coordinates of chunk whose tile has no actor.
func (m *Map) Dormant(chunk coord.ChunkCoord) []coord.TileCoord {
	var out []coord.TileCoord
	for c, t := range m.tiles {
		if !t.Live() && chunk.Contains(c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, coord.Compare)
	return out
}

// Find returns the coordinate of the tile whose actor has the given id.
func (m *Map) Find(pidID string) (coord.TileCoord, *Tile, bool) {
	for c, t := range m.tiles {
		if t.PID != nil && t.PID.Id == pidID {
			return c, t, true
		}
	}
	return coord.TileCoord{}, nil, false
}

func (m *Map) Populated(chunk coord.ChunkCoord) bool {
	_, ok := m.populated[chunk]
	return ok
}

func (m *Map) MarkPopulated(chunk coord.ChunkCoord) {
	m.populated[chunk] = struct{}{}
}

// Snapshot captures every tile from its published state.
func (m *Map) Snapshot(savedAt time.Time) *MapSnapshot {
	coords := m.Coords()
	snap := &MapSnapshot{
		Name:    m.Name,
		SavedAt: savedAt,
		Tiles:   make([]TileRecord, 0, len(coords)),
		Data:    m.Data.Clone(),
	}
	for _, c := range coords {
		snap.Tiles = append(snap.Tiles, m.tiles[c].Record(c))
	}
	return snap
}

// MapSnapshot is a map detached from actors, the unit of persistence.
type MapSnapshot struct {
	Name    string
	SavedAt time.Time
	Tiles   []TileRecord
	Data    data.DataMap
}

func (s *MapSnapshot) Info() MapInfo {
	return MapInfo{Name: s.Name, TileCount: len(s.Tiles), SavedAt: s.SavedAt}
}

// MapInfo summarizes a saved map for listings.
type MapInfo struct {
	Name      string    `json:"name" bson:"_id"`
	TileCount int       `json:"tile_count" bson:"tile_count"`
	SavedAt   time.Time `json:"saved_at" bson:"saved_at"`
}

// SortMapInfos orders newest first, then by name.
func SortMapInfos(infos []MapInfo) {
	slices.SortFunc(infos, func(a, b MapInfo) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
