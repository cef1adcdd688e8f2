// Package entity holds the coordinator-owned world model: the sparse tile
// table, persisted records, undo history and the transaction log.
package entity

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/id"
	"sync/atomic"

	"github.com/asynkron/protoactor-go/actor"
)

// TileState is the snapshot a tile actor publishes after every change.
// Published values are never mutated.
type TileState struct {
	ID         id.Id
	Modifier   int32
	Data       data.DataMap
	Tombstoned bool
}

// StateCell is written by the owning tile actor and read by anyone.
type StateCell struct {
	p atomic.Pointer[TileState]
}

func NewStateCell(s *TileState) *StateCell {
	c := &StateCell{}
	c.p.Store(s)
	return c
}

func (c *StateCell) Load() *TileState {
	if c == nil {
		return nil
	}
	return c.p.Load()
}

func (c *StateCell) Store(s *TileState) { c.p.Store(s) }

// Tile is one entry of the map. PID is nil while the tile is dormant or
// after its actor died; State then holds the last known good snapshot.
type Tile struct {
	ID       id.Id
	Modifier int32
	PID      *actor.PID
	State    *StateCell
}

// NewDormant builds a tile with no actor from a stored record.
func NewDormant(r TileRecord) *Tile {
	return &Tile{
		ID:       r.ID,
		Modifier: r.Modifier,
		State:    NewStateCell(&TileState{ID: r.ID, Modifier: r.Modifier, Data: r.Data}),
	}
}

func (t *Tile) Live() bool { return t != nil && t.PID != nil }

// Data returns the latest known data. The result is shared and read-only.
func (t *Tile) Data() data.DataMap {
	if s := t.State.Load(); s != nil {
		return s.Data
	}
	return nil
}

// Record captures t for persistence or undo.
func (t *Tile) Record(c coord.TileCoord) TileRecord {
	return TileRecord{Coord: c, ID: t.ID, Modifier: t.Modifier, Data: t.Data()}
}

// TileRecord is a tile detached from any actor. Data is read-only.
type TileRecord struct {
	Coord    coord.TileCoord
	ID       id.Id
	Modifier int32
	Data     data.DataMap
}

func (r TileRecord) Equal(o TileRecord) bool {
	return r.Coord == o.Coord && r.ID == o.ID && r.Modifier == o.Modifier && r.Data.Equal(o.Data)
}
