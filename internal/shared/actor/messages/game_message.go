package messages

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/entity"
	"Automancy/internal/game/id"
	"time"

	"github.com/asynkron/protoactor-go/actor"
)

type PlaceResult int

const (
	Ignored PlaceResult = iota
	Placed
	Removed
)

func (r PlaceResult) String() string {
	switch r {
	case Placed:
		return "placed"
	case Removed:
		return "removed"
	default:
		return "ignored"
	}
}

// PlaceTile puts ID at Coord, replacing what is there. The none tile removes.
// Data overrides the tile type's defaults. Record pushes an undo operation.
type PlaceTile struct {
	Coord    coord.TileCoord
	ID       id.Id
	Modifier int32
	Record   bool
	Data     data.DataMap
}

type PlaceTileReply struct {
	Result PlaceResult
}

type MoveTiles struct {
	Coords []coord.TileCoord
	Offset coord.TileCoord
	Record bool
}

type MoveTilesReply struct {
	Moved int
}

type Undo struct{}

type UndoReply struct {
	Applied bool
}

type GetTile struct {
	Coord coord.TileCoord
}

type TileReply struct {
	ID       id.Id
	Modifier int32
	Ok       bool
}

type GetTileEntity struct {
	Coord coord.TileCoord
}

type TileEntityReply struct {
	PID *actor.PID
	Ok  bool
}

// SendMsgToTile routes Msg to the tile at Coord. TileQuery messages get
// their reply from the tile; anything else is acknowledged with Delivered.
type SendMsgToTile struct {
	Coord coord.TileCoord
	Msg   any
}

// TileAbsent answers a routed message when no live tile is at Coord.
type TileAbsent struct {
	Coord coord.TileCoord
}

// LinkTiles toggles a link from the tile at From to To.
type LinkTiles struct {
	From coord.TileCoord
	To   coord.TileCoord
}

// Populate spawns actors for the dormant tiles of Chunk.
type Populate struct {
	Chunk coord.ChunkCoord
}

type PopulateReply struct {
	Spawned int
}

// Step runs one tick and replies once it has completed.
type Step struct{}

type StepReply struct {
	Count    uint64
	Duration time.Duration
}

// StartTicking runs ticks every Interval; zero keeps the configured one.
type StartTicking struct {
	Interval time.Duration
}

type StopTicking struct{}

type TickingReply struct {
	Running  bool
	Interval time.Duration
}

type RenderInfoRequest struct {
	Bounds coord.TileBounds
}

type RenderInfoReply struct {
	Info entity.MapRenderInfo
}

type GetRecordedTransactions struct{}

type TransactionsReply struct {
	Log *entity.TransactionLog
}

type GetMapInfo struct{}

type MapInfoReply struct {
	Info entity.MapInfo
	Name string
}

type ListMaps struct{}

type ListMapsReply struct {
	Maps []entity.MapInfo
	Err  error
}

// LoadMap replaces the running map, stopping every tile first.
type LoadMap struct {
	Name string
}

type LoadMapReply struct {
	Info entity.MapInfo
	Err  error
}

// SaveMap writes the running map, under Name when set.
type SaveMap struct {
	Name string
}

type SaveMapReply struct {
	Info entity.MapInfo
	Err  error
}

// TakeDataMap hands over the world data, leaving an empty one behind.
type TakeDataMap struct{}

type DataMapReply struct {
	Data data.DataMap
}

type SetDataMap struct {
	Data data.DataMap
}

// Drain tombstones and stops every tile, replying once all have stopped.
type Drain struct{}

type DrainReply struct {
	Stopped int
}
