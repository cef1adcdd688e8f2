package dto

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/entity"
	"time"
)

type TileReq struct {
	ID       string          `json:"id" binding:"required"`
	Modifier int32           `json:"modifier"`
	Record   *bool           `json:"record"`
	Data     data.DataMapRaw `json:"data"`
}

type TileResp struct {
	Coord    coord.TileCoord `json:"coord"`
	ID       string          `json:"id"`
	Modifier int32           `json:"modifier"`
	Data     data.DataMapRaw `json:"data,omitempty"`
}

type PlaceResp struct {
	Result string `json:"result"`
}

type MoveReq struct {
	Coords []coord.TileCoord `json:"coords" binding:"required"`
	Offset coord.TileCoord   `json:"offset"`
	Record *bool             `json:"record"`
}

type MoveResp struct {
	Moved int `json:"moved"`
}

type LinkReq struct {
	From coord.TileCoord `json:"from"`
	To   coord.TileCoord `json:"to"`
}

type LinkResp struct {
	Linked bool `json:"linked"`
}

type UndoResp struct {
	Undone bool `json:"undone"`
}

type StepResp struct {
	Count      uint64  `json:"count"`
	DurationMs float64 `json:"duration_ms"`
}

type TickingReq struct {
	Running    bool  `json:"running"`
	IntervalMs int64 `json:"interval_ms"`
}

type TickingResp struct {
	Running    bool  `json:"running"`
	IntervalMs int64 `json:"interval_ms"`
}

type MapReq struct {
	Name string `json:"name"`
}

type MapResp struct {
	Info  entity.MapInfo `json:"info"`
	Saved bool           `json:"saved,omitempty"`
}

type Transaction struct {
	Source      coord.TileCoord `json:"source"`
	Destination coord.TileCoord `json:"destination"`
	Item        string          `json:"item"`
	Amount      uint32          `json:"amount"`
	At          time.Time       `json:"at"`
}

// SubscribeReq asks for render frames of the tiles within Radius of Center.
type SubscribeReq struct {
	IntervalMs int64           `json:"interval_ms"`
	Center     coord.TileCoord `json:"center"`
	Radius     uint32          `json:"radius"`
}

type SubscribeResp struct {
	IntervalMs int64 `json:"interval_ms"`
}

type Frame struct {
	Instances    []entity.RenderInstance `json:"instances"`
	Transactions []Transaction           `json:"transactions"`
}

// PlaceReq is the websocket form of a placement; HTTP carries the coordinate
// in the path.
type PlaceReq struct {
	Coord coord.TileCoord `json:"coord"`
	TileReq
}
