package messages

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/id"
)

type GetData struct{}

type DataReply struct {
	Data data.DataMap
}

type GetDataValue struct {
	Key id.Id
}

type DataValueReply struct {
	Value data.Data
	Ok    bool
}

type SetDataValue struct {
	Key   id.Id
	Value data.Data
}

type RemoveData struct {
	Key id.Id
}

// ToggleLink sets Link as the tile's link, or clears it when it already is.
type ToggleLink struct {
	Link coord.TileCoord
}

type LinkReply struct {
	Linked bool
	Link   coord.TileCoord
}

func (GetData) tileQuery()      {}
func (GetDataValue) tileQuery() {}
func (ToggleLink) tileQuery()   {}

// Tombstone stops the tile from ticking and accepting items. Queries are
// still answered until the actor stops.
type Tombstone struct{}

type Tick struct {
	Count uint64
}

// Offer asks the coordinator to push Stack from the ticking tile to
// Destination.
type Offer struct {
	Destination coord.TileCoord
	Stack       Stack
}

// ExtractRequest asks the coordinator to pull one unit out of the tile at
// From and deliver it to To.
type ExtractRequest struct {
	From coord.TileCoord
	To   coord.TileCoord
}

// Ticked is the reply to Tick.
type Ticked struct {
	Coord    coord.TileCoord
	Count    uint64
	Offers   []Offer
	Extracts []ExtractRequest
}

// TransactionOffer is sent by the coordinator to a destination tile. Seq is
// echoed in the reply.
type TransactionOffer struct {
	Seq         uint64
	Source      coord.TileCoord
	Destination coord.TileCoord
	Stack       Stack
	Tick        uint64
}

type TransactionResult struct {
	Seq   uint64
	Stack Stack
}

type TransactionRejected struct {
	Seq    uint64
	Reason string
}

// TransactionDone tells the source its offer was accepted.
type TransactionDone struct {
	Destination coord.TileCoord
	Stack       Stack
}

// Extract asks a storage tile for one unit to deliver to Destination.
type Extract struct {
	Seq         uint64
	Destination coord.TileCoord
	Tick        uint64
}

type ExtractReply struct {
	Seq   uint64
	Stack Stack
	Ok    bool
}

// ExtractDone tells a storage tile its extracted stack was delivered.
type ExtractDone struct {
	Destination coord.TileCoord
	Stack       Stack
}
