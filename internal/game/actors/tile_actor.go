package actors

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/entity"
	"Automancy/internal/game/resource"
	"Automancy/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

// TileActor owns one tile's data. Every change is published to cell so
// readers outside the actor never wait on its mailbox.
type TileActor struct {
	coord      coord.TileCoord
	def        resource.TileDef
	modifier   int32
	reg        *resource.Registry
	data       data.DataMap
	cell       *entity.StateCell
	tombstoned bool

	// offering is set while an offer from the last tick is unresolved.
	offering bool
	// reserved counts units promised to extractors during the current tick.
	reserved *data.Inventory
}

func NewTileActor(c coord.TileCoord, def resource.TileDef, modifier int32, initial data.DataMap,
	cell *entity.StateCell, reg *resource.Registry) *TileActor {
	d := initial.Clone()
	if d == nil {
		d = data.DataMap{}
	}
	return &TileActor{
		coord:    c,
		def:      def,
		modifier: modifier,
		reg:      reg,
		data:     d,
		cell:     cell,
		reserved: data.NewInventory(),
	}
}

func (t *TileActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		t.publish()
	case *messages.GetData:
		ctx.Respond(&messages.DataReply{Data: t.data.Clone()})
	case *messages.GetDataValue:
		v, ok := t.data.Get(msg.Key)
		if ok {
			v = v.Clone()
		}
		ctx.Respond(&messages.DataValueReply{Value: v, Ok: ok})
	case *messages.SetDataValue:
		if t.tombstoned || msg.Value == nil {
			return
		}
		t.data.Set(msg.Key, msg.Value.Clone())
		t.publish()
	case *messages.RemoveData:
		if t.tombstoned {
			return
		}
		if t.data.Remove(msg.Key) {
			t.publish()
		}
	case *messages.ToggleLink:
		ctx.Respond(t.toggleLink(msg.Link))
	case *messages.Tick:
		ctx.Respond(t.tick(msg.Count))
	case *messages.TransactionOffer:
		ctx.Respond(t.accept(msg))
	case *messages.TransactionDone:
		t.offering = false
		t.onDone(msg.Stack)
	case *messages.TransactionRejected:
		t.offering = false
	case *messages.Extract:
		ctx.Respond(t.extract(msg))
	case *messages.ExtractDone:
		t.onExtracted(msg.Stack)
	case *messages.Tombstone:
		if !t.tombstoned {
			t.tombstoned = true
			t.publish()
		}
	}
}

func (t *TileActor) publish() {
	t.cell.Store(&entity.TileState{
		ID:         t.def.ID,
		Modifier:   t.modifier,
		Data:       t.data.Clone(),
		Tombstoned: t.tombstoned,
	})
}

func (t *TileActor) toggleLink(link coord.TileCoord) *messages.LinkReply {
	if t.tombstoned {
		cur, ok := t.data.Coord(t.reg.IDs.Link)
		return &messages.LinkReply{Linked: ok, Link: cur}
	}
	key := t.reg.IDs.Link
	if cur, ok := t.data.Coord(key); ok && cur == link {
		t.data.Remove(key)
		t.publish()
		return &messages.LinkReply{Linked: false, Link: link}
	}
	t.data.Set(key, data.Coord(link))
	t.publish()
	return &messages.LinkReply{Linked: true, Link: link}
}
