package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, GH.HandlePlaceTile)
	register(d, GH.HandleMoveTiles)
	register(d, GH.HandleUndo)
	register(d, GH.HandleGetTile)
	register(d, GH.HandleGetTileEntity)
	register(d, GH.HandleSendMsgToTile)
	register(d, GH.HandleLinkTiles)
	register(d, GH.HandlePopulate)
	register(d, GH.HandleStep)
	register(d, GH.HandleStartTicking)
	register(d, GH.HandleStopTicking)
	register(d, GH.HandleRenderInfo)
	register(d, GH.HandleTransactions)
	register(d, GH.HandleMapInfo)
	register(d, GH.HandleListMaps)
	register(d, GH.HandleLoadMap)
	register(d, GH.HandleSaveMap)
	register(d, GH.HandleTakeDataMap)
	register(d, GH.HandleSetDataMap)
	register(d, GH.HandleDrain)
}

func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, g *GameActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

// Handles reports whether msg is a request the coordinator serves.
func (d *Dispatcher) Handles(msg any) bool {
	if msg == nil {
		return false
	}
	_, ok := d.handlers[reflect.TypeOf(msg)]
	return ok
}

func (d *Dispatcher) Dispatch(ctx actor.Context, g *GameActor, req any) {
	if req == nil {
		ctx.Respond(fail("nil request"))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(fail("no handler for request"))
		return
	}

	if bodyType != handler.reqType {
		ctx.Respond(fail("request type mismatch"))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(g),
		reflect.ValueOf(req),
	})
}
