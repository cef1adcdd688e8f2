package actors

import (
	"Automancy/internal/game/data"
	"Automancy/internal/game/errs"
	"Automancy/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type GameHandler struct{}

var GH = &GameHandler{}

func (h *GameHandler) HandlePlaceTile(ctx actor.Context, g *GameActor, req *messages.PlaceTile) {
	res := g.place(ctx, req)
	g.metrics.Placement(res.String())
	ctx.Respond(&messages.PlaceTileReply{Result: res})
}

func (h *GameHandler) HandleMoveTiles(ctx actor.Context, g *GameActor, req *messages.MoveTiles) {
	ctx.Respond(&messages.MoveTilesReply{Moved: g.move(ctx, req)})
}

func (h *GameHandler) HandleUndo(ctx actor.Context, g *GameActor, _ *messages.Undo) {
	ctx.Respond(&messages.UndoReply{Applied: g.undo(ctx)})
}

func (h *GameHandler) HandleGetTile(ctx actor.Context, g *GameActor, req *messages.GetTile) {
	t, ok := g.world.Get(req.Coord)
	if !ok {
		ctx.Respond(&messages.TileReply{})
		return
	}
	ctx.Respond(&messages.TileReply{ID: t.ID, Modifier: t.Modifier, Ok: true})
}

func (h *GameHandler) HandleGetTileEntity(ctx actor.Context, g *GameActor, req *messages.GetTileEntity) {
	t, ok := g.live(ctx, req.Coord)
	if !ok {
		ctx.Respond(&messages.TileEntityReply{})
		return
	}
	ctx.Respond(&messages.TileEntityReply{PID: t.PID, Ok: true})
}

func (h *GameHandler) HandleSendMsgToTile(ctx actor.Context, g *GameActor, req *messages.SendMsgToTile) {
	t, ok := g.live(ctx, req.Coord)
	if !ok || req.Msg == nil {
		ctx.Respond(&messages.TileAbsent{Coord: req.Coord})
		return
	}
	if _, query := req.Msg.(messages.TileQuery); query {
		ctx.RequestWithCustomSender(t.PID, req.Msg, ctx.Sender())
		return
	}
	ctx.Send(t.PID, req.Msg)
	ctx.Respond(&messages.Delivered{Ok: true})
}

func (h *GameHandler) HandleLinkTiles(ctx actor.Context, g *GameActor, req *messages.LinkTiles) {
	t, ok := g.live(ctx, req.From)
	if !ok {
		ctx.Respond(&messages.TileAbsent{Coord: req.From})
		return
	}
	ctx.RequestWithCustomSender(t.PID, &messages.ToggleLink{Link: req.To.Sub(req.From)}, ctx.Sender())
}

func (h *GameHandler) HandlePopulate(ctx actor.Context, g *GameActor, req *messages.Populate) {
	ctx.Respond(&messages.PopulateReply{Spawned: g.populate(ctx, req.Chunk)})
}

func (h *GameHandler) HandleStep(ctx actor.Context, g *GameActor, _ *messages.Step) {
	g.step(ctx, ctx.Sender())
}

func (h *GameHandler) HandleStartTicking(ctx actor.Context, g *GameActor, req *messages.StartTicking) {
	every := req.Interval
	if every <= 0 {
		every = g.opts.TickInterval
	}
	if every <= 0 {
		ctx.Respond(&messages.TickingReply{Running: g.ticking(), Interval: g.interval})
		return
	}
	g.stopTicker()
	g.startTicker(ctx, every)
	ctx.Respond(&messages.TickingReply{Running: true, Interval: every})
}

func (h *GameHandler) HandleStopTicking(ctx actor.Context, g *GameActor, _ *messages.StopTicking) {
	g.stopTicker()
	g.timerPending = false
	ctx.Respond(&messages.TickingReply{Running: false, Interval: g.interval})
}

func (h *GameHandler) HandleRenderInfo(ctx actor.Context, g *GameActor, req *messages.RenderInfoRequest) {
	ctx.Respond(&messages.RenderInfoReply{Info: g.world.RenderSnapshot(req.Bounds, g.reg)})
}

func (h *GameHandler) HandleTransactions(ctx actor.Context, g *GameActor, _ *messages.GetRecordedTransactions) {
	ctx.Respond(&messages.TransactionsReply{Log: g.transactions})
}

func (h *GameHandler) HandleMapInfo(ctx actor.Context, g *GameActor, _ *messages.GetMapInfo) {
	ctx.Respond(&messages.MapInfoReply{Info: g.mapInfo(), Name: g.world.Name})
}

func (h *GameHandler) HandleListMaps(ctx actor.Context, g *GameActor, _ *messages.ListMaps) {
	maps, err := g.listMaps()
	ctx.Respond(&messages.ListMapsReply{Maps: maps, Err: err})
}

func (h *GameHandler) HandleLoadMap(ctx actor.Context, g *GameActor, req *messages.LoadMap) {
	info, err := g.loadMap(ctx, req.Name)
	if err != nil {
		g.logger.Error("map load failed", zap.String("map", req.Name), zap.Error(err))
	}
	ctx.Respond(&messages.LoadMapReply{Info: info, Err: err})
}

func (h *GameHandler) HandleSaveMap(ctx actor.Context, g *GameActor, req *messages.SaveMap) {
	info, err := g.saveMap(ctx, req.Name)
	if err != nil {
		g.logger.Error("map save failed", zap.String("map", g.world.Name), zap.Error(err))
	}
	ctx.Respond(&messages.SaveMapReply{Info: info, Err: err})
}

func (h *GameHandler) HandleTakeDataMap(ctx actor.Context, g *GameActor, _ *messages.TakeDataMap) {
	d := g.world.Data
	g.world.Data = data.DataMap{}
	ctx.Respond(&messages.DataMapReply{Data: d})
}

func (h *GameHandler) HandleSetDataMap(ctx actor.Context, g *GameActor, req *messages.SetDataMap) {
	d := req.Data.Clone()
	if d == nil {
		d = data.DataMap{}
	}
	g.world.Data = d
	ctx.Respond(&messages.Delivered{Ok: true})
}

func (h *GameHandler) HandleDrain(ctx actor.Context, g *GameActor, _ *messages.Drain) {
	g.drain(ctx, ctx.Sender())
}

func fail(reason string) *messages.FailResp {
	return &messages.FailResp{Code: "FAILED", Message: reason}
}

func stopped() *messages.FailResp {
	return &messages.FailResp{Code: string(errs.CodeGameStopped), Message: errs.ErrGameStopped.Msg()}
}
