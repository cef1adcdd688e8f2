package actors

import (
	"Automancy/internal/game/entity"
	"Automancy/internal/game/errs"
	"Automancy/internal/shared/actor/messages"
	"context"
	"strings"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

func (g *GameActor) repoContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), g.opts.AskTimeout)
}

func (g *GameActor) mapInfo() entity.MapInfo {
	return entity.MapInfo{Name: g.world.Name, TileCount: g.world.Len(), SavedAt: g.savedAt}
}

func (g *GameActor) listMaps() ([]entity.MapInfo, error) {
	if g.repo == nil {
		return nil, errs.ErrMapLoadFailed.WithData("reason", "no repository")
	}
	rctx, cancel := g.repoContext()
	defer cancel()
	maps, err := g.repo.ListMaps(rctx)
	if err != nil {
		return nil, errs.ErrMapLoadFailed.WithCause(err)
	}
	return maps, nil
}

// loadMap replaces the running map. A missing map loads as empty; only a
// failing repository leaves the current map in place.
func (g *GameActor) loadMap(ctx actor.Context, name string) (entity.MapInfo, error) {
	name = strings.TrimSpace(name)
	if g.repo == nil {
		return g.mapInfo(), errs.ErrMapLoadFailed.WithData("reason", "no repository")
	}
	rctx, cancel := g.repoContext()
	snap, err := g.repo.LoadMap(rctx, name)
	cancel()
	if err != nil {
		return g.mapInfo(), errs.ErrMapLoadFailed.WithCause(err).WithData("map", name)
	}

	g.abortTick(ctx, "map replaced")
	g.clearWorld(ctx)
	g.install(ctx, snap)
	g.logger.Info("map loaded",
		zap.String("map", g.world.Name),
		zap.Int("tiles", g.world.Len()),
		zap.Int("live", g.world.LiveCount()))
	g.next(ctx)
	return g.mapInfo(), nil
}

func (g *GameActor) clearWorld(ctx actor.Context) {
	if g.world != nil {
		for _, c := range g.world.Live() {
			t, _ := g.world.Get(c)
			g.stopTile(ctx, t)
		}
	}
	g.history.Clear()
	g.transactions.Clear()
	g.clearTransfers()
}

func (g *GameActor) install(ctx actor.Context, snap *entity.MapSnapshot) {
	w := entity.NewMap(snap.Name)
	if snap.Data != nil {
		w.Data = snap.Data.Clone()
	}
	g.world = w
	g.savedAt = snap.SavedAt

	dropped := 0
	for _, r := range snap.Tiles {
		def, ok := g.reg.Tile(r.ID)
		if !ok || r.ID == g.reg.IDs.None {
			dropped++
			continue
		}
		if g.opts.LazyPopulate {
			w.Insert(r.Coord, entity.NewDormant(r))
			continue
		}
		w.Insert(r.Coord, g.spawn(ctx, r.Coord, def, r.Modifier, r.Data))
		w.MarkPopulated(r.Coord.Chunk())
	}
	if dropped > 0 {
		g.logger.Warn("dropped tiles of unknown type", zap.String("map", snap.Name), zap.Int("count", dropped))
	}
	g.liveChanged()
}

func (g *GameActor) saveMap(ctx actor.Context, name string) (entity.MapInfo, error) {
	snap := g.snapshot(ctx, strings.TrimSpace(name))
	if g.repo == nil {
		return snap.Info(), errs.ErrMapSaveFailed.WithData("reason", "no repository")
	}
	rctx, cancel := g.repoContext()
	defer cancel()
	info, err := g.repo.SaveMap(rctx, snap)
	if err != nil {
		return snap.Info(), errs.ErrMapSaveFailed.WithCause(err).WithData("map", snap.Name)
	}
	if snap.Name == g.world.Name {
		g.savedAt = info.SavedAt
	}
	return info, nil
}

// snapshot asks every live tile for its data before capturing the map, so
// writes still queued in tile mailboxes are included. Tiles that do not
// answer in time fall back to their published state.
func (g *GameActor) snapshot(ctx actor.Context, name string) *entity.MapSnapshot {
	snap := g.world.Snapshot(g.now())
	if name != "" {
		snap.Name = name
	}
	futures := make(map[int]*actor.Future)
	for i, r := range snap.Tiles {
		if t, ok := g.world.Get(r.Coord); ok && t.Live() {
			futures[i] = ctx.RequestFuture(t.PID, &messages.GetData{}, g.opts.AskTimeout)
		}
	}
	for i, f := range futures {
		res, err := f.Result()
		if err != nil {
			g.logger.Warn("tile did not answer snapshot", zap.Stringer("coord", snap.Tiles[i].Coord), zap.Error(err))
			continue
		}
		if reply, ok := res.(*messages.DataReply); ok {
			snap.Tiles[i].Data = reply.Data
		}
	}
	return snap
}

// drain tombstones and stops every tile. The reply is sent once the last
// one has terminated; the map itself keeps the tiles as dormant records.
func (g *GameActor) drain(ctx actor.Context, waiter *actor.PID) {
	g.drainWaiters = append(g.drainWaiters, waiter)
	g.state = Draining
	g.stopTicker()
	g.abortTick(ctx, "draining")
	for _, w := range g.pendingSteps {
		if w != nil {
			ctx.Send(w, stopped())
		}
	}
	g.pendingSteps = nil
	g.timerPending = false

	g.drainPending = make(map[string]struct{})
	g.drained = 0
	for _, c := range g.world.Live() {
		t, _ := g.world.Get(c)
		g.drainPending[t.PID.Id] = struct{}{}
		g.stopTile(ctx, t)
	}
	g.clearTransfers()
	g.liveChanged()
	g.finishDrain(ctx)
}

func (g *GameActor) finishDrain(ctx actor.Context) {
	if g.state != Draining || len(g.drainPending) > 0 {
		return
	}
	for _, w := range g.drainWaiters {
		if w != nil {
			ctx.Send(w, &messages.DrainReply{Stopped: g.drained})
		}
	}
	g.drainWaiters = nil
	g.logger.Info("game drained", zap.Int("stopped", g.drained))
}
