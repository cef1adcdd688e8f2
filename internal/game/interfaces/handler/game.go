package handler

import (
	"Automancy/internal/game/actor"
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/id"
	"Automancy/internal/game/interfaces/handler/dto"
	"Automancy/internal/game/resource"
	"Automancy/internal/shared/actor/messages"
	"Automancy/internal/shared/transport"
	"Automancy/modules/kit/errx"
	"Automancy/modules/kit/logx"
	"context"
	"errors"
	"time"
)

// Game is what the HTTP and websocket handlers share: the runtime and the
// conversions between wire names and interned ids.
type Game struct {
	Runtime        *actor.Runtime
	Registry       *resource.Registry
	TransactionTTL time.Duration
	Log            logx.Logger
	Now            func() time.Time
}

func NewGame(rt *actor.Runtime, ttl time.Duration, l logx.Logger) *Game {
	if l == nil {
		l = logx.Nop()
	}
	return &Game{
		Runtime:        rt,
		Registry:       rt.Registry(),
		TransactionTTL: ttl,
		Log:            l,
		Now:            time.Now,
	}
}

// TileID resolves name to a registered tile type.
func (g *Game) TileID(name string) (id.Id, bool) {
	i, ok := g.Registry.Interner.Get(name)
	if !ok {
		return 0, false
	}
	_, ok = g.Registry.Tile(i)
	return i, ok
}

// Key resolves a data key; it never interns new names.
func (g *Game) Key(name string) (id.Id, bool) {
	return g.Registry.Interner.Get(name)
}

func (g *Game) DataFromRaw(raw data.DataMapRaw) data.DataMap {
	if len(raw) == 0 {
		return nil
	}
	return raw.FromRaw(g.Registry.Interner)
}

func (g *Game) DataToRaw(d data.DataMap) data.DataMapRaw {
	if len(d) == 0 {
		return nil
	}
	return d.ToRaw(g.Registry.Interner)
}

// Place resolves req and places it at c. ok is false when the tile type is
// unknown.
func (g *Game) Place(ctx context.Context, c coord.TileCoord, req dto.TileReq) (dto.PlaceResp, bool, error) {
	tileID, ok := g.TileID(req.ID)
	if !ok {
		return dto.PlaceResp{}, false, nil
	}
	record := req.Record == nil || *req.Record
	res, err := g.Runtime.PlaceTile(ctx, c, tileID, req.Modifier, record, g.DataFromRaw(req.Data))
	if err != nil {
		return dto.PlaceResp{}, true, err
	}
	return dto.PlaceResp{Result: res.String()}, true, nil
}

func (g *Game) Tile(ctx context.Context, c coord.TileCoord) (dto.TileResp, bool, error) {
	tileID, modifier, ok, err := g.Runtime.GetTile(ctx, c)
	if err != nil || !ok {
		return dto.TileResp{}, false, err
	}
	resp := dto.TileResp{Coord: c, ID: g.Registry.Name(tileID), Modifier: modifier}
	d, ok, err := g.Runtime.TileData(ctx, c)
	if err != nil {
		return dto.TileResp{}, false, err
	}
	if ok {
		resp.Data = g.DataToRaw(d)
	}
	return resp, true, nil
}

func (g *Game) Step(ctx context.Context) (dto.StepResp, error) {
	reply, err := g.Runtime.Step(ctx)
	if err != nil {
		return dto.StepResp{}, err
	}
	return StepResp(reply), nil
}

func StepResp(r messages.StepReply) dto.StepResp {
	return dto.StepResp{Count: r.Count, DurationMs: float64(r.Duration) / float64(time.Millisecond)}
}

func TickingResp(r messages.TickingReply) dto.TickingResp {
	return dto.TickingResp{Running: r.Running, IntervalMs: r.Interval.Milliseconds()}
}

// Transactions prunes records older than the configured ttl and returns the
// rest, oldest first within each source and destination pair.
func (g *Game) Transactions(ctx context.Context) ([]dto.Transaction, error) {
	log, err := g.Runtime.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	if g.TransactionTTL > 0 {
		log.Prune(g.Now(), g.TransactionTTL)
	}
	entries := log.Entries()
	out := make([]dto.Transaction, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.Transaction{
			Source:      e.Source,
			Destination: e.Destination,
			Item:        g.Registry.Name(e.Stack.ID),
			Amount:      e.Stack.Amount,
			At:          e.At,
		})
	}
	return out, nil
}

func (g *Game) Frame(ctx context.Context, bounds coord.TileBounds) (dto.Frame, error) {
	info, err := g.Runtime.RenderInfo(ctx, bounds)
	if err != nil {
		return dto.Frame{}, err
	}
	txs, err := g.Transactions(ctx)
	if err != nil {
		return dto.Frame{}, err
	}
	return dto.Frame{Instances: info.Instances, Transactions: txs}, nil
}

// HandleError maps err to a client code and a message safe to show. Business
// errors keep their message; anything else is reported generically.
func HandleError(ctx context.Context, err error) (int, string) {
	code := actor.CodeFromError(err)
	var e *errx.Error
	if errors.As(err, &e) && e != nil {
		transport.SetErrorReason(ctx, e.CodeText())
		if !e.IsSystem() {
			return code, e.Msg()
		}
	}
	var re *actor.RuntimeError
	if errors.As(err, &re) && re.Code == transport.Conflict {
		return code, re.Message
	}
	if code == transport.Timeout {
		return code, "game did not answer in time"
	}
	return code, "internal error"
}
