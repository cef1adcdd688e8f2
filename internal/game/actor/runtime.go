package actor

import (
	"Automancy/internal/game/actors"
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/entity"
	"Automancy/internal/game/errs"
	"Automancy/internal/game/id"
	"Automancy/internal/game/resource"
	"Automancy/internal/shared/actor/messages"
	"Automancy/internal/shared/transport"
	"Automancy/modules/kit/errx"
	"context"
	"errors"
	"sync"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = actors.DefaultAskTimeout

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime is the only way callers outside the actor system talk to the game.
// Every call is an ask bounded by the caller's deadline and the configured
// ask timeout, whichever is sooner.
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	game    *protoactor.PID
	reg     *resource.Registry
	timeout time.Duration

	shutdown sync.Once
}

func NewRuntime(opts actors.Options) *Runtime {
	if opts.AskTimeout <= 0 {
		opts.AskTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	game := root.Spawn(actors.Props(opts))

	return &Runtime{
		system:  system,
		root:    root,
		game:    game,
		reg:     opts.Registry,
		timeout: opts.AskTimeout,
	}
}

func (r *Runtime) Registry() *resource.Registry { return r.reg }

// Shutdown stops ticking, saves the running map, drains every tile and stops
// the actor system. The save is bounded by ctx; the rest always runs.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errList []error
	r.shutdown.Do(func() {
		if _, err := r.StopTicking(ctx); err != nil {
			errList = append(errList, err)
		}
		if _, err := r.SaveMap(ctx, ""); err != nil {
			errList = append(errList, err)
		}
		if _, err := ask[*messages.DrainReply](context.Background(), r, &messages.Drain{}); err != nil {
			errList = append(errList, err)
		}
		if r.root != nil && r.game != nil {
			_ = r.root.PoisonFuture(r.game).Wait()
		}
		if r.system != nil {
			r.system.Shutdown()
		}
	})
	return errors.Join(errList...)
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime not initialized"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid is nil"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		if errors.Is(err, protoactor.ErrTimeout) {
			return nil, &RuntimeError{
				Code:    transport.Timeout,
				Message: "actor request timed out",
				Cause:   errx.ErrTimeout.WithCause(err),
			}
		}
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor request failed",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// ask sends msg to the coordinator and expects a reply of type T.
func ask[T any](ctx context.Context, r *Runtime, msg any) (T, error) {
	var zero T
	if r == nil {
		return zero, &RuntimeError{Code: transport.SystemError, Message: "actor runtime not initialized"}
	}
	res, err := r.request(r.game, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return zero, err
	}
	return expect[T](res)
}

func expect[T any](res any) (T, error) {
	var zero T
	if f, ok := res.(*messages.FailResp); ok {
		return zero, failure(f)
	}
	out, ok := res.(T)
	if !ok {
		return zero, &RuntimeError{Code: transport.SystemError, Message: "unexpected actor reply type"}
	}
	return out, nil
}

func failure(f *messages.FailResp) *RuntimeError {
	code := transport.SystemError
	if errx.Code(f.Code) == errs.CodeGameStopped {
		code = transport.Conflict
	}
	return &RuntimeError{Code: code, Message: f.Message}
}

func fromReply(msg string, err error) error {
	if err == nil {
		return nil
	}
	return &RuntimeError{Code: transport.SystemError, Message: msg, Cause: err}
}

// askTile routes a tile message through the coordinator. ok is false when no
// live tile is at c, including one that stopped before it could answer.
func (r *Runtime) askTile(ctx context.Context, c coord.TileCoord, msg any) (any, bool, error) {
	res, err := r.request(r.game, &messages.SendMsgToTile{Coord: c, Msg: msg}, r.timeoutFromContext(ctx))
	if err != nil {
		var re *RuntimeError
		if errors.As(err, &re) && errors.Is(re.Cause, protoactor.ErrDeadLetter) {
			return nil, false, nil
		}
		return nil, false, err
	}
	switch v := res.(type) {
	case *messages.TileAbsent:
		return nil, false, nil
	case *messages.FailResp:
		return nil, false, failure(v)
	}
	return res, true, nil
}

func (r *Runtime) PlaceTile(ctx context.Context, c coord.TileCoord, tileID id.Id, modifier int32, record bool, d data.DataMap) (messages.PlaceResult, error) {
	reply, err := ask[*messages.PlaceTileReply](ctx, r, &messages.PlaceTile{
		Coord: c, ID: tileID, Modifier: modifier, Record: record, Data: d,
	})
	if err != nil {
		return messages.Ignored, err
	}
	return reply.Result, nil
}

func (r *Runtime) GetTile(ctx context.Context, c coord.TileCoord) (id.Id, int32, bool, error) {
	reply, err := ask[*messages.TileReply](ctx, r, &messages.GetTile{Coord: c})
	if err != nil {
		return 0, 0, false, err
	}
	return reply.ID, reply.Modifier, reply.Ok, nil
}

func (r *Runtime) GetTileEntity(ctx context.Context, c coord.TileCoord) (*protoactor.PID, bool, error) {
	reply, err := ask[*messages.TileEntityReply](ctx, r, &messages.GetTileEntity{Coord: c})
	if err != nil {
		return nil, false, err
	}
	return reply.PID, reply.Ok, nil
}

func (r *Runtime) TileData(ctx context.Context, c coord.TileCoord) (data.DataMap, bool, error) {
	res, ok, err := r.askTile(ctx, c, &messages.GetData{})
	if err != nil || !ok {
		return nil, false, err
	}
	reply, err := expect[*messages.DataReply](res)
	if err != nil {
		return nil, false, err
	}
	return reply.Data, true, nil
}

// TileDataValue reports ok=false both for an absent tile and an unset key.
func (r *Runtime) TileDataValue(ctx context.Context, c coord.TileCoord, key id.Id) (data.Data, bool, error) {
	res, ok, err := r.askTile(ctx, c, &messages.GetDataValue{Key: key})
	if err != nil || !ok {
		return nil, false, err
	}
	reply, err := expect[*messages.DataValueReply](res)
	if err != nil {
		return nil, false, err
	}
	return reply.Value, reply.Ok, nil
}

func (r *Runtime) SetTileData(ctx context.Context, c coord.TileCoord, key id.Id, v data.Data) (bool, error) {
	if v == nil {
		return r.RemoveTileData(ctx, c, key)
	}
	_, ok, err := r.askTile(ctx, c, &messages.SetDataValue{Key: key, Value: v.Clone()})
	return ok, err
}

func (r *Runtime) RemoveTileData(ctx context.Context, c coord.TileCoord, key id.Id) (bool, error) {
	_, ok, err := r.askTile(ctx, c, &messages.RemoveData{Key: key})
	return ok, err
}

// ToggleLink links the tile at from to to, or unlinks it when already linked.
func (r *Runtime) ToggleLink(ctx context.Context, from, to coord.TileCoord) (linked, ok bool, err error) {
	res, err := r.request(r.game, &messages.LinkTiles{From: from, To: to}, r.timeoutFromContext(ctx))
	if err != nil {
		var re *RuntimeError
		if errors.As(err, &re) && errors.Is(re.Cause, protoactor.ErrDeadLetter) {
			return false, false, nil
		}
		return false, false, err
	}
	if _, absent := res.(*messages.TileAbsent); absent {
		return false, false, nil
	}
	reply, err := expect[*messages.LinkReply](res)
	if err != nil {
		return false, false, err
	}
	return reply.Linked, true, nil
}

func (r *Runtime) MoveTiles(ctx context.Context, coords []coord.TileCoord, offset coord.TileCoord, record bool) (int, error) {
	reply, err := ask[*messages.MoveTilesReply](ctx, r, &messages.MoveTiles{Coords: coords, Offset: offset, Record: record})
	if err != nil {
		return 0, err
	}
	return reply.Moved, nil
}

func (r *Runtime) Undo(ctx context.Context) (bool, error) {
	reply, err := ask[*messages.UndoReply](ctx, r, &messages.Undo{})
	if err != nil {
		return false, err
	}
	return reply.Applied, nil
}

// Step runs one tick and waits for it to complete.
func (r *Runtime) Step(ctx context.Context) (messages.StepReply, error) {
	reply, err := ask[*messages.StepReply](ctx, r, &messages.Step{})
	if err != nil {
		return messages.StepReply{}, err
	}
	return *reply, nil
}

func (r *Runtime) StartTicking(ctx context.Context, interval time.Duration) (messages.TickingReply, error) {
	reply, err := ask[*messages.TickingReply](ctx, r, &messages.StartTicking{Interval: interval})
	if err != nil {
		return messages.TickingReply{}, err
	}
	return *reply, nil
}

func (r *Runtime) StopTicking(ctx context.Context) (messages.TickingReply, error) {
	reply, err := ask[*messages.TickingReply](ctx, r, &messages.StopTicking{})
	if err != nil {
		return messages.TickingReply{}, err
	}
	return *reply, nil
}

func (r *Runtime) RenderInfo(ctx context.Context, bounds coord.TileBounds) (entity.MapRenderInfo, error) {
	reply, err := ask[*messages.RenderInfoReply](ctx, r, &messages.RenderInfoRequest{Bounds: bounds})
	if err != nil {
		return entity.MapRenderInfo{}, err
	}
	return reply.Info, nil
}

// Transactions returns the live log. It is safe for concurrent use.
func (r *Runtime) Transactions(ctx context.Context) (*entity.TransactionLog, error) {
	reply, err := ask[*messages.TransactionsReply](ctx, r, &messages.GetRecordedTransactions{})
	if err != nil {
		return nil, err
	}
	return reply.Log, nil
}

func (r *Runtime) MapInfo(ctx context.Context) (entity.MapInfo, error) {
	reply, err := ask[*messages.MapInfoReply](ctx, r, &messages.GetMapInfo{})
	if err != nil {
		return entity.MapInfo{}, err
	}
	return reply.Info, nil
}

func (r *Runtime) ListMaps(ctx context.Context) ([]entity.MapInfo, error) {
	reply, err := ask[*messages.ListMapsReply](ctx, r, &messages.ListMaps{})
	if err != nil {
		return nil, err
	}
	return reply.Maps, fromReply("list maps", reply.Err)
}

func (r *Runtime) LoadMap(ctx context.Context, name string) (entity.MapInfo, error) {
	reply, err := ask[*messages.LoadMapReply](ctx, r, &messages.LoadMap{Name: name})
	if err != nil {
		return entity.MapInfo{}, err
	}
	return reply.Info, fromReply("load map", reply.Err)
}

// SaveMap writes the running map, under name when it is not empty.
func (r *Runtime) SaveMap(ctx context.Context, name string) (entity.MapInfo, error) {
	reply, err := ask[*messages.SaveMapReply](ctx, r, &messages.SaveMap{Name: name})
	if err != nil {
		return entity.MapInfo{}, err
	}
	return reply.Info, fromReply("save map", reply.Err)
}

func (r *Runtime) Populate(ctx context.Context, chunk coord.ChunkCoord) (int, error) {
	reply, err := ask[*messages.PopulateReply](ctx, r, &messages.Populate{Chunk: chunk})
	if err != nil {
		return 0, err
	}
	return reply.Spawned, nil
}

func (r *Runtime) TakeDataMap(ctx context.Context) (data.DataMap, error) {
	reply, err := ask[*messages.DataMapReply](ctx, r, &messages.TakeDataMap{})
	if err != nil {
		return nil, err
	}
	return reply.Data, nil
}

func (r *Runtime) SetDataMap(ctx context.Context, d data.DataMap) error {
	_, err := ask[*messages.Delivered](ctx, r, &messages.SetDataMap{Data: d})
	return err
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
