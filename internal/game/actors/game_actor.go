package actors

import (
	"Automancy/internal/game/app/port"
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/entity"
	"Automancy/internal/game/metrics"
	"Automancy/internal/game/resource"
	"Automancy/internal/shared/actor/messages"
	"Automancy/modules/kit/logx"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Init
	Online
	Draining
	Stopping
	Offline
)

const (
	DefaultAskTimeout = 3 * time.Second
	DefaultUndoLimit  = 256
)

// Options configures a GameActor. Registry is required.
type Options struct {
	Registry   *resource.Registry
	Repository port.MapRepository
	Logger     logx.Logger
	Metrics    *metrics.Game

	// TickInterval drives automatic ticks; zero means Step only.
	TickInterval time.Duration
	// MaxTickDuration is the budget a tick may use before a warning is logged.
	MaxTickDuration time.Duration
	// AskTimeout bounds every wait on a tile, including a whole tick.
	AskTimeout time.Duration
	UndoLimit  int
	// TransactionsPerKey caps each render log queue; negative means no cap.
	TransactionsPerKey int
	// MapName is loaded on start when a repository is set.
	MapName string
	// LazyPopulate keeps loaded tiles dormant until their chunk is populated.
	LazyPopulate bool
	StartTick    uint64
	Now          func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logx.Nop()
	}
	if o.AskTimeout <= 0 {
		o.AskTimeout = DefaultAskTimeout
	}
	if o.UndoLimit == 0 {
		o.UndoLimit = DefaultUndoLimit
	}
	if o.TransactionsPerKey == 0 {
		o.TransactionsPerKey = entity.DefaultTransactionsPerKey
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// GameActor is the coordinator. It owns the map and is the parent of every
// tile actor; all placement, ticking and persistence goes through its mailbox.
type GameActor struct {
	state      State
	opts       Options
	reg        *resource.Registry
	repo       port.MapRepository
	logger     logx.Logger
	metrics    *metrics.Game
	dispatcher *Dispatcher

	world        *entity.Map
	history      *entity.History
	transactions *entity.TransactionLog
	savedAt      time.Time

	tickCount    uint64
	gen          uint64
	run          *tickRun
	pendingSteps []*actor.PID
	timerPending bool
	seq          uint64
	transfers    map[uint64]*transfer

	interval time.Duration
	tickStop chan struct{}

	// stopping holds actors stopped on purpose, by PID id.
	stopping     map[string]struct{}
	drainPending map[string]struct{}
	drainWaiters []*actor.PID
	drained      int
}

func NewGameActor(opts Options) *GameActor {
	opts = opts.withDefaults()
	return &GameActor{
		state:        None,
		opts:         opts,
		reg:          opts.Registry,
		repo:         opts.Repository,
		logger:       opts.Logger.With(zap.String("component", "game")),
		metrics:      opts.Metrics,
		dispatcher:   NewDispatcher(),
		history:      entity.NewHistory(opts.UndoLimit),
		transactions: entity.NewTransactionLog(opts.TransactionsPerKey),
		tickCount:    opts.StartTick,
		transfers:    make(map[uint64]*transfer),
		stopping:     make(map[string]struct{}),
	}
}

// TileSupervisor stops a tile that panics instead of restarting it, so the
// coordinator sees Terminated and treats the tile as gone.
func TileSupervisor() actor.SupervisorStrategy {
	return actor.NewOneForOneStrategy(0, 0, func(reason any) actor.Directive {
		return actor.StopDirective
	})
}

// Props builds the coordinator's props with the tile supervisor attached.
func Props(opts Options) *actor.Props {
	return actor.PropsFromProducer(func() actor.Actor {
		return NewGameActor(opts)
	}, actor.WithSupervisor(TileSupervisor()))
}

func (g *GameActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		g.state = Init
		g.init(ctx)
		return
	case *actor.Stopping:
		g.stopTicker()
		g.state = Stopping
		return
	case *actor.Stopped:
		g.stopTicker()
		g.state = Offline
		return
	case *actor.Restarting:
		g.stopTicker()
		g.state = Init
		return
	case *actor.Terminated:
		g.onTerminated(ctx, msg.Who)
		return
	case *actor.DeadLetterResponse:
		g.forget(ctx, msg.Target, "absent")
		return
	case tickTimer:
		g.onTimer(ctx)
		return
	case tickDeadline:
		g.onDeadline(ctx, msg)
		return
	case *messages.Ticked:
		g.onTicked(ctx, msg)
		return
	case *messages.TransactionResult:
		g.onResult(ctx, msg)
		return
	case *messages.TransactionRejected:
		g.onRejected(ctx, msg)
		return
	case *messages.ExtractReply:
		g.onExtractReply(ctx, msg)
		return
	}

	req := ctx.Message()
	if !g.dispatcher.Handles(req) {
		return
	}
	if g.state != Online {
		ctx.Respond(stopped())
		return
	}
	g.dispatcher.Dispatch(ctx, g, req)
}

func (g *GameActor) init(ctx actor.Context) {
	g.world = entity.NewMap(g.opts.MapName)
	if g.opts.MapName != "" && g.repo != nil {
		if _, err := g.loadMap(ctx, g.opts.MapName); err != nil {
			g.logger.Error("initial map load failed, starting empty",
				zap.String("map", g.opts.MapName), zap.Error(err))
		}
	}
	g.state = Online
	if g.opts.TickInterval > 0 {
		g.startTicker(ctx, g.opts.TickInterval)
	}
	g.logger.Info("game online",
		zap.String("map", g.world.Name),
		zap.Int("tiles", g.world.Len()),
		zap.Duration("tick_interval", g.opts.TickInterval))
}

func (g *GameActor) now() time.Time { return g.opts.Now() }

func (g *GameActor) State() State { return g.state }

func (g *GameActor) World() *entity.Map { return g.world }

func (g *GameActor) liveChanged() {
	g.metrics.SetLiveTiles(g.world.LiveCount())
}

// spawn starts a tile actor. The state cell is seeded before the actor runs
// so snapshots taken right after placement already see the tile.
func (g *GameActor) spawn(ctx actor.Context, c coord.TileCoord, def resource.TileDef, modifier int32, d data.DataMap) *entity.Tile {
	d = d.Clone()
	if d == nil {
		d = data.DataMap{}
	}
	cell := entity.NewStateCell(&entity.TileState{ID: def.ID, Modifier: modifier, Data: d.Clone()})
	reg := g.reg
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewTileActor(c, def, modifier, d, cell, reg)
	})
	pid := ctx.Spawn(props)
	return &entity.Tile{ID: def.ID, Modifier: modifier, PID: pid, State: cell}
}

// put spawns r at its coordinate. A record of an unknown type stays dormant.
func (g *GameActor) put(ctx actor.Context, r entity.TileRecord) {
	def, ok := g.reg.Tile(r.ID)
	if !ok || r.ID == g.reg.IDs.None {
		g.world.Insert(r.Coord, entity.NewDormant(r))
		return
	}
	g.world.Insert(r.Coord, g.spawn(ctx, r.Coord, def, r.Modifier, r.Data))
}

// stopTile tombstones t and poisons its actor. Queries already queued are
// answered before the actor stops.
func (g *GameActor) stopTile(ctx actor.Context, t *entity.Tile) {
	if !t.Live() {
		return
	}
	pid := t.PID
	g.stopping[pid.Id] = struct{}{}
	ctx.Send(pid, &messages.Tombstone{})
	ctx.Poison(pid)
	t.PID = nil
}

func (g *GameActor) removeAt(ctx actor.Context, c coord.TileCoord) {
	if t, ok := g.world.Remove(c); ok {
		g.stopTile(ctx, t)
	}
}

// live returns the tile at c with a running actor, populating its chunk
// first when tiles are loaded lazily.
func (g *GameActor) live(ctx actor.Context, c coord.TileCoord) (*entity.Tile, bool) {
	t, ok := g.world.Get(c)
	if !ok {
		return nil, false
	}
	if !t.Live() && g.opts.LazyPopulate && !g.world.Populated(c.Chunk()) {
		g.populate(ctx, c.Chunk())
		t, ok = g.world.Get(c)
	}
	return t, ok && t.Live()
}

func (g *GameActor) populate(ctx actor.Context, chunk coord.ChunkCoord) int {
	spawned := 0
	for _, c := range g.world.Dormant(chunk) {
		t, _ := g.world.Get(c)
		def, ok := g.reg.Tile(t.ID)
		if !ok {
			continue
		}
		rec := t.Record(c)
		g.world.Insert(c, g.spawn(ctx, c, def, rec.Modifier, rec.Data))
		spawned++
	}
	g.world.MarkPopulated(chunk)
	if spawned > 0 {
		g.liveChanged()
	}
	return spawned
}

// record captures the tile at c, asking its actor for current data so a
// write still in its mailbox is not lost.
func (g *GameActor) record(ctx actor.Context, c coord.TileCoord, t *entity.Tile) entity.TileRecord {
	rec := t.Record(c)
	if !t.Live() {
		return rec
	}
	res, err := ctx.RequestFuture(t.PID, &messages.GetData{}, g.opts.AskTimeout).Result()
	if err != nil {
		g.logger.Warn("tile did not answer, using published state",
			zap.Stringer("coord", c), zap.Error(err))
		return rec
	}
	if reply, ok := res.(*messages.DataReply); ok {
		rec.Data = reply.Data
	}
	return rec
}

func (g *GameActor) onTerminated(ctx actor.Context, who *actor.PID) {
	if who == nil {
		return
	}
	if _, ok := g.stopping[who.Id]; ok {
		delete(g.stopping, who.Id)
	} else if c, t, ok := g.world.Find(who.Id); ok {
		t.PID = nil
		g.logger.Error("tile actor stopped unexpectedly",
			zap.Stringer("coord", c), zap.String("tile", g.reg.Name(t.ID)))
		g.liveChanged()
	}
	g.forget(ctx, who, "terminated")

	if _, ok := g.drainPending[who.Id]; ok {
		delete(g.drainPending, who.Id)
		g.drained++
		g.finishDrain(ctx)
	}
}

func (g *GameActor) startTicker(ctx actor.Context, every time.Duration) {
	if g.tickStop != nil {
		return
	}
	g.interval = every
	g.tickStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, tickTimer{})
			case <-stop:
				return
			}
		}
	}(g.tickStop, every)
}

func (g *GameActor) stopTicker() {
	if g.tickStop == nil {
		return
	}
	close(g.tickStop)
	g.tickStop = nil
}

func (g *GameActor) ticking() bool { return g.tickStop != nil }
