package actors

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/entity"
	"Automancy/internal/shared/actor/messages"
	"slices"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type tickTimer struct{}

func (tickTimer) NotInfluenceReceiveTimeout() {}

type tickDeadline struct {
	gen uint64
}

func (tickDeadline) NotInfluenceReceiveTimeout() {}

type report struct {
	pid *actor.PID
	msg *messages.Ticked
}

// transfer is one item movement in flight. Direct offers come from a tile's
// Ticked reply; storage offers start as an extract and become an offer once
// the storage has reserved the unit.
type transfer struct {
	gen         uint64
	source      coord.TileCoord
	sourcePID   *actor.PID
	dest        coord.TileCoord
	destPID     *actor.PID
	stack       data.ItemStack
	fromStorage bool
	extracting  bool
}

// waiting is the actor the transfer is currently blocked on.
func (tr *transfer) waiting() *actor.PID {
	if tr.extracting {
		return tr.sourcePID
	}
	return tr.destPID
}

type tickRun struct {
	gen     uint64
	count   uint64
	started time.Time
	waiters []*actor.PID

	awaiting   map[coord.TileCoord]string
	reports    []report
	dispatched bool

	open       int
	extracting int
	extracted  []uint64
	timer      *time.Timer
}

func (g *GameActor) onTimer(ctx actor.Context) {
	if g.state != Online {
		return
	}
	if g.run != nil {
		g.timerPending = true
		return
	}
	g.startTick(ctx, nil)
}

func (g *GameActor) step(ctx actor.Context, waiter *actor.PID) {
	if g.run != nil {
		g.pendingSteps = append(g.pendingSteps, waiter)
		return
	}
	g.startTick(ctx, []*actor.PID{waiter})
}

func (g *GameActor) startTick(ctx actor.Context, waiters []*actor.PID) {
	g.gen++
	run := &tickRun{
		gen:      g.gen,
		count:    g.tickCount,
		started:  g.now(),
		waiters:  waiters,
		awaiting: make(map[coord.TileCoord]string),
	}
	g.run = run
	for _, c := range g.world.Live() {
		t, _ := g.world.Get(c)
		run.awaiting[c] = t.PID.Id
		ctx.Request(t.PID, &messages.Tick{Count: run.count})
	}
	g.advance(ctx)
	if g.run == run {
		self, root := ctx.Self(), ctx.ActorSystem().Root
		run.timer = time.AfterFunc(g.opts.AskTimeout, func() {
			root.Send(self, tickDeadline{gen: run.gen})
		})
	}
}

// advance moves the current tick forward once nothing blocks its phase.
func (g *GameActor) advance(ctx actor.Context) {
	run := g.run
	if run == nil {
		return
	}
	if !run.dispatched {
		if len(run.awaiting) > 0 {
			return
		}
		g.dispatch(ctx)
	}
	if run.extracting == 0 && len(run.extracted) > 0 {
		g.offerExtracted(ctx)
	}
	if run.open == 0 {
		g.complete(ctx, false)
	}
}

func (g *GameActor) onTicked(ctx actor.Context, msg *messages.Ticked) {
	run := g.run
	if run != nil && !run.dispatched && msg.Count == run.count {
		if pidID, ok := run.awaiting[msg.Coord]; ok {
			delete(run.awaiting, msg.Coord)
			if t, ok := g.world.Get(msg.Coord); ok && t.Live() && t.PID.Id == pidID {
				run.reports = append(run.reports, report{pid: t.PID, msg: msg})
			}
			g.advance(ctx)
			return
		}
	}
	// A late reply can still carry offers; release them so the tile offers again.
	if len(msg.Offers) == 0 {
		return
	}
	if t, ok := g.world.Get(msg.Coord); ok && t.Live() {
		ctx.Send(t.PID, &messages.TransactionRejected{Reason: "stale tick"})
	}
}

// dispatch sends every offer and extract in ascending source order. A
// destination handles offers in mailbox order, so the lowest source
// coordinate wins when capacity runs out.
func (g *GameActor) dispatch(ctx actor.Context) {
	run := g.run
	run.dispatched = true
	slices.SortFunc(run.reports, func(a, b report) int {
		return coord.Compare(a.msg.Coord, b.msg.Coord)
	})

	for _, rep := range run.reports {
		src := rep.msg.Coord
		for _, o := range rep.msg.Offers {
			dest, ok := g.acceptor(o.Destination)
			if !ok {
				ctx.Send(rep.pid, &messages.TransactionRejected{Reason: "no destination"})
				continue
			}
			g.seq++
			g.transfers[g.seq] = &transfer{
				gen: run.gen, source: src, sourcePID: rep.pid,
				dest: o.Destination, destPID: dest.PID, stack: o.Stack,
			}
			run.open++
			ctx.Request(dest.PID, &messages.TransactionOffer{
				Seq: g.seq, Source: src, Destination: o.Destination, Stack: o.Stack, Tick: run.count,
			})
		}
		for _, x := range rep.msg.Extracts {
			storage, ok := g.world.Get(x.From)
			if !ok || !storage.Live() {
				continue
			}
			g.seq++
			g.transfers[g.seq] = &transfer{
				gen: run.gen, source: x.From, sourcePID: storage.PID,
				dest: x.To, fromStorage: true, extracting: true,
			}
			run.open++
			run.extracting++
			ctx.Request(storage.PID, &messages.Extract{Seq: g.seq, Destination: x.To, Tick: run.count})
		}
	}
	run.reports = nil
}

// acceptor returns the live tile at c when its kind takes items.
func (g *GameActor) acceptor(c coord.TileCoord) (*entity.Tile, bool) {
	t, ok := g.world.Get(c)
	if !ok || !t.Live() {
		return nil, false
	}
	def, ok := g.reg.Tile(t.ID)
	if !ok || !def.Kind.AcceptsItems() {
		return nil, false
	}
	return t, true
}

func (g *GameActor) onExtractReply(ctx actor.Context, msg *messages.ExtractReply) {
	tr, ok := g.transfers[msg.Seq]
	if !ok || !tr.extracting {
		return
	}
	run := g.current(tr)
	if run != nil {
		run.extracting--
	}
	if !msg.Ok || run == nil {
		g.drop(ctx, msg.Seq, tr)
		return
	}
	tr.extracting = false
	tr.stack = msg.Stack
	run.extracted = append(run.extracted, msg.Seq)
	g.advance(ctx)
}

// offerExtracted turns reserved storage units into offers, in the order
// their extracts were dispatched.
func (g *GameActor) offerExtracted(ctx actor.Context) {
	run := g.run
	seqs := run.extracted
	run.extracted = nil
	slices.Sort(seqs)
	for _, seq := range seqs {
		tr, ok := g.transfers[seq]
		if !ok {
			continue
		}
		dest, ok := g.acceptor(tr.dest)
		if !ok || dest.PID.Equal(tr.sourcePID) {
			delete(g.transfers, seq)
			run.open--
			continue
		}
		tr.destPID = dest.PID
		ctx.Request(dest.PID, &messages.TransactionOffer{
			Seq: seq, Source: tr.source, Destination: tr.dest, Stack: tr.stack, Tick: run.count,
		})
	}
}

func (g *GameActor) onResult(ctx actor.Context, msg *messages.TransactionResult) {
	tr, ok := g.transfers[msg.Seq]
	if !ok || tr.extracting {
		return
	}
	if tr.fromStorage {
		ctx.Send(tr.sourcePID, &messages.ExtractDone{Destination: tr.dest, Stack: msg.Stack})
	} else {
		ctx.Send(tr.sourcePID, &messages.TransactionDone{Destination: tr.dest, Stack: msg.Stack})
	}
	if n := g.transactions.Record(entity.TransactionRecord{
		Source: tr.source, Destination: tr.dest, Stack: msg.Stack, At: g.now(),
	}); n > 0 {
		g.metrics.DropTransactions(n)
		if total := g.transactions.Dropped(); total == uint64(n) {
			g.logger.Warn("transaction log cap reached, oldest records evicted",
				zap.Stringer("source", tr.source), zap.Stringer("destination", tr.dest),
				zap.Int("per_key", g.opts.TransactionsPerKey))
		}
	}
	g.metrics.AddTransaction()
	g.drop(ctx, msg.Seq, tr)
}

func (g *GameActor) onRejected(ctx actor.Context, msg *messages.TransactionRejected) {
	tr, ok := g.transfers[msg.Seq]
	if !ok {
		return
	}
	g.reject(ctx, msg.Seq, tr, msg.Reason)
}

// reject tells a direct source its offer failed. Storage reservations lapse
// on their own at the next tick.
func (g *GameActor) reject(ctx actor.Context, seq uint64, tr *transfer, reason string) {
	if tr.extracting {
		if run := g.current(tr); run != nil {
			run.extracting--
		}
	} else if !tr.fromStorage {
		ctx.Send(tr.sourcePID, &messages.TransactionRejected{Seq: seq, Reason: reason})
	}
	g.drop(ctx, seq, tr)
}

func (g *GameActor) drop(ctx actor.Context, seq uint64, tr *transfer) {
	delete(g.transfers, seq)
	if run := g.current(tr); run != nil {
		run.open--
		g.advance(ctx)
	}
}

// current returns the running tick when tr belongs to it.
func (g *GameActor) current(tr *transfer) *tickRun {
	if g.run != nil && g.run.gen == tr.gen {
		return g.run
	}
	return nil
}

// forget settles everything blocked on an actor that is gone.
func (g *GameActor) forget(ctx actor.Context, pid *actor.PID, reason string) {
	if pid == nil {
		return
	}
	if run := g.run; run != nil && !run.dispatched {
		for c, id := range run.awaiting {
			if id == pid.Id {
				delete(run.awaiting, c)
			}
		}
	}
	seqs := make([]uint64, 0)
	for seq, tr := range g.transfers {
		if w := tr.waiting(); w != nil && w.Id == pid.Id {
			seqs = append(seqs, seq)
		}
	}
	slices.Sort(seqs)
	for _, seq := range seqs {
		if tr, ok := g.transfers[seq]; ok {
			g.reject(ctx, seq, tr, reason)
		}
	}
	g.advance(ctx)
}

func (g *GameActor) onDeadline(ctx actor.Context, msg tickDeadline) {
	run := g.run
	if run == nil || run.gen != msg.gen {
		return
	}
	g.logger.Warn("tick forced to complete",
		zap.Uint64("tick", run.count),
		zap.Int("unanswered", len(run.awaiting)),
		zap.Int("open_transfers", run.open))
	if !run.dispatched {
		run.awaiting = map[coord.TileCoord]string{}
		g.dispatch(ctx)
	}
	g.complete(ctx, true)
}

// complete closes the running tick. Transfers still open stay in flight and
// settle whenever their replies arrive.
func (g *GameActor) complete(ctx actor.Context, forced bool) {
	run := g.run
	g.run = nil
	if run.timer != nil {
		run.timer.Stop()
	}
	if forced {
		for _, seq := range run.extracted {
			delete(g.transfers, seq)
		}
	}

	d := g.now().Sub(run.started)
	overrun := g.opts.MaxTickDuration > 0 && d > g.opts.MaxTickDuration
	if overrun {
		g.logger.Warn("tick overran",
			zap.Uint64("tick", run.count),
			zap.Duration("duration", d),
			zap.Duration("max", g.opts.MaxTickDuration))
	}
	g.metrics.ObserveTick(d, overrun)
	g.tickCount = run.count + 1

	for _, w := range run.waiters {
		if w != nil {
			ctx.Send(w, &messages.StepReply{Count: g.tickCount, Duration: d})
		}
	}
	g.next(ctx)
}

// abortTick drops the running tick without completing it. Every tile is
// about to stop, so nothing in flight is worth settling.
func (g *GameActor) abortTick(ctx actor.Context, reason string) {
	run := g.run
	if run == nil {
		return
	}
	g.run = nil
	if run.timer != nil {
		run.timer.Stop()
	}
	for _, w := range run.waiters {
		if w != nil {
			ctx.Send(w, fail(reason))
		}
	}
}

func (g *GameActor) next(ctx actor.Context) {
	if g.state != Online {
		return
	}
	if len(g.pendingSteps) > 0 {
		w := g.pendingSteps[0]
		g.pendingSteps = g.pendingSteps[1:]
		g.startTick(ctx, []*actor.PID{w})
		return
	}
	if g.timerPending {
		g.timerPending = false
		g.startTick(ctx, nil)
	}
}

func (g *GameActor) clearTransfers() {
	clear(g.transfers)
}

// TickCount is the count the next tick will carry.
func (g *GameActor) TickCount() uint64 { return g.tickCount }
