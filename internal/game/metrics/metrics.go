// Package metrics exposes coordinator counters to prometheus. A nil *Game
// is valid and records nothing.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "automancy"

type Game struct {
	tickDuration prometheus.Histogram
	tickOverruns prometheus.Counter
	ticks        prometheus.Counter
	liveTiles    prometheus.Gauge
	transactions prometheus.Counter
	dropped      prometheus.Counter
	placements   *prometheus.CounterVec
}

// New builds the collectors and registers them on reg when it is not nil.
func New(reg prometheus.Registerer) (*Game, error) {
	g := &Game{
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of a full tick including transfer resolution.",
			Buckets:   []float64{.001, .0025, .005, .01, .02, .05, .1, .25, .5, 1},
		}),
		tickOverruns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tick_overruns_total",
			Help:      "Ticks that took longer than the configured maximum.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Completed ticks.",
		}),
		liveTiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_tiles",
			Help:      "Tiles with a running actor.",
		}),
		transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Accepted item transfers between tiles.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_dropped_total",
			Help:      "Transaction records evicted from the render log by the per-key cap.",
		}),
		placements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_total",
			Help:      "Placement commands by result.",
		}, []string{"result"}),
	}
	if reg == nil {
		return g, nil
	}
	errs := []error{
		register(reg, &g.tickDuration),
		register(reg, &g.tickOverruns),
		register(reg, &g.ticks),
		register(reg, &g.liveTiles),
		register(reg, &g.transactions),
		register(reg, &g.dropped),
		register(reg, &g.placements),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return g, nil
}

// register adopts an already registered collector of the same type, so a
// restarted game keeps feeding the series the registry already exposes.
func register[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			*c = existing
			return nil
		}
	}
	return err
}

func (g *Game) ObserveTick(d time.Duration, overrun bool) {
	if g == nil {
		return
	}
	g.ticks.Inc()
	g.tickDuration.Observe(d.Seconds())
	if overrun {
		g.tickOverruns.Inc()
	}
}

func (g *Game) SetLiveTiles(n int) {
	if g == nil {
		return
	}
	g.liveTiles.Set(float64(n))
}

func (g *Game) AddTransaction() {
	if g == nil {
		return
	}
	g.transactions.Inc()
}

func (g *Game) DropTransactions(n int) {
	if g == nil || n <= 0 {
		return
	}
	g.dropped.Add(float64(n))
}

func (g *Game) Placement(result string) {
	if g == nil {
		return
	}
	g.placements.WithLabelValues(result).Inc()
}
