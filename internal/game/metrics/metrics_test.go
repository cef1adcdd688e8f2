package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTick(t *testing.T) {
	reg := prometheus.NewRegistry()
	g, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.ObserveTick(time.Millisecond, false)
	g.ObserveTick(time.Second, true)

	if got := testutil.ToFloat64(g.ticks); got != 2 {
		t.Fatalf("ticks=%v", got)
	}
	if got := testutil.ToFloat64(g.tickOverruns); got != 1 {
		t.Fatalf("overruns=%v", got)
	}
}

func TestRegisterTwiceOnSameRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	second, err := New(reg)
	if err != nil {
		t.Fatalf("second New: %v", err)
	}
	second.AddTransaction()
	if got := testutil.ToFloat64(first.transactions); got != 1 {
		t.Fatalf("second game must feed the registered counter, got %v", got)
	}
}

func TestNilGameIsNoop(t *testing.T) {
	var g *Game
	g.ObserveTick(time.Second, true)
	g.SetLiveTiles(3)
	g.AddTransaction()
	g.DropTransactions(2)
	g.Placement("placed")
}

func TestDropTransactions(t *testing.T) {
	g, err := New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.DropTransactions(3)
	g.DropTransactions(0)
	g.DropTransactions(-1)
	if got := testutil.ToFloat64(g.dropped); got != 3 {
		t.Fatalf("dropped=%v", got)
	}
}

func TestPlacementsByResult(t *testing.T) {
	g, _ := New(nil)
	g.Placement("placed")
	g.Placement("placed")
	g.Placement("ignored")
	if got := testutil.ToFloat64(g.placements.WithLabelValues("placed")); got != 2 {
		t.Fatalf("placed=%v", got)
	}
}
