package entity

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"maps"
	"slices"
	"sync"
	"time"
)

// DefaultTransactionsPerKey bounds each (source, destination) queue when no
// consumer prunes the log.
const DefaultTransactionsPerKey = 4096

type TransactionRecord struct {
	Source      coord.TileCoord `json:"source"`
	Destination coord.TileCoord `json:"destination"`
	Stack       data.ItemStack  `json:"stack"`
	At          time.Time       `json:"at"`
}

type TransactionKey struct {
	Source      coord.TileCoord
	Destination coord.TileCoord
}

func compareKeys(a, b TransactionKey) int {
	if c := coord.Compare(a.Source, b.Source); c != 0 {
		return c
	}
	return coord.Compare(a.Destination, b.Destination)
}

// TransactionLog is written by the coordinator and read and pruned by
// render consumers. It is safe for concurrent use.
type TransactionLog struct {
	mu      sync.Mutex
	perKey  int
	entries map[TransactionKey][]TransactionRecord
	n       int
	dropped uint64
}

// NewTransactionLog caps every key at perKey records; perKey <= 0 means no cap.
func NewTransactionLog(perKey int) *TransactionLog {
	return &TransactionLog{perKey: perKey, entries: make(map[TransactionKey][]TransactionRecord)}
}

// Record appends r to its key's queue and returns how many of the oldest
// records were evicted to keep the queue within the cap.
func (l *TransactionLog) Record(r TransactionRecord) int {
	key := TransactionKey{Source: r.Source, Destination: r.Destination}
	l.mu.Lock()
	defer l.mu.Unlock()
	q := append(l.entries[key], r)
	l.n++
	drop := 0
	if l.perKey > 0 && len(q) > l.perKey {
		drop = len(q) - l.perKey
		q = slices.Delete(q, 0, drop)
		l.n -= drop
		l.dropped += uint64(drop)
	}
	l.entries[key] = q
	return drop
}

// Dropped is the number of records evicted by the cap since creation.
func (l *TransactionLog) Dropped() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

func (l *TransactionLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}

// Snapshot copies every queue.
func (l *TransactionLog) Snapshot() map[TransactionKey][]TransactionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[TransactionKey][]TransactionRecord, len(l.entries))
	for k, q := range l.entries {
		out[k] = slices.Clone(q)
	}
	return out
}

// Entries flattens the log ordered by key, then oldest first.
func (l *TransactionLog) Entries() []TransactionRecord {
	snap := l.Snapshot()
	out := make([]TransactionRecord, 0, len(snap))
	for _, k := range slices.SortedFunc(maps.Keys(snap), compareKeys) {
		out = append(out, snap[k]...)
	}
	return out
}

// Prune drops records older than ttl at now and returns how many went.
func (l *TransactionLog) Prune(now time.Time, ttl time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for k, q := range l.entries {
		i := 0
		for i < len(q) && now.Sub(q[i].At) >= ttl {
			i++
		}
		if i == 0 {
			continue
		}
		removed += i
		if i == len(q) {
			delete(l.entries, k)
		} else {
			l.entries[k] = slices.Delete(q, 0, i)
		}
	}
	l.n -= removed
	return removed
}

func (l *TransactionLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.entries)
	l.n = 0
}
