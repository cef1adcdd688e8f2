package entity

import "Automancy/internal/game/coord"

// Restore puts Coord back to Prior. A nil Prior means the coordinate was empty.
type Restore struct {
	Coord coord.TileCoord
	Prior *TileRecord
}

// Operation is the inverse of one recorded command.
type Operation struct {
	Restores []Restore
}

// History is a bounded ring of operations. Once full, pushing drops the oldest.
type History struct {
	ops   []Operation
	start int
	n     int
}

// NewHistory keeps at most limit operations; limit <= 0 keeps none.
func NewHistory(limit int) *History {
	return &History{ops: make([]Operation, max(limit, 0))}
}

func (h *History) Push(op Operation) {
	if len(h.ops) == 0 {
		return
	}
	if h.n == len(h.ops) {
		h.ops[h.start] = op
		h.start = (h.start + 1) % len(h.ops)
		return
	}
	h.ops[(h.start+h.n)%len(h.ops)] = op
	h.n++
}

// Pop removes and returns the most recent operation.
func (h *History) Pop() (Operation, bool) {
	if h.n == 0 {
		return Operation{}, false
	}
	i := (h.start + h.n - 1) % len(h.ops)
	op := h.ops[i]
	h.ops[i] = Operation{}
	h.n--
	return op, true
}

func (h *History) Len() int { return h.n }

func (h *History) Cap() int { return len(h.ops) }

func (h *History) Clear() {
	clear(h.ops)
	h.start, h.n = 0, 0
}
