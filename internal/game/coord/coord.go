// Package coord holds axial hex coordinates for a pointy-top grid, the
// chunk grouping used for population windows, and culling bounds.
package coord

import (
	"encoding/json"
	"fmt"
)

// TileCoord is an axial (q, r) pair. The implicit cube coordinate is s = -q-r.
type TileCoord struct {
	Q int32
	R int32
}

func New(q, r int32) TileCoord {
	return TileCoord{Q: q, R: r}
}

var (
	Zero        = TileCoord{}
	TopRight    = TileCoord{Q: 1, R: -1}
	Right       = TileCoord{Q: 1, R: 0}
	BottomRight = TileCoord{Q: 0, R: 1}
	BottomLeft  = TileCoord{Q: -1, R: 1}
	Left        = TileCoord{Q: -1, R: 0}
	TopLeft     = TileCoord{Q: 0, R: -1}
)

// Directions lists the six unit offsets clockwise from TopRight.
var Directions = [6]TileCoord{TopRight, Right, BottomRight, BottomLeft, Left, TopLeft}

func (c TileCoord) Add(o TileCoord) TileCoord {
	return TileCoord{Q: c.Q + o.Q, R: c.R + o.R}
}

func (c TileCoord) Sub(o TileCoord) TileCoord {
	return TileCoord{Q: c.Q - o.Q, R: c.R - o.R}
}

func (c TileCoord) Neg() TileCoord {
	return TileCoord{Q: -c.Q, R: -c.R}
}

func (c TileCoord) S() int32 {
	return -c.Q - c.R
}

func (c TileCoord) Neighbors() [6]TileCoord {
	var out [6]TileCoord
	for i, d := range Directions {
		out[i] = c.Add(d)
	}
	return out
}

// Distance is the hex metric: the number of steps between c and o. It is
// computed in int64 so coordinates at opposite int32 extremes do not wrap.
func (c TileCoord) Distance(o TileCoord) int64 {
	dq, dr := int64(c.Q)-int64(o.Q), int64(c.R)-int64(o.R)
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

// Less orders coordinates by Q, then R. Tick fan-out and transfer dispatch
// follow this order.
func (c TileCoord) Less(o TileCoord) bool {
	if c.Q != o.Q {
		return c.Q < o.Q
	}
	return c.R < o.R
}

// Compare is Less as a three-way result, for slices.SortFunc.
func Compare(a, b TileCoord) int {
	switch {
	case a == b:
		return 0
	case a.Less(b):
		return -1
	default:
		return 1
	}
}

// DirectionIndex reports which entry of Directions c is.
func DirectionIndex(c TileCoord) (int, bool) {
	for i, d := range Directions {
		if d == c {
			return i, true
		}
	}
	return 0, false
}

// Rotation is the counter-clockwise angle in degrees from Right for a unit
// direction, used to orient targeted tiles.
func Rotation(c TileCoord) (float32, bool) {
	i, ok := DirectionIndex(c)
	if !ok {
		return 0, false
	}
	// TopRight sits at 60 degrees; each step clockwise subtracts 60.
	deg := 60 - 60*i
	if deg < 0 {
		deg += 360
	}
	return float32(deg), true
}

func (c TileCoord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Q, c.R)
}

func (c TileCoord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int32{c.Q, c.R})
}

func (c *TileCoord) UnmarshalJSON(b []byte) error {
	var pair [2]int32
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	c.Q, c.R = pair[0], pair[1]
	return nil
}

// TileBounds is a culling range: every coordinate within Radius steps of Center.
type TileBounds struct {
	Center TileCoord
	Radius uint32
}

func (b TileBounds) Contains(c TileCoord) bool {
	return b.Center.Distance(c) <= int64(b.Radius)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
