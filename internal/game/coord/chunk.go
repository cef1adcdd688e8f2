package coord

import "fmt"

// ChunkSize is the edge length, in tiles, of a chunk.
const ChunkSize = 16

// ChunkCoord groups tiles into ChunkSize x ChunkSize axial blocks.
type ChunkCoord struct {
	Q int32
	R int32
}

func (c TileCoord) Chunk() ChunkCoord {
	return ChunkCoord{Q: floorDiv(c.Q, ChunkSize), R: floorDiv(c.R, ChunkSize)}
}

func (c ChunkCoord) Contains(t TileCoord) bool {
	return t.Chunk() == c
}

// Origin is the tile with the smallest q and r in the chunk.
func (c ChunkCoord) Origin() TileCoord {
	return TileCoord{Q: c.Q * ChunkSize, R: c.R * ChunkSize}
}

func (c ChunkCoord) Neighbors() [6]ChunkCoord {
	var out [6]ChunkCoord
	for i, d := range Directions {
		out[i] = ChunkCoord{Q: c.Q + d.Q, R: c.R + d.R}
	}
	return out
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("chunk(%d, %d)", c.Q, c.R)
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
