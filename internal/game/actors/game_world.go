package actors

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/entity"
	"Automancy/internal/shared/actor/messages"
	"slices"

	"github.com/asynkron/protoactor-go/actor"
)

// place applies one placement. Replacement stops the old actor and spawns
// the new one inside the same message, so no reader sees an empty gap.
func (g *GameActor) place(ctx actor.Context, req *messages.PlaceTile) messages.PlaceResult {
	c := req.Coord
	cur, occupied := g.world.Get(c)

	if req.ID == g.reg.IDs.None {
		if !occupied {
			return messages.Ignored
		}
		prior := g.record(ctx, c, cur)
		g.removeAt(ctx, c)
		if req.Record {
			g.history.Push(entity.Operation{Restores: []entity.Restore{{Coord: c, Prior: &prior}}})
		}
		g.liveChanged()
		return messages.Removed
	}

	def, ok := g.reg.Tile(req.ID)
	if !ok {
		return messages.Ignored
	}
	if occupied && cur.ID == req.ID && cur.Modifier == req.Modifier {
		return messages.Ignored
	}

	var prior *entity.TileRecord
	if occupied {
		r := g.record(ctx, c, cur)
		prior = &r
		g.stopTile(ctx, cur)
	}
	d := def.Data.Clone()
	for k, v := range req.Data {
		if v != nil {
			d.Set(k, v.Clone())
		}
	}
	g.world.Insert(c, g.spawn(ctx, c, def, req.Modifier, d))
	g.world.MarkPopulated(c.Chunk())
	if req.Record {
		g.history.Push(entity.Operation{Restores: []entity.Restore{{Coord: c, Prior: prior}}})
	}
	g.liveChanged()
	return messages.Placed
}

// move shifts every occupied coordinate of coords by offset as one
// operation. Tiles already at a destination are overwritten.
func (g *GameActor) move(ctx actor.Context, req *messages.MoveTiles) int {
	sources := make([]coord.TileCoord, 0, len(req.Coords))
	for _, c := range req.Coords {
		if _, ok := g.world.Get(c); ok && !slices.Contains(sources, c) {
			sources = append(sources, c)
		}
	}
	if len(sources) == 0 || req.Offset == coord.Zero {
		return 0
	}
	slices.SortFunc(sources, coord.Compare)

	affected := slices.Clone(sources)
	for _, c := range sources {
		if d := c.Add(req.Offset); !slices.Contains(affected, d) {
			affected = append(affected, d)
		}
	}
	slices.SortFunc(affected, coord.Compare)

	priors := make(map[coord.TileCoord]*entity.TileRecord, len(affected))
	for _, c := range affected {
		if t, ok := g.world.Get(c); ok {
			r := g.record(ctx, c, t)
			priors[c] = &r
		}
	}

	for _, c := range affected {
		g.removeAt(ctx, c)
	}
	for _, c := range sources {
		moved := *priors[c]
		moved.Coord = c.Add(req.Offset)
		g.put(ctx, moved)
		g.world.MarkPopulated(moved.Coord.Chunk())
	}
	// Destinations that are not also sources were overwritten; sources that
	// are not destinations are now empty. Both restore from priors.
	if req.Record {
		op := entity.Operation{Restores: make([]entity.Restore, 0, len(affected))}
		for _, c := range affected {
			op.Restores = append(op.Restores, entity.Restore{Coord: c, Prior: priors[c]})
		}
		g.history.Push(op)
	}
	g.liveChanged()
	return len(sources)
}

func (g *GameActor) undo(ctx actor.Context) bool {
	op, ok := g.history.Pop()
	if !ok {
		return false
	}
	for _, r := range op.Restores {
		g.removeAt(ctx, r.Coord)
		if r.Prior != nil {
			g.put(ctx, *r.Prior)
		}
	}
	g.liveChanged()
	return true
}
