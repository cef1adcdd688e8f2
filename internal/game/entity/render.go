package entity

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/id"
	"Automancy/internal/game/resource"
)

// RenderInstance is what the renderer needs to draw one tile.
type RenderInstance struct {
	Coord    coord.TileCoord  `json:"coord"`
	ID       id.Id            `json:"-"`
	Name     string           `json:"id"`
	Model    string           `json:"model"`
	Modifier int32            `json:"modifier"`
	Target   *coord.TileCoord `json:"target,omitempty"`
	Rotation float32          `json:"rotation"`
}

type MapRenderInfo struct {
	Instances []RenderInstance `json:"instances"`
}

// RenderSnapshot reads only published tile state, so it never waits on a
// tile that is busy ticking.
func (m *Map) RenderSnapshot(bounds coord.TileBounds, reg *resource.Registry) MapRenderInfo {
	info := MapRenderInfo{Instances: []RenderInstance{}}
	for _, c := range m.Coords() {
		if !bounds.Contains(c) {
			continue
		}
		t := m.tiles[c]
		tileID, modifier := t.ID, t.Modifier
		if s := t.State.Load(); s != nil {
			if s.Tombstoned {
				continue
			}
			tileID, modifier = s.ID, s.Modifier
		}
		inst := RenderInstance{Coord: c, ID: tileID, Name: reg.Name(tileID), Modifier: modifier}
		def, ok := reg.Tile(tileID)
		if ok {
			inst.Model = reg.Name(def.Model(modifier))
		}
		if target, ok := t.Data().Coord(reg.IDs.Target); ok {
			inst.Target = &target
			if def.Targeted {
				inst.Rotation, _ = coord.Rotation(target)
			}
		}
		info.Instances = append(info.Instances, inst)
	}
	return info
}
