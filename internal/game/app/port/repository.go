package port

import (
	"Automancy/internal/game/entity"
	"context"
)

// MapRepository stores whole maps by name. Loading a map that does not exist
// or cannot be decoded yields an empty snapshot and no error.
type MapRepository interface {
	LoadMap(ctx context.Context, name string) (*entity.MapSnapshot, error)
	SaveMap(ctx context.Context, snap *entity.MapSnapshot) (entity.MapInfo, error)
	MapInfo(ctx context.Context, name string) (entity.MapInfo, bool, error)
	ListMaps(ctx context.Context) ([]entity.MapInfo, error)
}

// MapIndex keeps MapInfo rows for fast listing.
type MapIndex interface {
	Record(ctx context.Context, info entity.MapInfo) error
	List(ctx context.Context) ([]entity.MapInfo, error)
	Close() error
}
