package memory

import (
	"Automancy/internal/game/entity"
	"Automancy/internal/game/infra/persistence/codec"
	"context"
	"sync"
)

// MapRepository keeps encoded maps in memory. Maps go through the same codec
// as the file repository, so a save and load here drops what a disk round
// trip would drop.
type MapRepository struct {
	codec *codec.Codec

	mu    sync.RWMutex
	blobs map[string][]byte
	infos map[string]entity.MapInfo
}

func NewMapRepository(c *codec.Codec) *MapRepository {
	return &MapRepository{
		codec: c,
		blobs: make(map[string][]byte),
		infos: make(map[string]entity.MapInfo),
	}
}

func (r *MapRepository) LoadMap(ctx context.Context, name string) (*entity.MapSnapshot, error) {
	_ = ctx
	r.mu.RLock()
	blob, ok := r.blobs[name]
	r.mu.RUnlock()
	if !ok {
		return codec.Empty(name), nil
	}
	snap, err := r.codec.Unmarshal(blob)
	if err != nil {
		return codec.Empty(name), nil
	}
	return snap, nil
}

func (r *MapRepository) SaveMap(ctx context.Context, s *entity.MapSnapshot) (entity.MapInfo, error) {
	_ = ctx
	blob, err := r.codec.Marshal(s)
	if err != nil {
		return entity.MapInfo{}, err
	}
	info := s.Info()
	r.mu.Lock()
	r.blobs[s.Name] = blob
	r.infos[s.Name] = info
	r.mu.Unlock()
	return info, nil
}

func (r *MapRepository) MapInfo(ctx context.Context, name string) (entity.MapInfo, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.infos[name]
	return info, ok, nil
}

func (r *MapRepository) ListMaps(ctx context.Context) ([]entity.MapInfo, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.MapInfo, 0, len(r.infos))
	for _, info := range r.infos {
		out = append(out, info)
	}
	entity.SortMapInfos(out)
	return out, nil
}

// Bytes returns the stored encoding of name.
func (r *MapRepository) Bytes(name string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blobs[name]
	return append([]byte(nil), b...), ok
}
