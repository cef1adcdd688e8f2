// Package file stores each map as <dir>/<name>.bin.
package file

import (
	"Automancy/internal/game/app/port"
	"Automancy/internal/game/entity"
	"Automancy/internal/game/errs"
	"Automancy/internal/game/infra/persistence/codec"
	"Automancy/modules/kit/logx"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const Ext = ".bin"

type MapRepository struct {
	dir    string
	codec  *codec.Codec
	index  port.MapIndex
	logger logx.Logger
}

type Option func(*MapRepository)

// WithIndex records every save in idx and lists maps from it.
func WithIndex(idx port.MapIndex) Option {
	return func(r *MapRepository) { r.index = idx }
}

func WithLogger(l logx.Logger) Option {
	return func(r *MapRepository) { r.logger = l }
}

func NewMapRepository(dir string, c *codec.Codec, opts ...Option) *MapRepository {
	r := &MapRepository{dir: dir, codec: c, logger: logx.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ port.MapRepository = (*MapRepository)(nil)

// ValidName rejects names that would escape the map directory.
func ValidName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

func (r *MapRepository) Path(name string) string {
	return filepath.Join(r.dir, name+Ext)
}

func (r *MapRepository) LoadMap(ctx context.Context, name string) (*entity.MapSnapshot, error) {
	if !ValidName(name) {
		return nil, errs.ErrMapLoadFailed.WithData("name", name)
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.ErrMapLoadFailed.WithCause(err)
	}
	f, err := os.Open(r.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return codec.Empty(name), nil
	}
	if err != nil {
		r.logger.Warn("map unreadable, starting empty", zap.String("map", name), zap.Error(err))
		return codec.Empty(name), nil
	}
	defer f.Close()

	snap, err := r.codec.Decode(f)
	if err != nil {
		r.logger.Warn("map undecodable, starting empty", zap.String("map", name), zap.Error(err))
		return codec.Empty(name), nil
	}
	snap.Name = name
	return snap, nil
}

// SaveMap writes to a temp file in the map directory and renames it over
// the target, so a failed save leaves the previous file intact.
func (r *MapRepository) SaveMap(ctx context.Context, snap *entity.MapSnapshot) (entity.MapInfo, error) {
	if snap == nil || !ValidName(snap.Name) {
		return entity.MapInfo{}, errs.ErrMapSaveFailed.WithData("reason", "invalid map name")
	}
	if err := ctx.Err(); err != nil {
		return entity.MapInfo{}, errs.ErrMapSaveFailed.WithCause(err)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return entity.MapInfo{}, errs.ErrMapSaveFailed.WithCause(err)
	}
	tmp, err := os.CreateTemp(r.dir, snap.Name+".*.tmp")
	if err != nil {
		return entity.MapInfo{}, errs.ErrMapSaveFailed.WithCause(err)
	}
	tmpName := tmp.Name()
	cleanup := func(cause error) (entity.MapInfo, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return entity.MapInfo{}, errs.ErrMapSaveFailed.WithCause(cause).WithData("map", snap.Name)
	}
	if err := r.codec.Encode(tmp, snap); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		return cleanup(err)
	}
	if err := os.Rename(tmpName, r.Path(snap.Name)); err != nil {
		_ = os.Remove(tmpName)
		return entity.MapInfo{}, errs.ErrMapSaveFailed.WithCause(err).WithData("map", snap.Name)
	}

	info := snap.Info()
	if r.index != nil {
		if err := r.index.Record(ctx, info); err != nil {
			r.logger.Error("map index record failed", zap.String("map", snap.Name), zap.Error(err))
		}
	}
	return info, nil
}

func (r *MapRepository) MapInfo(ctx context.Context, name string) (entity.MapInfo, bool, error) {
	if !ValidName(name) {
		return entity.MapInfo{}, false, nil
	}
	f, err := os.Open(r.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return entity.MapInfo{}, false, nil
	}
	if err != nil {
		return entity.MapInfo{}, false, errs.ErrMapLoadFailed.WithCause(err)
	}
	defer f.Close()
	h, err := codec.ReadHeader(f)
	if err != nil {
		return entity.MapInfo{}, false, nil
	}
	info := h.Info()
	info.Name = name
	return info, true, nil
}

// ListMaps returns every readable map, newest first.
func (r *MapRepository) ListMaps(ctx context.Context) ([]entity.MapInfo, error) {
	if r.index != nil {
		return r.index.List(ctx)
	}
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []entity.MapInfo{}, nil
	}
	if err != nil {
		return nil, errs.ErrMapLoadFailed.WithCause(err)
	}
	out := make([]entity.MapInfo, 0, len(entries))
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), Ext)
		if !ok || e.IsDir() {
			continue
		}
		info, ok, err := r.MapInfo(ctx, name)
		if err != nil || !ok {
			continue
		}
		out = append(out, info)
	}
	entity.SortMapInfos(out)
	return out, nil
}
