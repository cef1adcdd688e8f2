package mongodb

import (
	"Automancy/internal/game/app/port"
	"Automancy/internal/game/entity"
	"Automancy/internal/game/errs"
	"Automancy/internal/game/infra/persistence/codec"
	"Automancy/modules/kit/logx"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const defaultCollectionName = "maps"

// mapDoc carries the same compressed payload the file backend writes.
type mapDoc struct {
	Name      string    `bson:"_id"`
	SavedAt   time.Time `bson:"saved_at"`
	TileCount int       `bson:"tile_count"`
	Blob      []byte    `bson:"blob,omitempty"`
}

type MapRepository struct {
	coll   *mongo.Collection
	codec  *codec.Codec
	logger logx.Logger
}

var _ port.MapRepository = (*MapRepository)(nil)

func NewMapRepository(db *mongo.Database, c *codec.Codec, l logx.Logger) *MapRepository {
	if l == nil {
		l = logx.Nop()
	}
	return &MapRepository{
		coll:   db.Collection(defaultCollectionName),
		codec:  c,
		logger: l,
	}
}

func (r *MapRepository) LoadMap(ctx context.Context, name string) (*entity.MapSnapshot, error) {
	if r == nil || r.coll == nil {
		return nil, errs.ErrMapLoadFailed.WithCause(errors.New("mongodb map collection is nil"))
	}
	var doc mapDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return codec.Empty(name), nil
	}
	if err != nil {
		return nil, errs.ErrMapLoadFailed.WithCause(err).WithData("map", name)
	}
	snap, err := r.codec.Unmarshal(doc.Blob)
	if err != nil {
		r.logger.Warn("map undecodable, starting empty", zap.String("map", name), zap.Error(err))
		return codec.Empty(name), nil
	}
	snap.Name = name
	return snap, nil
}

func (r *MapRepository) SaveMap(ctx context.Context, snap *entity.MapSnapshot) (entity.MapInfo, error) {
	if snap == nil || snap.Name == "" {
		return entity.MapInfo{}, errs.ErrMapSaveFailed.WithData("reason", "invalid map name")
	}
	if r == nil || r.coll == nil {
		return entity.MapInfo{}, errs.ErrMapSaveFailed.WithCause(errors.New("mongodb map collection is nil"))
	}
	blob, err := r.codec.Marshal(snap)
	if err != nil {
		return entity.MapInfo{}, errs.ErrMapSaveFailed.WithCause(err)
	}
	info := snap.Info()
	doc := mapDoc{Name: info.Name, SavedAt: info.SavedAt, TileCount: info.TileCount, Blob: blob}
	_, err = r.coll.ReplaceOne(ctx, bson.M{"_id": doc.Name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return entity.MapInfo{}, errs.ErrMapSaveFailed.WithCause(err).WithData("map", snap.Name)
	}
	return info, nil
}

func (r *MapRepository) MapInfo(ctx context.Context, name string) (entity.MapInfo, bool, error) {
	var doc mapDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": name}, options.FindOne().SetProjection(bson.M{"blob": 0})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity.MapInfo{}, false, nil
	}
	if err != nil {
		return entity.MapInfo{}, false, errs.ErrMapLoadFailed.WithCause(err)
	}
	return entity.MapInfo{Name: doc.Name, TileCount: doc.TileCount, SavedAt: doc.SavedAt}, true, nil
}

func (r *MapRepository) ListMaps(ctx context.Context) ([]entity.MapInfo, error) {
	opts := options.Find().
		SetProjection(bson.M{"blob": 0}).
		SetSort(bson.D{{Key: "saved_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errs.ErrMapLoadFailed.WithCause(err)
	}
	defer cur.Close(ctx)

	out := []entity.MapInfo{}
	for cur.Next(ctx) {
		var doc mapDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errs.ErrMapLoadFailed.WithCause(err)
		}
		out = append(out, entity.MapInfo{Name: doc.Name, TileCount: doc.TileCount, SavedAt: doc.SavedAt})
	}
	return out, cur.Err()
}
