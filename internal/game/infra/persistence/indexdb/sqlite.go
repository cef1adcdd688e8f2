// Package indexdb keeps a SQLite table of saved maps so listings do not
// have to open every map file.
package indexdb

import (
	"Automancy/internal/game/app/port"
	"Automancy/internal/game/entity"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteIndex struct {
	db *sql.DB
}

var _ port.MapIndex = (*SQLiteIndex)(nil)

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS maps (
			name TEXT PRIMARY KEY,
			tile_count INTEGER NOT NULL,
			saved_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS maps_saved_at ON maps(saved_at DESC);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Record(ctx context.Context, info entity.MapInfo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO maps(name, tile_count, saved_at) VALUES(?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET tile_count = excluded.tile_count, saved_at = excluded.saved_at`,
		info.Name, info.TileCount, info.SavedAt.UnixNano())
	return err
}

// List returns maps newest first, then by name.
func (s *SQLiteIndex) List(ctx context.Context) ([]entity.MapInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, tile_count, saved_at FROM maps ORDER BY saved_at DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.MapInfo{}
	for rows.Next() {
		var (
			info  entity.MapInfo
			saved int64
		)
		if err := rows.Scan(&info.Name, &info.TileCount, &saved); err != nil {
			return nil, err
		}
		info.SavedAt = time.Unix(0, saved).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) Get(ctx context.Context, name string) (entity.MapInfo, bool, error) {
	var (
		info  entity.MapInfo
		saved int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT name, tile_count, saved_at FROM maps WHERE name = ?`, name).
		Scan(&info.Name, &info.TileCount, &saved)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.MapInfo{}, false, nil
	}
	if err != nil {
		return entity.MapInfo{}, false, err
	}
	info.SavedAt = time.Unix(0, saved).UTC()
	return info, true, nil
}

func (s *SQLiteIndex) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
