// Package kvstore は load(key)/save(key, value) だけを持つ
// SQLite上のJSONキーバリューストア。
package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);`

// Load/Saveの約束。StoreとTxの両方が満たす。
type Accessor interface {
	// 見つかればdstに入れてtrue。無ければdstはそのまま（デフォルト値）でfalse
	Load(ctx context.Context, key string, dst any) (bool, error)
	Save(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	db *sqlx.DB
}

// dsnは "yoolivery.db" や ":memory:" など
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// :memory: は接続ごとに別DBになるので1本に絞る
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kvstore schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ Accessor = (*Store)(nil)

func (s *Store) Load(ctx context.Context, key string, dst any) (bool, error) {
	return load(ctx, s.db, key, dst)
}

func (s *Store) Save(ctx context.Context, key string, value any) error {
	return save(ctx, s.db, key, value)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return del(ctx, s.db, key)
}

// 複数キーの書き込みをまとめてcommitする。fnがエラーならrollback
func (s *Store) WithinTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	return sqlTx.Commit()
}

// トランザクション中のAccessor
type Tx struct {
	tx *sqlx.Tx
}

var _ Accessor = (*Tx)(nil)

func (t *Tx) Load(ctx context.Context, key string, dst any) (bool, error) {
	return load(ctx, t.tx, key, dst)
}

func (t *Tx) Save(ctx context.Context, key string, value any) error {
	return save(ctx, t.tx, key, value)
}

func (t *Tx) Delete(ctx context.Context, key string) error {
	return del(ctx, t.tx, key)
}

func load(ctx context.Context, q sqlx.QueryerContext, key string, dst any) (bool, error) {
	var raw string
	err := sqlx.GetContext(ctx, q, &raw, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("kvstore decode %q: %w", key, err)
	}
	return true, nil
}

func save(ctx context.Context, e sqlx.ExecerContext, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kvstore encode %q: %w", key, err)
	}
	_, err = e.ExecContext(ctx, `
		INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(b), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func del(ctx context.Context, e sqlx.ExecerContext, key string) error {
	_, err := e.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}
