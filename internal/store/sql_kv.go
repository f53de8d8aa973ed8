package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"smarthealth-state/internal/config"
)

// Dialect SQL 方言（只影响占位符）
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// DefaultTable 槽位表名
const DefaultTable = "kv_slots"

// SQLKV 基于单表的 KV 实现（PostgreSQL / SQLite 共用）
//
//	kv_slots(k TEXT PRIMARY KEY, v TEXT NOT NULL, updated_at TIMESTAMP NOT NULL)
type SQLKV struct {
	db      *sql.DB
	dialect Dialect
	table   string
	now     func() time.Time
}

func NewSQLKV(db *sql.DB, dialect Dialect) *SQLKV {
	return &SQLKV{db: db, dialect: dialect, table: DefaultTable, now: time.Now}
}

// ph 第 n 个占位符（从 1 开始）
func (s *SQLKV) ph(n int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// EnsureSchema 建表（幂等）
func (s *SQLKV) EnsureSchema(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`, s.table)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.table, err)
	}
	return nil
}

func (s *SQLKV) Get(ctx context.Context, key string) (string, error) {
	q := fmt.Sprintf(`SELECT v FROM %s WHERE k = %s`, s.table, s.ph(1))
	var v string
	if err := s.db.QueryRowContext(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMiss
		}
		return "", err
	}
	return v, nil
}

func (s *SQLKV) Set(ctx context.Context, key string, value string) error {
	q := fmt.Sprintf(`INSERT INTO %s (k, v, updated_at) VALUES (%s, %s, %s)
		ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = EXCLUDED.updated_at`,
		s.table, s.ph(1), s.ph(2), s.ph(3))
	_, err := s.db.ExecContext(ctx, q, key, value, s.now().UTC())
	return err
}

// Delete 单条语句删除全部 key，不会只删掉一部分槽位
func (s *SQLKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	phs := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		phs[i] = s.ph(i + 1)
		args[i] = k
	}
	q := fmt.Sprintf(`DELETE FROM %s WHERE k IN (%s)`, s.table, strings.Join(phs, ", "))
	_, err := s.db.ExecContext(ctx, q, args...)
	return err
}

// OpenPostgres 创建 PostgreSQL 连接
func OpenPostgres(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// OpenSQLite 打开（或创建）本地 SQLite 文件
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// 单写者
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite %s: %w", path, err)
	}
	return db, nil
}
