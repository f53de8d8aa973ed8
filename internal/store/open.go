package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"smarthealth-state/internal/config"
)

// Open 按配置创建 KV；返回的 close 负责释放底层连接
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (KV, func() error, error) {
	var (
		kv      KV
		closeFn = func() error { return nil }
	)

	switch cfg.Store.Backend {
	case config.BackendMemory, "":
		kv = NewMemoryKV()

	case config.BackendRedis:
		client := NewRedisClient(&cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		kv = NewRedisKV(client)
		closeFn = client.Close

	case config.BackendPostgres:
		db, err := OpenPostgres(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		sqlKV := NewSQLKV(db, DialectPostgres)
		if err := sqlKV.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		kv = sqlKV
		closeFn = db.Close

	case config.BackendSQLite:
		db, err := OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		sqlKV := NewSQLKV(db, DialectSQLite)
		if err := sqlKV.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		kv = sqlKV
		closeFn = db.Close

	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}

	logger.Info("Slot store opened",
		zap.String("backend", cfg.Store.Backend),
		zap.String("key_prefix", cfg.Store.KeyPrefix),
	)
	return WithPrefix(kv, cfg.Store.KeyPrefix), closeFn, nil
}

// NewRedisClient 创建 Redis 客户端
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
