package store

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// ErrMiss 槽位不存在
var ErrMiss = errors.New("slot miss")

// KV 持久化键值槽位（整值覆盖写，last-write-wins）
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// RedisKV 基于 go-redis 的 KV 实现（槽位不设置 TTL）
type RedisKV struct {
	c *redis.Client
}

func NewRedisKV(c *redis.Client) *RedisKV { return &RedisKV{c: c} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value string) error {
	return r.c.Set(ctx, key, value, 0).Err()
}

func (r *RedisKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.c.Del(ctx, keys...).Err()
}

// PrefixedKV 给所有 key 加前缀（多个实例共用一个后端）
type PrefixedKV struct {
	inner  KV
	prefix string
}

// WithPrefix prefix 为空时直接返回 inner
func WithPrefix(inner KV, prefix string) KV {
	if prefix == "" {
		return inner
	}
	return &PrefixedKV{inner: inner, prefix: prefix}
}

func (p *PrefixedKV) Get(ctx context.Context, key string) (string, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *PrefixedKV) Set(ctx context.Context, key string, value string) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *PrefixedKV) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = p.prefix + k
	}
	return p.inner.Delete(ctx, full...)
}
