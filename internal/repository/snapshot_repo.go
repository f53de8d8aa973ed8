package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"smarthealth-state/internal/domain"
	"smarthealth-state/internal/store"
)

// 持久化槽位名（与浏览器 localStorage 的 key 保持一致）
const (
	SlotUserData = "healthAppUserData"
	SlotAuth     = "healthAppAuth"
)

// ErrCorruptSnapshot 槽位内容无法解析
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// SnapshotRepo 聚合快照 + 登录标志的持久化
type SnapshotRepo interface {
	// Load 两个槽位都存在且合法时，返回深度合并到 base 之上的快照和登录标志
	Load(ctx context.Context, base domain.UserData) (domain.UserData, bool, error)
	SaveUserData(ctx context.Context, data domain.UserData) error
	SaveAuth(ctx context.Context, authenticated bool) error
	// Clear 删除两个槽位
	Clear(ctx context.Context) error
	// Peek 读取原始快照（不合并），用于调试/导出
	Peek(ctx context.Context) (domain.UserData, error)
}

// KVSnapshotRepo 基于 store.KV 的实现，每次写都是整份覆盖
type KVSnapshotRepo struct {
	kv store.KV
}

func NewKVSnapshotRepo(kv store.KV) *KVSnapshotRepo {
	return &KVSnapshotRepo{kv: kv}
}

func (r *KVSnapshotRepo) Load(ctx context.Context, base domain.UserData) (domain.UserData, bool, error) {
	rawData, err := r.kv.Get(ctx, SlotUserData)
	if err != nil {
		return domain.UserData{}, false, fmt.Errorf("read %s: %w", SlotUserData, err)
	}
	rawAuth, err := r.kv.Get(ctx, SlotAuth)
	if err != nil {
		return domain.UserData{}, false, fmt.Errorf("read %s: %w", SlotAuth, err)
	}

	var authenticated bool
	if err := json.Unmarshal([]byte(rawAuth), &authenticated); err != nil {
		return domain.UserData{}, false, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, SlotAuth, err)
	}

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return domain.UserData{}, false, fmt.Errorf("encode defaults: %w", err)
	}
	merged, err := deepMergeJSON(baseJSON, []byte(rawData))
	if err != nil {
		return domain.UserData{}, false, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, SlotUserData, err)
	}

	var out domain.UserData
	if err := json.Unmarshal(merged, &out); err != nil {
		return domain.UserData{}, false, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, SlotUserData, err)
	}
	return out, authenticated, nil
}

func (r *KVSnapshotRepo) Peek(ctx context.Context) (domain.UserData, error) {
	raw, err := r.kv.Get(ctx, SlotUserData)
	if err != nil {
		return domain.UserData{}, fmt.Errorf("read %s: %w", SlotUserData, err)
	}
	var out domain.UserData
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return domain.UserData{}, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, SlotUserData, err)
	}
	return out, nil
}

func (r *KVSnapshotRepo) SaveUserData(ctx context.Context, data domain.UserData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal user data: %w", err)
	}
	if err := r.kv.Set(ctx, SlotUserData, string(raw)); err != nil {
		return fmt.Errorf("failed to write %s: %w", SlotUserData, err)
	}
	return nil
}

func (r *KVSnapshotRepo) SaveAuth(ctx context.Context, authenticated bool) error {
	raw, _ := json.Marshal(authenticated)
	if err := r.kv.Set(ctx, SlotAuth, string(raw)); err != nil {
		return fmt.Errorf("failed to write %s: %w", SlotAuth, err)
	}
	return nil
}

func (r *KVSnapshotRepo) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, SlotUserData, SlotAuth); err != nil {
		return fmt.Errorf("failed to clear slots: %w", err)
	}
	return nil
}
