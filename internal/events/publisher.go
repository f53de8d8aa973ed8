package events

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"smarthealth-state/internal/config"
	"smarthealth-state/internal/domain"
	"smarthealth-state/internal/store"
)

// ChangeEvent 状态提交后的通知（只通知，不携带完整快照）
type ChangeEvent struct {
	Op            string         `json:"op"`
	OccurredAt    time.Time      `json:"occurred_at"`
	Authenticated bool           `json:"authenticated"`
	Derived       domain.Derived `json:"derived"`
}

// Publisher 变更事件发布；失败由调用方记录日志，不影响状态提交
type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

// NopPublisher EVENTS_BACKEND=none
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ChangeEvent) error { return nil }

// New 按配置创建 Publisher；返回的 close 负责断开连接
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Publisher, func() error, error) {
	switch cfg.Events.Backend {
	case config.EventsNone, "":
		return NopPublisher{}, func() error { return nil }, nil

	case config.EventsRedis:
		client := store.NewRedisClient(&cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		logger.Info("Change events enabled", zap.String("backend", "redis"), zap.String("stream", cfg.Events.Stream))
		return NewRedisStreamPublisher(client, cfg.Events.Stream), client.Close, nil

	case config.EventsMQTT:
		p, err := DialMQTT(cfg.Events.MQTT.Broker, cfg.Events.MQTT.ClientID,
			cfg.Events.MQTT.Username, cfg.Events.MQTT.Password,
			cfg.Events.MQTT.Topic, cfg.Events.MQTT.QoS)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Change events enabled", zap.String("backend", "mqtt"), zap.String("topic", cfg.Events.MQTT.Topic))
		return p, func() error { p.Close(); return nil }, nil
	}
	return nil, nil, fmt.Errorf("unsupported events backend %q", cfg.Events.Backend)
}
