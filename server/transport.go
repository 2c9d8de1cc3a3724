package server

import (
	"context"

	"sndeals/config"
	"sndeals/logging"
	"sndeals/messaging"
	"sndeals/messaging/transport/memory"
	"sndeals/messaging/transport/natsjetstream"
	"sndeals/messaging/transport/redisstreams"
)

// NewTransport 按 events.transport 创建事件传输；none 返回 nil
func NewTransport(cfg config.EventsConfig) (messaging.Transport, error) {
	switch cfg.Transport {
	case "memory":
		t := memory.NewMemoryTransport(0, 0)
		// 进程内传输没有外部消费者，订阅一个日志处理器便于观察
		if err := t.Subscribe("*", eventLogger()); err != nil {
			return nil, err
		}
		return t, nil
	case "nats":
		return natsjetstream.NewTransport(natsjetstream.Config{
			URL:           cfg.NATS.URL,
			Stream:        cfg.NATS.Stream,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
		}), nil
	case "redis":
		return redisstreams.NewTransport(redisstreams.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			StreamPrefix: cfg.Redis.StreamPrefix,
			MaxLen:       cfg.Redis.MaxLen,
		}), nil
	default:
		return nil, nil
	}
}

func eventLogger() messaging.IMessageHandler {
	logger := logging.ComponentLogger("events")
	return &messaging.HandlerFunc{Name: "event-logger", Fn: func(ctx context.Context, m messaging.IMessage) error {
		logger.Debug(ctx, "entity event",
			logging.String("type", m.GetType()),
			logging.String("id", m.GetID()))
		return nil
	}}
}
