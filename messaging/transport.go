package messaging

import "context"

// IPublisher 只发布的最小接口，服务层依赖它而不是完整的 Transport
type IPublisher interface {
	Publish(ctx context.Context, message IMessage) error
	Close() error
}

// Transport 消息传输接口
type Transport interface {
	IPublisher

	PublishAll(ctx context.Context, messages []IMessage) error
	// Subscribe 注册处理器，"*" 订阅全部类型
	Subscribe(messageType string, handler IMessageHandler) error
	Unsubscribe(messageType string, handler IMessageHandler) error
	Start(ctx context.Context) error
	Stats() TransportStats
}

// TransportStats 传输层统计信息
type TransportStats struct {
	Running      bool     `json:"running"`
	HandlerCount int      `json:"handler_count"`
	MessageTypes []string `json:"message_types"`
	QueueSize    int      `json:"queue_size,omitempty"`
	QueueDepth   int      `json:"queue_depth,omitempty"`
	WorkerCount  int      `json:"worker_count,omitempty"`
}

// NopPublisher 丢弃所有消息，events.transport=none 时使用
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, message IMessage) error { return nil }
func (NopPublisher) Close() error                                        { return nil }

// Targets 收集精确匹配与通配符处理器并返回副本，调用方负责持锁
func Targets(handlers map[string][]IMessageHandler, messageType string) []IMessageHandler {
	exact := handlers[messageType]
	wildcard := handlers["*"]
	out := make([]IMessageHandler, 0, len(exact)+len(wildcard))
	out = append(out, exact...)
	out = append(out, wildcard...)
	return out
}
