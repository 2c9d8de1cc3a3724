package messaging

import "context"

// IMessageHandler 消息处理器接口
type IMessageHandler interface {
	Handle(ctx context.Context, message IMessage) error

	// Type 返回处理器类型（用于日志和调试）
	Type() string
}

// HandlerFunc 把函数适配为 IMessageHandler
type HandlerFunc struct {
	Name string
	Fn   func(ctx context.Context, message IMessage) error
}

func (h *HandlerFunc) Handle(ctx context.Context, message IMessage) error {
	return h.Fn(ctx, message)
}

func (h *HandlerFunc) Type() string { return h.Name }
