// Package natsjetstream 基于 NATS JetStream 的变更事件传输。
//
// 消息以 JSON 发布到主题 <SubjectPrefix><type>，Start 时确保流存在。
package natsjetstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"sndeals/logging"
	"sndeals/messaging"
)

// Config JetStream 传输配置
type Config struct {
	URL           string
	Stream        string
	SubjectPrefix string
	DurablePrefix string
	AckWait       time.Duration
	MaxAckPending int
	Retention     string // limits|workqueue|interest（默认 limits）
	Replicas      int
	Logger        logging.Logger
	Conn          *nats.Conn
}

// Transport 实现 messaging.Transport
type Transport struct {
	cfg      Config
	logger   logging.Logger
	conn     *nats.Conn
	js       nats.JetStreamContext
	ownsConn bool

	handlers map[string][]messaging.IMessageHandler
	subs     map[string]*nats.Subscription

	mu      sync.RWMutex
	running bool
}

// NewTransport 创建传输实例，连接延迟到 Start
func NewTransport(cfg Config) *Transport {
	if cfg.Stream == "" {
		cfg.Stream = "SNDEALS"
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "sndeals."
	}
	if cfg.DurablePrefix == "" {
		cfg.DurablePrefix = "sndeals-"
	}
	if cfg.AckWait <= 0 {
		cfg.AckWait = 30 * time.Second
	}
	if cfg.MaxAckPending <= 0 {
		cfg.MaxAckPending = 256
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.ComponentLogger("transport.nats")
	}
	return &Transport{
		cfg:      cfg,
		logger:   cfg.Logger,
		handlers: make(map[string][]messaging.IMessageHandler),
		subs:     make(map[string]*nats.Subscription),
	}
}

func (t *Transport) Publish(ctx context.Context, message messaging.IMessage) error {
	t.mu.RLock()
	js, running := t.js, t.running
	t.mu.RUnlock()
	if !running || js == nil {
		return errors.New("nats transport not running")
	}

	data, err := encode(message)
	if err != nil {
		return fmt.Errorf("encode message %s: %w", message.GetID(), err)
	}
	_, err = js.Publish(t.subject(message.GetType()), data, nats.Context(ctx), nats.MsgId(message.GetID()))
	return err
}

func (t *Transport) PublishAll(ctx context.Context, messages []messaging.IMessage) error {
	for _, m := range messages {
		if err := t.Publish(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transport) Subscribe(messageType string, handler messaging.IMessageHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[messageType] = append(t.handlers[messageType], handler)
	if t.running {
		return t.subscribeLocked(messageType)
	}
	return nil
}

func (t *Transport) Unsubscribe(messageType string, handler messaging.IMessageHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	handlers := t.handlers[messageType]
	for i, h := range handlers {
		if h == handler {
			t.handlers[messageType] = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
	if len(t.handlers[messageType]) == 0 {
		delete(t.handlers, messageType)
		if sub, ok := t.subs[messageType]; ok {
			_ = sub.Drain()
			delete(t.subs, messageType)
		}
	}
	return nil
}

// Start 建立连接、确保流存在并为已注册类型创建订阅
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return errors.New("nats transport already running")
	}
	if err := t.connect(); err != nil {
		return err
	}
	if err := t.ensureStream(); err != nil {
		return err
	}
	for mt := range t.handlers {
		if err := t.subscribeLocked(mt); err != nil {
			return err
		}
	}
	t.running = true
	t.logger.Info(ctx, "nats transport started",
		logging.String("stream", t.cfg.Stream),
		logging.String("subject_prefix", t.cfg.SubjectPrefix))
	return nil
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	for mt, sub := range t.subs {
		_ = sub.Drain()
		delete(t.subs, mt)
	}
	if t.ownsConn && t.conn != nil {
		t.conn.Close()
	}
	t.conn = nil
	t.js = nil
	return nil
}

func (t *Transport) Stats() messaging.TransportStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	stats := messaging.TransportStats{Running: t.running, MessageTypes: make([]string, 0, len(t.handlers))}
	for mt, hs := range t.handlers {
		stats.HandlerCount += len(hs)
		stats.MessageTypes = append(stats.MessageTypes, mt)
	}
	return stats
}

func (t *Transport) connect() error {
	if t.conn != nil && t.js != nil {
		return nil
	}
	if t.cfg.Conn != nil {
		t.conn = t.cfg.Conn
	} else {
		url := t.cfg.URL
		if url == "" {
			url = nats.DefaultURL
		}
		conn, err := nats.Connect(url, nats.Name("sndeals"))
		if err != nil {
			return fmt.Errorf("connect nats %s: %w", url, err)
		}
		t.conn = conn
		t.ownsConn = true
	}
	js, err := t.conn.JetStream()
	if err != nil {
		return err
	}
	t.js = js
	return nil
}

func (t *Transport) ensureStream() error {
	_, err := t.js.StreamInfo(t.cfg.Stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return err
	}
	sc := &nats.StreamConfig{
		Name:      t.cfg.Stream,
		Subjects:  []string{t.cfg.SubjectPrefix + ">"},
		Retention: retentionPolicy(t.cfg.Retention),
	}
	if t.cfg.Replicas > 0 {
		sc.Replicas = t.cfg.Replicas
	}
	_, err = t.js.AddStream(sc)
	return err
}

func retentionPolicy(name string) nats.RetentionPolicy {
	switch strings.ToLower(name) {
	case "workqueue":
		return nats.WorkQueuePolicy
	case "interest":
		return nats.InterestPolicy
	default:
		return nats.LimitsPolicy
	}
}

func (t *Transport) subscribeLocked(messageType string) error {
	if _, exists := t.subs[messageType]; exists {
		return nil
	}
	// 通配符订阅整个前缀
	subject := t.subject(messageType)
	durable := t.cfg.DurablePrefix + strings.NewReplacer(".", "_", "*", "all").Replace(messageType)
	if messageType == "*" {
		subject = t.cfg.SubjectPrefix + ">"
	}
	sub, err := t.js.QueueSubscribe(subject, durable, t.onMessage(messageType),
		nats.ManualAck(),
		nats.Durable(durable),
		nats.AckWait(t.cfg.AckWait),
		nats.MaxAckPending(t.cfg.MaxAckPending))
	if err != nil {
		return err
	}
	t.subs[messageType] = sub
	return nil
}

func (t *Transport) onMessage(subscribed string) nats.MsgHandler {
	return func(msg *nats.Msg) {
		ctx := context.Background()
		decoded, err := decode(msg.Data, strings.TrimPrefix(msg.Subject, t.cfg.SubjectPrefix))
		if err != nil {
			// 无法解码的消息重投也没有意义
			t.logger.Warn(ctx, "decode nats message failed", logging.String("subject", msg.Subject), logging.Error(err))
			_ = msg.Term()
			return
		}

		// 每个类型（含 "*"）有独立订阅，这里只分发给该订阅的处理器
		t.mu.RLock()
		handlers := append([]messaging.IMessageHandler(nil), t.handlers[subscribed]...)
		t.mu.RUnlock()

		for _, h := range handlers {
			if err := h.Handle(ctx, decoded); err != nil {
				t.logger.Warn(ctx, "message handler failed",
					logging.String("message_type", decoded.GetType()),
					logging.String("handler", h.Type()),
					logging.Error(err))
			}
		}
		if err := msg.Ack(); err != nil {
			t.logger.Warn(ctx, "nats ack failed", logging.Error(err))
		}
	}
}

func (t *Transport) subject(messageType string) string {
	return t.cfg.SubjectPrefix + messageType
}

func encode(m messaging.IMessage) ([]byte, error) {
	ts := m.GetTimestamp()
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return json.Marshal(&messaging.Message{
		ID:        m.GetID(),
		Type:      m.GetType(),
		Timestamp: ts,
		Payload:   m.GetPayload(),
		Metadata:  m.GetMetadata(),
	})
}

// decode 解码消息；消息体未带类型时回退到主题推导出的类型
func decode(data []byte, fallbackType string) (*messaging.Message, error) {
	var m messaging.Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Type == "" {
		m.Type = fallbackType
	}
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	return &m, nil
}
