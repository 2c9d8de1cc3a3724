// Package redisstreams 基于 Redis Streams 消费组的变更事件传输。
//
// 每种消息类型对应一个流 <StreamPrefix><type>，条目字段为 id/type/timestamp/payload/metadata。
package redisstreams

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sndeals/logging"
	"sndeals/messaging"
)

// client 只声明用到的命令，便于测试替换
type client interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	Close() error
}

// Config Redis Streams 传输配置
type Config struct {
	Client       redis.UniversalClient
	Addr         string
	Password     string
	DB           int
	StreamPrefix string
	GroupName    string
	ConsumerName string
	MaxLen       int64 // >0 时近似裁剪流长度
	BlockTimeout time.Duration
	ReadCount    int64
	Backoff      time.Duration
	Logger       logging.Logger
}

// Transport 实现 messaging.Transport
type Transport struct {
	cfg       Config
	client    client
	ownClient bool
	logger    logging.Logger

	handlers map[string][]messaging.IMessageHandler
	readers  map[string]bool

	mu      sync.RWMutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewTransport 创建传输实例；未提供 Client 时按 Addr 建立连接
func NewTransport(cfg Config) *Transport {
	var cl client
	own := false
	if cfg.Client != nil {
		cl = cfg.Client
	} else {
		cl = redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
		own = true
	}
	return newTransport(cfg, cl, own)
}

func newTransport(cfg Config, cl client, own bool) *Transport {
	if cfg.StreamPrefix == "" {
		cfg.StreamPrefix = "sndeals:"
	}
	if cfg.GroupName == "" {
		cfg.GroupName = "sndeals"
	}
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = "consumer-" + uuid.NewString()
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = 5 * time.Second
	}
	if cfg.ReadCount <= 0 {
		cfg.ReadCount = 10
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.ComponentLogger("transport.redisstreams")
	}
	return &Transport{
		cfg:       cfg,
		client:    cl,
		ownClient: own,
		logger:    cfg.Logger,
		handlers:  make(map[string][]messaging.IMessageHandler),
		readers:   make(map[string]bool),
	}
}

// Publish 以 XADD 写入对应类型的流
func (t *Transport) Publish(ctx context.Context, message messaging.IMessage) error {
	values, err := encode(message)
	if err != nil {
		return fmt.Errorf("encode message %s: %w", message.GetID(), err)
	}
	args := &redis.XAddArgs{Stream: t.stream(message.GetType()), Values: values}
	if t.cfg.MaxLen > 0 {
		args.MaxLen = t.cfg.MaxLen
		args.Approx = true
	}
	return t.client.XAdd(ctx, args).Err()
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
	if messageType == "*" {
		return errors.New("redis streams transport does not support wildcard subscriptions")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[messageType] = append(t.handlers[messageType], handler)
	if t.running {
		t.startReaderLocked(messageType)
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
			return nil
		}
	}
	return fmt.Errorf("handler not found for message type %s", messageType)
}

// Start 为每个已订阅类型启动一个消费协程
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return errors.New("redis streams transport already running")
	}
	t.ctx, t.cancel = context.WithCancel(ctx)
	for mt := range t.handlers {
		t.startReaderLocked(mt)
	}
	t.running = true
	return nil
}

// Close 停止消费协程，自建的客户端一并关闭
func (t *Transport) Close() error {
	t.mu.Lock()
	cancel := t.cancel
	t.running = false
	t.cancel = nil
	t.readers = make(map[string]bool)
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	t.wg.Wait()
	if t.ownClient {
		return t.client.Close()
	}
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

func (t *Transport) startReaderLocked(messageType string) {
	if t.readers[messageType] {
		return
	}
	t.readers[messageType] = true
	t.wg.Add(1)
	go t.read(t.ctx, messageType)
}

func (t *Transport) read(ctx context.Context, messageType string) {
	defer t.wg.Done()
	stream := t.stream(messageType)
	if err := t.ensureGroup(ctx, stream); err != nil {
		t.logger.Warn(ctx, "ensure consumer group failed", logging.String("stream", stream), logging.Error(err))
	}
	args := &redis.XReadGroupArgs{
		Group:    t.cfg.GroupName,
		Consumer: t.cfg.ConsumerName,
		Streams:  []string{stream, ">"},
		Count:    t.cfg.ReadCount,
		Block:    t.cfg.BlockTimeout,
	}
	for ctx.Err() == nil {
		res, err := t.client.XReadGroup(ctx, args).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			t.logger.Warn(ctx, "xreadgroup failed", logging.String("stream", stream), logging.Error(err))
			select {
			case <-time.After(t.cfg.Backoff):
			case <-ctx.Done():
			}
			continue
		}
		for _, s := range res {
			for _, entry := range s.Messages {
				t.handleEntry(ctx, s.Stream, entry)
			}
		}
	}
}

func (t *Transport) handleEntry(ctx context.Context, stream string, entry redis.XMessage) {
	defer func() {
		if err := t.client.XAck(ctx, stream, t.cfg.GroupName, entry.ID).Err(); err != nil {
			t.logger.Warn(ctx, "xack failed", logging.String("entry", entry.ID), logging.Error(err))
		}
	}()

	msg, err := decode(entry)
	if err != nil {
		t.logger.Warn(ctx, "decode stream entry failed", logging.String("entry", entry.ID), logging.Error(err))
		return
	}
	t.mu.RLock()
	handlers := append([]messaging.IMessageHandler(nil), t.handlers[msg.GetType()]...)
	t.mu.RUnlock()
	for _, h := range handlers {
		if err := h.Handle(ctx, msg); err != nil {
			t.logger.Warn(ctx, "message handler failed",
				logging.String("message_type", msg.GetType()),
				logging.String("handler", h.Type()),
				logging.Error(err))
		}
	}
}

func (t *Transport) ensureGroup(ctx context.Context, stream string) error {
	err := t.client.XGroupCreateMkStream(ctx, stream, t.cfg.GroupName, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

func (t *Transport) stream(messageType string) string {
	return t.cfg.StreamPrefix + messageType
}

func encode(m messaging.IMessage) (map[string]any, error) {
	payload, err := json.Marshal(m.GetPayload())
	if err != nil {
		return nil, err
	}
	metadata, err := json.Marshal(m.GetMetadata())
	if err != nil {
		return nil, err
	}
	ts := m.GetTimestamp()
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return map[string]any{
		"id":        m.GetID(),
		"type":      m.GetType(),
		"timestamp": strconv.FormatInt(ts.UnixMilli(), 10),
		"payload":   string(payload),
		"metadata":  string(metadata),
	}, nil
}

// decode 还原条目；缺失 id 时使用条目 ID
func decode(entry redis.XMessage) (*messaging.Message, error) {
	field := func(k string) string {
		v, _ := entry.Values[k].(string)
		return v
	}

	m := &messaging.Message{ID: field("id"), Type: field("type"), Metadata: make(map[string]any)}
	if m.ID == "" {
		m.ID = entry.ID
	}
	if raw := field("payload"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &m.Payload); err != nil {
			return nil, fmt.Errorf("payload: %w", err)
		}
	}
	if raw := field("metadata"); raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &m.Metadata); err != nil {
			return nil, fmt.Errorf("metadata: %w", err)
		}
	}
	if ms, err := strconv.ParseInt(field("timestamp"), 10, 64); err == nil {
		m.Timestamp = time.UnixMilli(ms).UTC()
	} else {
		m.Timestamp = time.Now().UTC()
	}
	return m, nil
}
