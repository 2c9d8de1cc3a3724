package natsjetstream

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sndeals/messaging"
)

func TestEncodeDecode(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msg := &messaging.Message{
		ID:        "msg-1",
		Type:      "post.created",
		Timestamp: ts,
		Payload:   map[string]any{"id": 7, "title": "Bike"},
		Metadata:  map[string]any{"entity": "post"},
	}
	data, err := encode(msg)
	require.NoError(t, err)

	decoded, err := decode(data, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", decoded.GetID())
	assert.Equal(t, "post.created", decoded.GetType())
	assert.True(t, ts.Equal(decoded.GetTimestamp()))

	payload := decoded.GetPayload().(map[string]any)
	assert.Equal(t, float64(7), payload["id"])
	assert.Equal(t, "Bike", payload["title"])
	assert.Equal(t, "post", decoded.GetMetadata()["entity"])
}

func TestDecode_FallbackType(t *testing.T) {
	decoded, err := decode([]byte(`{"id":"x","payload":null}`), "comment.deleted")
	require.NoError(t, err)
	assert.Equal(t, "comment.deleted", decoded.GetType())
	assert.NotNil(t, decoded.GetMetadata())

	_, err = decode([]byte(`not json`), "x")
	assert.Error(t, err)
}

func TestNewTransport_Defaults(t *testing.T) {
	tr := NewTransport(Config{})
	assert.Equal(t, "SNDEALS", tr.cfg.Stream)
	assert.Equal(t, "sndeals.", tr.cfg.SubjectPrefix)
	assert.Equal(t, "sndeals.post.created", tr.subject("post.created"))
	assert.Equal(t, nats.LimitsPolicy, retentionPolicy(""))
	assert.Equal(t, nats.WorkQueuePolicy, retentionPolicy("WorkQueue"))
}

func TestPublish_NotRunning(t *testing.T) {
	tr := NewTransport(Config{})
	err := tr.Publish(context.Background(), messaging.NewMessage("post.created", nil))
	assert.Error(t, err)
	assert.False(t, tr.Stats().Running)
	require.NoError(t, tr.Close())
}
