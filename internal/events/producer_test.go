package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_NoBrokers(t *testing.T) {
	p := NewPublisher(nil)
	_, ok := p.(NopPublisher)
	require.True(t, ok, "expected NopPublisher, got %T", p)

	assert.NoError(t, p.Publish(context.Background(), TopicUsers, "1", UserEvent{Type: UserRegistered, UserID: 1}))
	assert.NoError(t, p.Close())
}

func TestNewPublisher_WithBrokers(t *testing.T) {
	p := NewPublisher([]string{"kafka:9092"})
	kp, ok := p.(*KafkaPublisher)
	require.True(t, ok, "expected *KafkaPublisher, got %T", p)
	assert.Equal(t, "kafka:9092", kp.writer.Addr.String())
	assert.NoError(t, kp.Close())
}

func TestKafkaPublisher_MarshalError(t *testing.T) {
	p := NewKafkaPublisher([]string{"kafka:9092"})
	t.Cleanup(func() { _ = p.Close() })

	err := p.Publish(context.Background(), TopicProducts, "1", map[string]any{"bad": make(chan int)})
	assert.ErrorContains(t, err, "json.Marshal failed")
}
