package utils

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestEventPublisher_Publish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewEventPublisherWithWriter(fw)

	err := p.Publish(context.Background(), "course-1", map[string]string{"type": "enrollment.completed"})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "course-1", string(fw.msgs[0].Key))

	var body map[string]string
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &body))
	assert.Equal(t, "enrollment.completed", body["type"])

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}

func TestEventPublisher_DisabledWithoutBrokers(t *testing.T) {
	p := NewEventPublisher(nil, "enrollments")

	assert.NoError(t, p.Publish(context.Background(), "k", map[string]string{"a": "b"}))
	assert.NoError(t, p.Close())
}

func TestEventPublisher_MarshalError(t *testing.T) {
	fw := &fakeWriter{}
	p := NewEventPublisherWithWriter(fw)

	err := p.Publish(context.Background(), "k", make(chan int))
	assert.Error(t, err)
	assert.Empty(t, fw.msgs)
}
