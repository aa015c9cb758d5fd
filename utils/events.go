package utils

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
)

// KafkaWriter is the subset of kafka.Writer the publisher needs.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisher writes JSON events to Kafka. With no brokers configured
// events are dropped.
type EventPublisher struct {
	writer KafkaWriter
}

func NewEventPublisher(brokers []string, topic string) *EventPublisher {
	if len(brokers) == 0 {
		log.Println("[EVENTS] No Kafka brokers configured, events disabled")
		return &EventPublisher{}
	}
	return &EventPublisher{writer: &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}}
}

func NewEventPublisherWithWriter(w KafkaWriter) *EventPublisher {
	return &EventPublisher{writer: w}
}

// Publish marshals value to JSON and writes it under key.
func (p *EventPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	if p.writer == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b})
}

func (p *EventPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
