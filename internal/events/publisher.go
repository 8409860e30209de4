package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher delivers ledger events
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e BetPlaced) error
	PublishBetSettled(ctx context.Context, e BetSettled) error
}

// Nop discards every event, used when no brokers are configured
type Nop struct{}

func (Nop) PublishBetPlaced(context.Context, BetPlaced) error   { return nil }
func (Nop) PublishBetSettled(context.Context, BetSettled) error { return nil }

// messageWriter is the subset of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON keyed by bet id, one writer per topic
type KafkaPublisher struct {
	placed  messageWriter
	settled messageWriter
}

// NewWriter builds a writer for topic
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{}, // Same bet id lands on the same partition
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

// NewKafkaPublisher opens writers for the placed and settled topics
func NewKafkaPublisher(brokers []string, placedTopic, settledTopic string) *KafkaPublisher {
	return &KafkaPublisher{
		placed:  NewWriter(brokers, placedTopic),
		settled: NewWriter(brokers, settledTopic),
	}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e BetPlaced) error {
	if e.TsUnixMs == 0 {
		e.TsUnixMs = nowMs()
	}
	msg, err := encode(e.BetID, e)
	if err != nil {
		return err
	}
	return p.placed.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e BetSettled) error {
	if e.TsUnixMs == 0 {
		e.TsUnixMs = nowMs()
	}
	msg, err := encode(e.BetID, e)
	if err != nil {
		return err
	}
	return p.settled.WriteMessages(ctx, msg)
}

// Close flushes and closes both writers
func (p *KafkaPublisher) Close() error {
	err1 := p.placed.Close()
	err2 := p.settled.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func encode(key string, payload any) (kafka.Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event: %w", err)
	}
	return kafka.Message{Key: []byte(key), Value: b, Time: time.Now()}, nil
}
