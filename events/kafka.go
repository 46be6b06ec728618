package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"foodorder/services"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes order events keyed by order id.
type KafkaPublisher struct {
	Writer messageWriter
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishOrder(ctx context.Context, evt services.OrderEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to serialize order event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: payload,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(evt.Type)},
		},
	}
	if err := p.Writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}
