package configs

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter returns nil when no brokers are configured.
func NewKafkaWriter(cfg *Config) *kafka.Writer {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           10 * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}
