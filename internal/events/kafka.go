package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder mirrors every bus event onto a Kafka topic keyed by event id.
type KafkaForwarder struct {
	writer  messageWriter
	timeout time.Duration
	logger  zerolog.Logger
}

func NewKafkaForwarder(brokers []string, topic string, logger *zerolog.Logger) *KafkaForwarder {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaForwarder(writer, logger)
}

func newKafkaForwarder(w messageWriter, logger *zerolog.Logger) *KafkaForwarder {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "kafka_forwarder").Logger()
	}
	return &KafkaForwarder{writer: w, timeout: 5 * time.Second, logger: l}
}

// Attach subscribes the forwarder to every event on the bus.
func (f *KafkaForwarder) Attach(bus *EventBus) {
	bus.SubscribeAll(f.Handle)
}

func (f *KafkaForwarder) Handle(msg *Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	err := f.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Key),
		Value: msg.Payload,
		Time:  msg.CreatedAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(msg.Type)},
		},
	})
	if err != nil {
		f.logger.Error().Err(err).Str("type", msg.Type).Str("key", msg.Key).Msg("failed to forward event")
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

func eventKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
