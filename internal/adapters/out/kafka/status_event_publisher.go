// Package kafka publishes order status changes for the platform's notification service.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"farmacia/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("farmacia/kafka")

var _ ports.StatusEventPublisher = (*StatusEventPublisher)(nil)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// StatusEventPublisher writes OrderStatusChanged events keyed by order ID, so all events
// of one order land on the same partition in order.
type StatusEventPublisher struct {
	writer MessageWriter
	topic  string
}

// NewStatusEventPublisher creates a publisher backed by an asynchronous kafka.Writer.
// Publish only enqueues the event; delivery failures surface in the completion callback,
// which logs them.
func NewStatusEventPublisher(brokers []string, topic string, logger *slog.Logger) *StatusEventPublisher {
	logger = logger.With("component", "StatusEventPublisher", "topic", topic)

	return NewStatusEventPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           100 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		Completion:             logFailedDeliveries(logger),
	}, topic)
}

func logFailedDeliveries(logger *slog.Logger) func([]kafka.Message, error) {
	return func(messages []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, msg := range messages {
			logger.Warn("Status change event not delivered", "order_id", string(msg.Key), "error", err)
		}
	}
}

// NewStatusEventPublisherWithWriter creates a publisher over any writer.
func NewStatusEventPublisherWithWriter(writer MessageWriter, topic string) *StatusEventPublisher {
	return &StatusEventPublisher{writer: writer, topic: topic}
}

// Publish hands one event to the writer. With the writer built by NewStatusEventPublisher it
// returns once the event is queued, without waiting for the broker.
func (p *StatusEventPublisher) Publish(ctx context.Context, event ports.OrderStatusChanged) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode status event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.status_changed")},
		},
	}

	ctx, span := tracer.Start(ctx, "send "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingKafkaMessageKey(event.OrderID),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, messageCarrier{msg: &msg})

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("publish status event: %w", err)
	}

	return nil
}

// Close flushes queued messages.
func (p *StatusEventPublisher) Close() error {
	return p.writer.Close()
}
