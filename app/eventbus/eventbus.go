// Package eventbus is an in-process publish/subscribe bus for client activity.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Handler processes a single delivered message. Errors are logged and the
// message is dropped.
type Handler func(ctx context.Context, msg *message.Message) error

// EventBus publishes JSON payloads to topics and fans them out to subscribers.
type EventBus interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}

// eventBus implements EventBus on a watermill GoChannel.
type eventBus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewEventBus creates an in-memory bus. bufferSize bounds each subscriber's
// output channel.
func NewEventBus(logger *slog.Logger, bufferSize int64) EventBus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: bufferSize},
		watermill.NewSlogLogger(logger),
	)
	return &eventBus{pubsub: pubsub, logger: logger}
}

func (eb *eventBus) Publish(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set("topic", topic)

	eb.logger.DebugContext(ctx, "Publishing message",
		slog.String("topic", topic),
		slog.String("message_id", msg.UUID),
	)

	if err := eb.pubsub.Publish(topic, msg); err != nil {
		eb.logger.ErrorContext(ctx, "Failed to publish message",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := eb.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}

	eb.logger.Info("Subscription started", slog.String("topic", topic))

	eb.wg.Add(1)
	go func() {
		defer eb.wg.Done()
		for msg := range messages {
			if err := handler(msg.Context(), msg); err != nil {
				eb.logger.Error("Handler error",
					slog.String("topic", topic),
					slog.String("message_id", msg.UUID),
					slog.Any("error", err),
				)
			}
			// GoChannel redelivers nacked messages immediately, so failures are acked too.
			msg.Ack()
		}
	}()

	return nil
}

// Close stops delivery and waits for running handlers to return.
func (eb *eventBus) Close() error {
	eb.mu.Lock()
	if eb.closed {
		eb.mu.Unlock()
		return nil
	}
	eb.closed = true
	eb.mu.Unlock()

	err := eb.pubsub.Close()
	eb.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close event bus: %w", err)
	}
	return nil
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("failed to decode message %s: %w", msg.UUID, err)
	}
	return v, nil
}
