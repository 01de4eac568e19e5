package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/eventbus"
)

// MessageCapture captures messages delivered by the event bus for test verification
type MessageCapture struct {
	messages map[string][]*message.Message
	mutex    sync.RWMutex
}

// NewMessageCapture creates a new message capture instance
func NewMessageCapture() *MessageCapture {
	return &MessageCapture{
		messages: make(map[string][]*message.Message),
	}
}

// Subscribe registers the capture on each topic.
func (mc *MessageCapture) Subscribe(ctx context.Context, bus eventbus.EventBus, topics ...string) error {
	for _, topic := range topics {
		if err := bus.Subscribe(ctx, topic, mc.CaptureHandler(topic)); err != nil {
			return err
		}
	}
	return nil
}

// CaptureHandler creates a handler that captures messages for a specific topic
func (mc *MessageCapture) CaptureHandler(topic string) eventbus.Handler {
	return func(_ context.Context, msg *message.Message) error {
		mc.mutex.Lock()
		mc.messages[topic] = append(mc.messages[topic], msg)
		mc.mutex.Unlock()
		return nil
	}
}

// GetMessages returns captured messages for a specific topic
func (mc *MessageCapture) GetMessages(topic string) []*message.Message {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	// Return a copy to avoid race conditions
	msgs := make([]*message.Message, len(mc.messages[topic]))
	copy(msgs, mc.messages[topic])
	return msgs
}

// WaitForMessages polls until count messages arrived on topic or timeout passes.
func (mc *MessageCapture) WaitForMessages(topic string, count int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if len(mc.GetMessages(topic)) >= count {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return len(mc.GetMessages(topic)) >= count
}

// Clear clears all captured messages
func (mc *MessageCapture) Clear() {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.messages = make(map[string][]*message.Message)
}
