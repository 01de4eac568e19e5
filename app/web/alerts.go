package web

import (
	"context"
	"sync"
)

// AlertBox holds alerts until the next page render shows them.
type AlertBox struct {
	mu      sync.Mutex
	pending []string
}

// Alert queues message for display.
func (a *AlertBox) Alert(_ context.Context, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = append(a.pending, message)
}

// Drain returns and clears the queued alerts.
func (a *AlertBox) Drain() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.pending
	a.pending = nil
	return out
}
