// Package notify publishes import progress events so a live asset browser
// can pick up new holds while a run is in progress.
package notify

import (
	"context"
	"sync"
)

// Event names emitted during a run.
const (
	EventHoldImported   = "hold_imported"
	EventHoldFailed     = "hold_failed"
	EventImportFinished = "import_finished"
)

// Publisher delivers progress events. Publishing is best effort: a failure
// to deliver never fails an import.
type Publisher interface {
	Publish(ctx context.Context, event string, payload map[string]any)
	Close() error
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, string, map[string]any) {}

// Close implements Publisher.
func (Nop) Close() error { return nil }

// Message is one recorded event.
type Message struct {
	Event   string
	Payload map[string]any
}

// Recorder keeps every published event in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	closed   bool
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, event string, payload map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Event: event, Payload: payload})
}

// Close implements Publisher.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Messages returns a copy of the recorded events.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
