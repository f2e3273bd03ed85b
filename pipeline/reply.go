package pipeline

import (
	"context"
	"sync"
)

// Button is an inline keyboard button. Data is sent back as a callback.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

// Reply is an outbound message.
type Reply struct {
	ChatID  int64      `json:"chat_id"`
	Text    string     `json:"text"`
	Buttons [][]Button `json:"buttons,omitempty"`
}

// Sender delivers replies.
type Sender interface {
	Send(ctx context.Context, r Reply) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, r Reply) error

func (f SenderFunc) Send(ctx context.Context, r Reply) error {
	return f(ctx, r)
}

// Recorder is a Sender that keeps replies in memory. The HTTP transport uses
// one per request to answer the webhook call.
type Recorder struct {
	mu      sync.Mutex
	replies []Reply
}

func (r *Recorder) Send(_ context.Context, reply Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, reply)
	return nil
}

// Replies returns a copy of the recorded replies.
func (r *Recorder) Replies() []Reply {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Reply, len(r.replies))
	copy(out, r.replies)
	return out
}
