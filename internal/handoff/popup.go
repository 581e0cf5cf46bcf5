// Package handoff implements the human hand-off protocol: a blocking
// cross-thread rendezvous between the automation worker and the UI or
// controller thread. By construction only one request is outstanding at a
// time, so this is a request/response pair, not a queue.
package handoff

import (
	"context"
	"fmt"
	"sync"
)

// Kind tells the UI what sort of interaction the worker needs.
type Kind string

// Request kinds.
const (
	// KindPersonal asks the human to supply a sensitive answer.
	KindPersonal Kind = "personal"
	// KindCaptcha asks the human to clear a login wall or CAPTCHA in the
	// live browser and confirm.
	KindCaptcha Kind = "captcha"
)

// Request is one popup: created by the worker, filled by the UI thread,
// consumed exactly once.
type Request struct {
	Question string
	Kind     Kind

	once     sync.Once
	answer   string
	answered bool
	remember bool
	done     chan struct{}
}

// Resolve supplies the human's answer and optionally asks for it to be
// remembered. Only the first call has any effect.
func (r *Request) Resolve(answer string, remember bool) {
	r.once.Do(func() {
		r.answer = answer
		r.answered = true
		r.remember = remember
		close(r.done)
	})
}

// Dismiss completes the request without an answer. The worker treats this
// as an unresolved field and aborts the current application.
func (r *Request) Dismiss() {
	r.once.Do(func() {
		close(r.done)
	})
}

// Answer is the outcome of a completed request.
type Answer struct {
	Text     string
	Remember bool
}

// Notifier delivers a pending request to the UI thread. It must not block:
// the worker is already blocked waiting for the response.
type Notifier func(*Request)

// Broker owns the single-outstanding-request invariant.
type Broker struct {
	notify Notifier

	mu   sync.Mutex
	busy bool
}

// NewBroker returns a broker that hands pending requests to notify.
func NewBroker(notify Notifier) *Broker {
	return &Broker{notify: notify}
}

// Ask publishes a request and blocks until the UI resolves or dismisses it,
// or ctx is cancelled. A nil Answer with nil error means the request was
// dismissed.
func (b *Broker) Ask(ctx context.Context, question string, kind Kind) (*Answer, error) {
	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		return nil, fmt.Errorf("a popup request is already outstanding")
	}
	b.busy = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.busy = false
		b.mu.Unlock()
	}()

	req := &Request{
		Question: question,
		Kind:     kind,
		done:     make(chan struct{}),
	}
	b.notify(req)

	select {
	case <-req.done:
	case <-ctx.Done():
		req.Dismiss()
		return nil, ctx.Err()
	}

	if !req.answered {
		return nil, nil
	}
	return &Answer{Text: req.answer, Remember: req.remember}, nil
}
