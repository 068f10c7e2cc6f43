// Package ai coordinates asynchronous requests to language-model
// backends.
//
// The Coordinator owns the only state shared between the foreground and
// the single in-flight worker goroutine: a RequestState and a pending
// response slot, both behind a short-lived mutex that is never held
// across the network call.
package ai

import (
	"context"
	"strings"
	"sync"
)

// ErrEmptyInput is the status message shown when submit is attempted
// with nothing to send.
const ErrEmptyInput = "Cannot send empty buffer. Please write the question"

// State describes the coordinator's request lifecycle.
type State uint8

const (
	StateIdle State = iota
	StateProcessing
	StateError
)

// String returns the state's display name for the request status line.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateProcessing:
		return "In Progress"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// PendingResponse is a completed request's result, consumed exactly once
// by the foreground.
type PendingResponse struct {
	Content string
	Err     error
}

// Coordinator submits requests to a backend client and publishes results
// back to the foreground through Poll. Exactly one worker runs at a
// time; a Submit while one is processing is rejected.
type Coordinator struct {
	client Client

	mu         sync.Mutex
	state      State
	errMsg     string
	pending    *PendingResponse
	needsCheck bool
}

// NewCoordinator creates a coordinator backed by the given client.
func NewCoordinator(client Client) *Coordinator {
	return &Coordinator{client: client}
}

// State returns the current request state and, for StateError, the
// backend's message.
func (c *Coordinator) State() (State, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.errMsg
}

// Submit starts a background request for the given content.
// It never blocks. Empty content fails fast without spawning a worker.
// A submit while a request is processing is rejected; the in-flight
// request keeps the slot.
func (c *Coordinator) Submit(ctx context.Context, req Request) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(req.Prompt) == "" {
		c.state = StateError
		c.errMsg = ErrEmptyInput
		return false
	}
	if c.state == StateProcessing {
		return false
	}

	c.state = StateProcessing
	c.errMsg = ""
	c.needsCheck = true

	go c.run(ctx, req)
	return true
}

// run performs the network call on the worker goroutine. The mutex is
// taken only after the call returns.
func (c *Coordinator) run(ctx context.Context, req Request) {
	reply, err := c.client.Send(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.pending = &PendingResponse{Err: err}
		c.state = StateError
		c.errMsg = err.Error()
		return
	}

	c.pending = &PendingResponse{Content: formatReply(reply)}
	c.state = StateIdle
	c.errMsg = ""
}

// Poll takes any pending response, clearing the slot. Called once per
// render tick on the foreground; returns nil when nothing completed.
func (c *Coordinator) Poll() *PendingResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.needsCheck {
		return nil
	}
	resp := c.pending
	if resp != nil {
		c.pending = nil
		c.needsCheck = false
	}
	return resp
}

// formatReply frames a backend reply for appending to the document.
func formatReply(reply string) string {
	return "\n\nAssistant\n " + reply
}
