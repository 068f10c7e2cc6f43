package ai

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClient returns a canned reply or error, optionally blocking until
// released.
type fakeClient struct {
	reply   string
	err     error
	release chan struct{}
	calls   atomic.Int32
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) Send(ctx context.Context, req Request) (string, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.reply, f.err
}

// waitForResponse polls until a response lands or the deadline passes.
func waitForResponse(t *testing.T, c *Coordinator) *PendingResponse {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if resp := c.Poll(); resp != nil {
			return resp
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no response before deadline")
	return nil
}

func TestSubmitEmptyContentFailsFast(t *testing.T) {
	client := &fakeClient{reply: "unused"}
	c := NewCoordinator(client)

	if ok := c.Submit(context.Background(), NewRequest("m", "", "   ")); ok {
		t.Error("Submit with empty content should return false")
	}

	state, msg := c.State()
	if state != StateError {
		t.Errorf("state = %v, want error", state)
	}
	if msg != ErrEmptyInput {
		t.Errorf("message = %q, want %q", msg, ErrEmptyInput)
	}
	if client.calls.Load() != 0 {
		t.Error("no worker should have been spawned")
	}
	if resp := c.Poll(); resp != nil {
		t.Error("no pending response expected")
	}
}

func TestSubmitSuccess(t *testing.T) {
	client := &fakeClient{reply: "the answer"}
	c := NewCoordinator(client)

	if ok := c.Submit(context.Background(), NewRequest("m", "sys", "question")); !ok {
		t.Fatal("Submit should succeed")
	}

	resp := waitForResponse(t, c)
	if resp.Err != nil {
		t.Fatalf("unexpected error: %v", resp.Err)
	}
	if resp.Content != "\n\nAssistant\n the answer" {
		t.Errorf("Content = %q", resp.Content)
	}

	state, _ := c.State()
	if state != StateIdle {
		t.Errorf("state after success = %v, want idle", state)
	}

	// A response is consumed exactly once.
	if again := c.Poll(); again != nil {
		t.Error("second Poll should return nil")
	}
}

func TestSubmitFailure(t *testing.T) {
	wantErr := errors.New("backend unavailable")
	client := &fakeClient{err: wantErr}
	c := NewCoordinator(client)

	c.Submit(context.Background(), NewRequest("m", "", "question"))

	resp := waitForResponse(t, c)
	if !errors.Is(resp.Err, wantErr) {
		t.Errorf("Err = %v, want %v", resp.Err, wantErr)
	}
	if resp.Content != "" {
		t.Errorf("Content = %q, want empty", resp.Content)
	}

	state, msg := c.State()
	if state != StateError {
		t.Errorf("state = %v, want error", state)
	}
	if msg != wantErr.Error() {
		t.Errorf("message = %q", msg)
	}
}

func TestSubmitWhileProcessingIsRejected(t *testing.T) {
	client := &fakeClient{reply: "first", release: make(chan struct{})}
	c := NewCoordinator(client)

	if ok := c.Submit(context.Background(), NewRequest("m", "", "one")); !ok {
		t.Fatal("first Submit should succeed")
	}
	if ok := c.Submit(context.Background(), NewRequest("m", "", "two")); ok {
		t.Error("second Submit while processing should be rejected")
	}

	close(client.release)
	resp := waitForResponse(t, c)
	if resp.Content != "\n\nAssistant\n first" {
		t.Errorf("Content = %q, the in-flight request should keep the slot", resp.Content)
	}
	if client.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", client.calls.Load())
	}
}

func TestPollBeforeCompletion(t *testing.T) {
	client := &fakeClient{reply: "slow", release: make(chan struct{})}
	c := NewCoordinator(client)

	c.Submit(context.Background(), NewRequest("m", "", "q"))

	if resp := c.Poll(); resp != nil {
		t.Error("Poll before completion should return nil")
	}
	state, _ := c.State()
	if state != StateProcessing {
		t.Errorf("state = %v, want processing", state)
	}

	close(client.release)
	waitForResponse(t, c)
}

func TestResubmitAfterCompletion(t *testing.T) {
	client := &fakeClient{reply: "r"}
	c := NewCoordinator(client)

	c.Submit(context.Background(), NewRequest("m", "", "q1"))
	waitForResponse(t, c)

	if ok := c.Submit(context.Background(), NewRequest("m", "", "q2")); !ok {
		t.Error("Submit after completion should succeed")
	}
	waitForResponse(t, c)

	if client.calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", client.calls.Load())
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "Idle"},
		{StateProcessing, "In Progress"},
		{StateError, "Error"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestNewRequestAssignsID(t *testing.T) {
	a := NewRequest("m", "s", "p")
	b := NewRequest("m", "s", "p")
	if a.ID == "" || a.ID == b.ID {
		t.Error("requests should get distinct non-empty IDs")
	}
}

func TestNewClientUnknownBackend(t *testing.T) {
	if _, err := NewClient("nope", "", ""); err == nil {
		t.Error("unknown backend should error")
	}
	for _, name := range []string{"anthropic", "openai", "gemini", "ollama"} {
		client, err := NewClient(name, "key", "")
		if err != nil {
			t.Errorf("NewClient(%q): %v", name, err)
			continue
		}
		if client.Name() != name {
			t.Errorf("Name() = %q, want %q", client.Name(), name)
		}
	}
}
