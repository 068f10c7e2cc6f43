package app

import (
	"context"
	"errors"
	"time"

	"github.com/empty-buffer/rusty-ai/internal/renderer/backend"
)

// frameInterval is the redraw cadence. Input is event driven; the timer
// only drives assistant polling, message expiry, and the repaint.
const frameInterval = 16 * time.Millisecond

// Run drives the editor until the user quits or ctx is cancelled.
// Terminal events are pumped on their own goroutine because PollEvent
// blocks; everything else stays on this goroutine.
func (e *Editor) Run(ctx context.Context) error {
	defer e.Close()

	events := make(chan backend.Event, 32)
	go func() {
		for {
			ev := e.term.PollEvent()
			if ev.Type == backend.EventNone {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	e.rend.Draw(e.frame())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if err := e.HandleEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					e.log.Info("quit requested")
					return nil
				}
				return err
			}
			e.rend.Draw(e.frame())

		case now := <-ticker.C:
			e.Tick(now)
			e.rend.Draw(e.frame())
		}
	}
}
