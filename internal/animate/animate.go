// Package animate paces step production for presentation layers. The engine
// never sleeps; pacing lives here, on the caller's clock.
package animate

import (
	"context"
	"time"

	"sumtutor/internal/session"
)

// FrameSource yields frames until Done reports true.
type FrameSource interface {
	Next(ctx context.Context) (session.Frame, error)
	Done() bool
}

// Play renders one frame immediately and then one per interval until the
// source is done or ctx is cancelled. Cancellation abandons the remaining
// frames and returns ctx.Err().
func Play(ctx context.Context, src FrameSource, interval time.Duration, render func(session.Frame) error) error {
	if interval <= 0 {
		return drain(ctx, src, render)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !src.Done() {
		frame, err := src.Next(ctx)
		if err != nil {
			return err
		}
		if err := render(frame); err != nil {
			return err
		}
		if src.Done() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func drain(ctx context.Context, src FrameSource, render func(session.Frame) error) error {
	for !src.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := src.Next(ctx)
		if err != nil {
			return err
		}
		if err := render(frame); err != nil {
			return err
		}
	}
	return nil
}

// SessionSource adapts a stepping session to FrameSource.
type SessionSource struct {
	Session *session.Session
}

func (s SessionSource) Next(ctx context.Context) (session.Frame, error) {
	return s.Session.Next(ctx)
}

func (s SessionSource) Done() bool {
	return s.Session.Phase() != session.PhaseStepping
}
