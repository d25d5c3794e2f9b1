package importer

import (
	"context"
	"time"
)

// Pacer waits between remote calls.
type Pacer interface {
	Pause(ctx context.Context, d time.Duration) error
}

type timerPacer struct{}

// TimerPacer sleeps for the requested duration or until ctx is done.
func TimerPacer() Pacer {
	return timerPacer{}
}

func (timerPacer) Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
