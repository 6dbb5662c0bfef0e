package watcher

import (
	"context"
	"time"

	"github.com/tlindh/graphmatch/pkg/logging"
)

// Debouncer batches rapid file system events to avoid excessive re-solving
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new event debouncer
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

// run accumulates events until the input has been quiet for quietPeriod, or
// maxWait has elapsed since the first accumulated event
func (d *Debouncer) run(ctx context.Context) {
	var (
		quietTimer   *time.Timer
		maxWaitTimer *time.Timer
		pending      []string
	)

	timerChan := func(t *time.Timer) <-chan time.Time {
		if t != nil {
			return t.C
		}
		return nil
	}

	flush := func() {
		if len(pending) == 0 {
			return
		}
		logging.Debug("flushing accumulated events", "count", len(pending))
		d.output <- ChangeEvent{Paths: pending, Timestamp: time.Now()}
		pending = nil

		if quietTimer != nil {
			quietTimer.Stop()
			quietTimer = nil
		}
		if maxWaitTimer != nil {
			maxWaitTimer.Stop()
			maxWaitTimer = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			close(d.output)
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				close(d.output)
				return
			}

			pending = append(pending, event.Paths...)

			if quietTimer == nil {
				quietTimer = time.NewTimer(d.quietPeriod)
			} else {
				quietTimer.Reset(d.quietPeriod)
			}
			if maxWaitTimer == nil {
				maxWaitTimer = time.NewTimer(d.maxWait)
			}

		case <-timerChan(quietTimer):
			flush()

		case <-timerChan(maxWaitTimer):
			flush()
		}
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
