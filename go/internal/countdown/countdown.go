// Package countdown computes time remaining to an auction deadline and
// drives the one-second recomputation tick while an auction is live.
package countdown

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// TimeLeft is a deadline's remaining duration decomposed for display.
type TimeLeft struct {
	Hours   int
	Minutes int
	Seconds int
}

// String renders the original "3h 12m 5s" format.
func (t TimeLeft) String() string {
	return fmt.Sprintf("%dh %dm %ds", t.Hours, t.Minutes, t.Seconds)
}

// Remaining returns the time left until deadline as seen at now. The second
// return is false once now >= deadline: an elapsed deadline yields the
// sentinel, never a zero or negative TimeLeft.
func Remaining(deadline, now time.Time) (TimeLeft, bool) {
	diff := deadline.Sub(now)
	if diff <= 0 {
		return TimeLeft{}, false
	}
	secs := int(diff / time.Second)
	return TimeLeft{
		Hours:   secs / 3600,
		Minutes: (secs / 60) % 60,
		Seconds: secs % 60,
	}, true
}

// Ticker recomputes a deadline's TimeLeft every second and hands the result
// to a callback. The tick stops when the context is cancelled or the
// deadline elapses; the elapsed sentinel is delivered exactly once.
type Ticker struct {
	clock clockwork.Clock
}

// NewTicker creates a Ticker on the given clock. Pass a fake clock in tests.
func NewTicker(clock clockwork.Clock) *Ticker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Ticker{clock: clock}
}

// Run blocks, invoking fn immediately and then once per second until the
// deadline elapses or ctx is cancelled. fn receives ok=false exactly once,
// as the final call, when the deadline has passed.
func (t *Ticker) Run(ctx context.Context, deadline time.Time, fn func(left TimeLeft, ok bool)) {
	emit := func() bool {
		left, ok := Remaining(deadline, t.clock.Now())
		fn(left, ok)
		return ok
	}

	if !emit() {
		return
	}

	ticker := t.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if !emit() {
				return
			}
		}
	}
}
