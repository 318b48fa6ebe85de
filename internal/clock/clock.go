// Package clock provides the time source used by the countdowns and the
// order simulator. Production code uses Real; tests use Fake and move time
// forward explicitly with Advance.
package clock

import "time"

// Clock abstracts the time operations the services depend on.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc waits for d, then calls f. The returned Timer can cancel
	// the pending call.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a pending AfterFunc call.
type Timer struct {
	stopFunc func() bool
}

// Stop prevents the Timer from firing. It returns false if the timer has
// already fired or been stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.stopFunc == nil {
		return false
	}

	return t.stopFunc()
}
