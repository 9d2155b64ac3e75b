package logging

import "time"

// Timer measures the duration of a call.
type Timer struct {
	start time.Time
}

// StartTimer starts a timer at the current instant.
func StartTimer() Timer {
	return Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started.
func (t Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
