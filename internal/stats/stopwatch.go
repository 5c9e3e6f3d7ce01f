package stats

import "time"

// StopWatch measures elapsed wall-clock time from construction, mirroring
// the original benchmark driver's timer.
type StopWatch struct {
	start time.Time
}

// NewStopWatch starts a stopwatch.
func NewStopWatch() StopWatch {
	return StopWatch{start: time.Now()}
}

// Seconds returns elapsed time in seconds.
func (s StopWatch) Seconds() float64 { return time.Since(s.start).Seconds() }

// Millis returns elapsed time in milliseconds.
func (s StopWatch) Millis() float64 { return float64(time.Since(s.start)) / float64(time.Millisecond) }

// Micros returns elapsed time in microseconds.
func (s StopWatch) Micros() float64 { return float64(time.Since(s.start)) / float64(time.Microsecond) }
