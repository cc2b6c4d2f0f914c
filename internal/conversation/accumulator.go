package conversation

import (
	"strings"
	"sync"

	"voiceqa/telemetry/internal/types"
)

// Metrics are session-level quality counters, accumulated over one
// session and reset when a new one starts.
type Metrics struct {
	BargeInAttempts          int     `json:"barge_in_attempts"`
	FalseBargeIns            int     `json:"false_barge_ins"`
	QueueOverflows           int     `json:"queue_overflows"`
	ScheduleResets           int     `json:"schedule_resets"`
	Errors                   int     `json:"errors"`
	AverageResponseLatencyMs float64 `json:"average_response_latency_ms"`
}

// Accumulator builds Metrics incrementally from structured barge-in
// events and, best-effort, from free-text diagnostic log lines. One
// accumulator per session; safe for concurrent use.
type Accumulator struct {
	mu sync.Mutex
	m  Metrics

	respSumMs float64
	respCount int
}

func NewAccumulator() *Accumulator { return &Accumulator{} }

// ObserveEvent counts a structured barge-in attempt. Whether it was a
// "false" barge-in (playback interrupted with no genuine user speech
// following) is policy the caller supplies; the accumulator only counts
// what it is told.
func (a *Accumulator) ObserveEvent(ev types.BargeInEvent, falseBargeIn bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.m.BargeInAttempts++
	if falseBargeIn {
		a.m.FalseBargeIns++
	}
}

// ObserveLogLine pattern-matches a diagnostic text line against known
// substrings. This is a degraded channel for signals that have no
// structured source: false negatives are possible and accepted.
func (a *Accumulator) ObserveLogLine(line string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case strings.Contains(line, "queue_length"):
		a.m.QueueOverflows++
	case strings.Contains(line, "schedule_reset"):
		a.m.ScheduleResets++
	case strings.Contains(line, "buffer_underrun"):
		a.m.Errors++
	case strings.Contains(line, "barge_in"):
		a.m.BargeInAttempts++
	}
}

// RecordResponseLatency folds one response latency sample into the
// running mean.
func (a *Accumulator) RecordResponseLatency(ms float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.respSumMs += ms
	a.respCount++
	a.m.AverageResponseLatencyMs = a.respSumMs / float64(a.respCount)
}

// RecordAnomalies counts nulled negative intervals as instrumentation
// errors. A single bad sample never aborts a run.
func (a *Accumulator) RecordAnomalies(n int) {
	if n <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.m.Errors += n
}

// Snapshot returns a copy, never a live reference.
func (a *Accumulator) Snapshot() Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.m
}

// Reset clears all counters for a new session.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.m = Metrics{}
	a.respSumMs = 0
	a.respCount = 0
}
