package collector

import (
	"context"
	"time"

	"voiceqa/telemetry/internal/latency"
	"voiceqa/telemetry/internal/types"
)

// Source is any read-only view of a running session. A nil snapshot with a
// nil error means "not ready"; errors are transient and retried the same
// way.
type Source interface {
	Snapshot(ctx context.Context, sessionID string) (*types.HarnessSnapshot, error)
}

// Result is the outcome of one bounded wait. Completed false means the
// deadline passed without a new event. That is a normal outcome, not an
// error; the caller decides whether it skips or fails the run.
type Result struct {
	Completed bool
	Event     *types.BargeInEvent
	Metrics   *latency.Metrics
	Anomalies int
}

const (
	minInterval = 250 * time.Millisecond
	maxInterval = 1000 * time.Millisecond
)

// Collector polls a Source for new entries in the append-only barge-in
// log. One collector per session; it holds no state besides its settings.
type Collector struct {
	src       Source
	sessionID string
	interval  time.Duration
}

func New(src Source, sessionID string, interval time.Duration) *Collector {
	if interval < minInterval {
		interval = minInterval
	}
	if interval > maxInterval {
		interval = maxInterval
	}
	return &Collector{src: src, sessionID: sessionID, interval: interval}
}

// WaitForNext polls until the log holds more than baseline entries or the
// deadline passes. It always returns the entry at index exactly baseline,
// the first new one, even if the log has grown further by the time it is
// observed, so no event between polls is ever skipped. Context
// cancellation stops the loop early with Completed false.
func (c *Collector) WaitForNext(ctx context.Context, baseline int, timeout time.Duration) Result {
	deadline := time.Now().Add(timeout)

	for {
		snap, err := c.src.Snapshot(ctx, c.sessionID)
		if err == nil && snap != nil && len(snap.BargeInLog) > baseline {
			ev := snap.BargeInLog[baseline]
			m, anomalies := latency.Extract(ev)
			return Result{Completed: true, Event: &ev, Metrics: &m, Anomalies: anomalies}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Result{}
		}
		wait := c.interval
		if wait > remaining {
			wait = remaining
		}
		select {
		case <-ctx.Done():
			return Result{}
		case <-time.After(wait):
		}
	}
}
