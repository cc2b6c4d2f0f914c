package engine

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"voiceqa/telemetry/internal/budget"
	"voiceqa/telemetry/internal/collector"
	"voiceqa/telemetry/internal/conversation"
	"voiceqa/telemetry/internal/latency"
	"voiceqa/telemetry/internal/report"
	"voiceqa/telemetry/internal/stats"
	"voiceqa/telemetry/internal/types"
)

// Engine drives telemetry for exactly one session: it collects barge-in
// samples from a live harness, accumulates quality counters, and answers
// with aggregates, verdicts and reports. Engines share no mutable state;
// run one per concurrent session. The sample buffers have a single
// writer, the collection loop.
type Engine struct {
	runID     string
	sessionID string
	col       *collector.Collector
	conv      *conversation.Accumulator
	th        budget.Thresholds

	// FalseBargeIn classifies an event as a false barge-in (playback was
	// interrupted but no genuine user speech followed). The policy is the
	// caller's; the engine only counts what it is told. Nil means never.
	FalseBargeIn func(types.BargeInEvent) bool

	baseline  int
	detection []float64
	fade      []float64
	total     []float64
}

func New(src collector.Source, sessionID string, th budget.Thresholds, pollInterval time.Duration) *Engine {
	return &Engine{
		runID:     uuid.New().String(),
		sessionID: sessionID,
		col:       collector.New(src, sessionID, pollInterval),
		conv:      conversation.NewAccumulator(),
		th:        th,
	}
}

func (e *Engine) RunID() string     { return e.runID }
func (e *Engine) SessionID() string { return e.sessionID }

// CollectSamples waits for up to n new barge-in events, each within
// perSampleTimeout, and folds them into the session buffers. It returns
// the number collected; a shortfall is data for the caller, not an error.
// The first timeout ends the window: the harness has gone quiet.
func (e *Engine) CollectSamples(ctx context.Context, n int, perSampleTimeout time.Duration) int {
	collected := 0
	for i := 0; i < n; i++ {
		res := e.col.WaitForNext(ctx, e.baseline, perSampleTimeout)
		if !res.Completed {
			metricTimeouts.Inc()
			log.Printf("[engine] run=%s sample %d/%d timed out after %s", e.runID, i+1, n, perSampleTimeout)
			break
		}
		e.baseline++
		collected++
		e.observe(*res.Event, *res.Metrics, res.Anomalies)
	}
	return collected
}

func (e *Engine) observe(ev types.BargeInEvent, m latency.Metrics, anomalies int) {
	metricSamples.Inc()

	falsePositive := e.FalseBargeIn != nil && e.FalseBargeIn(ev)
	e.conv.ObserveEvent(ev, falsePositive)
	if falsePositive {
		metricFalseBargeIns.Inc()
	}
	if anomalies > 0 {
		e.conv.RecordAnomalies(anomalies)
		metricAnomalies.Add(float64(anomalies))
		log.Printf("[engine] run=%s seq=%d nulled %d negative interval(s)", e.runID, ev.Seq, anomalies)
	}

	if m.DetectionToFadeMs != nil {
		v := float64(*m.DetectionToFadeMs)
		e.detection = append(e.detection, v)
		metricDetectionToFade.Observe(v)
	}
	if m.FadeToSilenceMs != nil {
		v := float64(*m.FadeToSilenceMs)
		e.fade = append(e.fade, v)
		metricFadeToSilence.Observe(v)
	}
	if m.TotalLatencyMs != nil {
		v := float64(*m.TotalLatencyMs)
		e.total = append(e.total, v)
		metricTotalLatency.Observe(v)
		e.conv.RecordResponseLatency(v)
	}
}

// ObserveLogLine feeds one diagnostic text line into the accumulator
// (degraded channel; see conversation.ObserveLogLine).
func (e *Engine) ObserveLogLine(line string) {
	e.conv.ObserveLogLine(line)
}

// Aggregates returns descriptive statistics for the three latency
// dimensions: detection-to-fade, fade-to-silence, total.
func (e *Engine) Aggregates() (detection, fade, total stats.Aggregate) {
	return stats.Compute(e.detection), stats.Compute(e.fade), stats.Compute(e.total)
}

// Conversation returns a snapshot of the session quality counters.
func (e *Engine) Conversation() conversation.Metrics {
	return e.conv.Snapshot()
}

// Evaluate compares everything collected so far against the budgets.
// multiplier 1 is the strict budget; any other value adds relaxed checks
// alongside the strict ones (see budget.EvaluateScalar).
func (e *Engine) Evaluate(multiplier float64) budget.Verdict {
	det, fade, total := e.Aggregates()

	parts := []budget.Verdict{
		budget.EvaluateLatency(total, e.th.BargeIn, multiplier),
		budget.EvaluateConversation(e.conv.Snapshot(), e.th, multiplier),
	}
	// Per-stage and per-event caps apply to the worst observed value.
	if det.Count > 0 {
		parts = append(parts, budget.EvaluateScalar("bargeIn.detectionToFade", det.Max, e.th.BargeIn.DetectionToFade, multiplier))
	}
	if fade.Count > 0 {
		parts = append(parts, budget.EvaluateScalar("bargeIn.fadeToSilence", fade.Max, e.th.BargeIn.FadeToSilence, multiplier))
	}
	if total.Count > 0 {
		parts = append(parts, budget.EvaluateScalar("maxBargeInLatencyMs", total.Max, e.th.MaxBargeInLatencyMs, multiplier))
	}
	return budget.Merge(parts...)
}

// Report renders the deterministic text report for everything collected
// so far.
func (e *Engine) Report() string {
	det, fade, total := e.Aggregates()
	dims := []report.Dimension{
		{
			Name: "total_latency", Agg: total, Samples: e.total,
			TargetP50: e.th.BargeIn.P50, TargetP90: e.th.BargeIn.P90, TargetP99: e.th.BargeIn.P99,
		},
		{
			Name: "detection_to_fade", Agg: det, Samples: e.detection,
			TargetP50: e.th.BargeIn.DetectionToFade, TargetP90: e.th.BargeIn.DetectionToFade, TargetP99: e.th.BargeIn.DetectionToFade,
		},
		{
			Name: "fade_to_silence", Agg: fade, Samples: e.fade,
			TargetP50: e.th.BargeIn.FadeToSilence, TargetP90: e.th.BargeIn.FadeToSilence, TargetP99: e.th.BargeIn.FadeToSilence,
		},
	}
	return report.Render(dims, e.conv.Snapshot(), e.th)
}

// Reset discards all buffered samples and counters for a fresh session
// window. The baseline is kept so already-consumed log entries are not
// read twice.
func (e *Engine) Reset() {
	e.conv.Reset()
	e.detection = nil
	e.fade = nil
	e.total = nil
}
