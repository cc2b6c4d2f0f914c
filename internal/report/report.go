package report

import (
	"fmt"
	"strings"

	"voiceqa/telemetry/internal/budget"
	"voiceqa/telemetry/internal/conversation"
	"voiceqa/telemetry/internal/stats"
)

// Dimension pairs one latency dimension's aggregate with its raw samples
// (in collection order) and its configured targets.
type Dimension struct {
	Name      string
	Agg       stats.Aggregate
	Samples   []float64
	TargetP50 float64
	TargetP90 float64
	TargetP99 float64
}

// Render formats aggregates, raw samples, counters and budgets into a
// deterministic multi-line text report. Formatting only; every number in
// it was computed elsewhere.
func Render(dims []Dimension, conv conversation.Metrics, th budget.Thresholds) string {
	var b strings.Builder
	b.WriteString("Barge-In Telemetry Report\n")
	b.WriteString("=========================\n")

	for _, d := range dims {
		fmt.Fprintf(&b, "\n%s: %d samples\n", d.Name, d.Agg.Count)
		if d.Agg.Count == 0 {
			b.WriteString("  (no samples collected)\n")
			continue
		}
		writeTarget(&b, "p50", d.Agg.Median, d.TargetP50)
		writeTarget(&b, "p90", d.Agg.P90, d.TargetP90)
		writeTarget(&b, "p99", d.Agg.P99, d.TargetP99)
		fmt.Fprintf(&b, "  min %.1fms  mean %.1fms  max %.1fms\n", d.Agg.Min, d.Agg.Mean, d.Agg.Max)
		fmt.Fprintf(&b, "  raw: %s\n", joinSamples(d.Samples))
	}

	b.WriteString("\nCounters:\n")
	fmt.Fprintf(&b, "  barge-in attempts:    %d\n", conv.BargeInAttempts)
	writeCounter(&b, "false barge-ins", conv.FalseBargeIns, th.MaxFalseBargeIns)
	writeCounter(&b, "queue overflows", conv.QueueOverflows, th.MaxQueueOverflows)
	writeCounter(&b, "schedule resets", conv.ScheduleResets, th.MaxScheduleResets)
	fmt.Fprintf(&b, "  errors:               %d\n", conv.Errors)
	mark := pass(conv.AverageResponseLatencyMs <= th.MaxResponseLatencyMs)
	fmt.Fprintf(&b, "  %s avg response latency: %.1fms (max %.1fms)\n", mark, conv.AverageResponseLatencyMs, th.MaxResponseLatencyMs)

	return b.String()
}

func writeTarget(b *strings.Builder, name string, observed, target float64) {
	fmt.Fprintf(b, "  %s %s %.1fms (target %.1fms)\n", pass(observed <= target), name, observed, target)
}

func writeCounter(b *strings.Builder, name string, observed, max int) {
	fmt.Fprintf(b, "  %s %-20s %d (max %d)\n", pass(observed <= max), name+":", observed, max)
}

func pass(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func joinSamples(samples []float64) string {
	if len(samples) == 0 {
		return "-"
	}
	parts := make([]string, len(samples))
	for i, s := range samples {
		parts[i] = fmt.Sprintf("%.0f", s)
	}
	return strings.Join(parts, " ")
}
