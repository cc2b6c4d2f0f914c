package budget

import (
	"voiceqa/telemetry/internal/conversation"
	"voiceqa/telemetry/internal/stats"
)

// Check is one named comparison of an observed value against a budget.
// Relaxed marks checks evaluated against threshold × multiplier.
type Check struct {
	Metric    string  `json:"metric"`
	Observed  float64 `json:"observed"`
	Threshold float64 `json:"threshold"`
	Relaxed   bool    `json:"relaxed"`
	Passed    bool    `json:"passed"`
}

// Verdict is the evaluator's output. Passed reflects the effective
// (relaxed) budget; Failures lists every failed check, strict ones
// included, so one call yields both signals. The evaluator never fails a
// run itself; turning a verdict into a hard failure is caller policy.
type Verdict struct {
	Passed   bool    `json:"passed"`
	Checks   []Check `json:"checks"`
	Failures []Check `json:"failures"`
}

// EvaluateScalar compares one observed value against one named budget.
// With multiplier 1 it emits a single strict check. With any other
// multiplier it emits the strict check and a relaxed one; only the
// relaxed result decides Passed.
func EvaluateScalar(metric string, observed, threshold, multiplier float64) Verdict {
	var v Verdict
	v.add(scalarChecks(metric, observed, threshold, multiplier)...)
	return v
}

// EvaluateLatency checks a latency aggregate against the barge-in budget:
// median against P50, then P90 and P99. An empty aggregate passes
// trivially: there is nothing to compare.
func EvaluateLatency(agg stats.Aggregate, b BargeInBudget, multiplier float64) Verdict {
	var v Verdict
	if agg.Count == 0 {
		v.Passed = true
		return v
	}
	v.add(scalarChecks("bargeIn.p50", agg.Median, b.P50, multiplier)...)
	v.add(scalarChecks("bargeIn.p90", agg.P90, b.P90, multiplier)...)
	v.add(scalarChecks("bargeIn.p99", agg.P99, b.P99, multiplier)...)
	return v
}

// EvaluateConversation checks session counters and the response latency
// mean against their budgets.
func EvaluateConversation(m conversation.Metrics, t Thresholds, multiplier float64) Verdict {
	var v Verdict
	v.add(scalarChecks("maxQueueOverflows", float64(m.QueueOverflows), float64(t.MaxQueueOverflows), multiplier)...)
	v.add(scalarChecks("maxFalseBargeIns", float64(m.FalseBargeIns), float64(t.MaxFalseBargeIns), multiplier)...)
	v.add(scalarChecks("maxScheduleResets", float64(m.ScheduleResets), float64(t.MaxScheduleResets), multiplier)...)
	v.add(scalarChecks("maxResponseLatencyMs", m.AverageResponseLatencyMs, t.MaxResponseLatencyMs, multiplier)...)
	return v
}

// Merge combines verdicts; the result passes only if every part does.
func Merge(parts ...Verdict) Verdict {
	out := Verdict{Passed: true}
	for _, p := range parts {
		out.Checks = append(out.Checks, p.Checks...)
		out.Failures = append(out.Failures, p.Failures...)
		if !p.Passed {
			out.Passed = false
		}
	}
	return out
}

func scalarChecks(metric string, observed, threshold, multiplier float64) []Check {
	strict := Check{
		Metric:    metric,
		Observed:  observed,
		Threshold: threshold,
		Passed:    observed <= threshold,
	}
	if multiplier == 1 {
		return []Check{strict}
	}
	relaxed := Check{
		Metric:    metric,
		Observed:  observed,
		Threshold: threshold * multiplier,
		Relaxed:   true,
		Passed:    observed <= threshold*multiplier,
	}
	return []Check{strict, relaxed}
}

// add appends checks and recomputes Passed over the effective budget: the
// relaxed check when one exists for the metric, the strict one otherwise.
func (v *Verdict) add(checks ...Check) {
	v.Checks = append(v.Checks, checks...)
	for _, c := range checks {
		if !c.Passed {
			v.Failures = append(v.Failures, c)
		}
	}
	v.Passed = true
	relaxedFor := map[string]bool{}
	for _, c := range v.Checks {
		if c.Relaxed {
			relaxedFor[c.Metric] = true
		}
	}
	for _, c := range v.Checks {
		if c.Passed {
			continue
		}
		if !c.Relaxed && relaxedFor[c.Metric] {
			continue // strict miss, but the relaxed check decides
		}
		v.Passed = false
	}
}
