package budget

import (
	"testing"

	"voiceqa/telemetry/internal/conversation"
	"voiceqa/telemetry/internal/stats"
)

func TestEvaluateScalarStrictAndRelaxed(t *testing.T) {
	// threshold 100, multiplier 2, observed 150: relaxed passes (150<200),
	// strict fails (150>100), both reported from one call.
	v := EvaluateScalar("maxBargeInLatencyMs", 150, 100, 2)

	if !v.Passed {
		t.Error("relaxed budget should pass")
	}
	if len(v.Checks) != 2 {
		t.Fatalf("Checks = %d, want 2 (strict + relaxed)", len(v.Checks))
	}
	if len(v.Failures) != 1 {
		t.Fatalf("Failures = %d, want 1 (the strict check)", len(v.Failures))
	}
	f := v.Failures[0]
	if f.Relaxed {
		t.Error("the failed check should be the strict one")
	}
	if f.Metric != "maxBargeInLatencyMs" || f.Observed != 150 || f.Threshold != 100 {
		t.Errorf("failure = %+v", f)
	}
}

func TestEvaluateScalarNoMultiplier(t *testing.T) {
	v := EvaluateScalar("maxBargeInLatencyMs", 150, 100, 1)
	if v.Passed {
		t.Error("strict-only evaluation should fail")
	}
	if len(v.Checks) != 1 {
		t.Errorf("Checks = %d, want 1", len(v.Checks))
	}

	v = EvaluateScalar("maxBargeInLatencyMs", 80, 100, 1)
	if !v.Passed || len(v.Failures) != 0 {
		t.Errorf("80 <= 100 should pass cleanly, got %+v", v)
	}
}

func TestEvaluateScalarBoundary(t *testing.T) {
	// Equal to the budget is within the budget.
	v := EvaluateScalar("maxResponseLatencyMs", 100, 100, 1)
	if !v.Passed {
		t.Error("observed == threshold should pass")
	}
}

func TestEvaluateLatency(t *testing.T) {
	agg := stats.Compute([]float64{40, 60, 80, 120, 300})
	b := BargeInBudget{P50: 100, P90: 250, P99: 400}

	v := EvaluateLatency(agg, b, 1)
	// median 80 <= 100 ok; p90 = 300 > 250 fails; p99 = 300 <= 400 ok.
	if v.Passed {
		t.Error("p90 over budget should fail the verdict")
	}
	if len(v.Failures) != 1 || v.Failures[0].Metric != "bargeIn.p90" {
		t.Errorf("Failures = %+v, want one bargeIn.p90 entry", v.Failures)
	}
}

func TestEvaluateLatencyEmptyAggregate(t *testing.T) {
	v := EvaluateLatency(stats.Aggregate{}, BargeInBudget{P50: 1, P90: 1, P99: 1}, 1)
	if !v.Passed {
		t.Error("no samples means nothing to fail")
	}
	if len(v.Checks) != 0 {
		t.Errorf("Checks = %d, want 0", len(v.Checks))
	}
}

func TestEvaluateConversation(t *testing.T) {
	m := conversation.Metrics{
		QueueOverflows:           3,
		FalseBargeIns:            0,
		ScheduleResets:           1,
		AverageResponseLatencyMs: 900,
	}
	th := Thresholds{
		MaxQueueOverflows:    2,
		MaxFalseBargeIns:     1,
		MaxScheduleResets:    1,
		MaxResponseLatencyMs: 1200,
	}

	v := EvaluateConversation(m, th, 1)
	if v.Passed {
		t.Error("queue overflows over budget should fail")
	}
	if len(v.Failures) != 1 || v.Failures[0].Metric != "maxQueueOverflows" {
		t.Errorf("Failures = %+v", v.Failures)
	}

	// Relaxing doubles the overflow budget to 4 and rescues the verdict,
	// while keeping the strict miss visible.
	v = EvaluateConversation(m, th, 2)
	if !v.Passed {
		t.Errorf("relaxed verdict should pass, failures: %+v", v.Failures)
	}
	if len(v.Failures) != 1 || v.Failures[0].Relaxed {
		t.Errorf("strict failure should remain reported: %+v", v.Failures)
	}
}

func TestMerge(t *testing.T) {
	pass := EvaluateScalar("a", 1, 10, 1)
	fail := EvaluateScalar("b", 20, 10, 1)

	v := Merge(pass, fail)
	if v.Passed {
		t.Error("merge with a failing part must fail")
	}
	if len(v.Checks) != 2 || len(v.Failures) != 1 {
		t.Errorf("Checks/Failures = %d/%d, want 2/1", len(v.Checks), len(v.Failures))
	}

	if !Merge().Passed {
		t.Error("empty merge should pass")
	}
}
