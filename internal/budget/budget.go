package budget

// BargeInBudget holds latency targets for the barge-in path, all in
// milliseconds.
type BargeInBudget struct {
	P50             float64
	P90             float64
	P99             float64
	DetectionToFade float64
	FadeToSilence   float64
}

// Thresholds is the externally supplied budget map. Immutable once built;
// the evaluator never modifies it.
type Thresholds struct {
	BargeIn              BargeInBudget
	MaxQueueOverflows    int
	MaxFalseBargeIns     int
	MaxScheduleResets    int
	MaxResponseLatencyMs float64
	MaxBargeInLatencyMs  float64
}
