package latency

import "voiceqa/telemetry/internal/types"

// Metrics are the intervals derived from one barge-in event. A nil field
// means the interval could not be computed: an endpoint was missing, or
// the raw difference came out negative (clock anomaly) and was dropped.
type Metrics struct {
	DetectionToFadeMs *int64 `json:"detection_to_fade_ms,omitempty"`
	FadeToSilenceMs   *int64 `json:"fade_to_silence_ms,omitempty"`
	TotalLatencyMs    *int64 `json:"total_latency_ms,omitempty"`
}

// Extract derives interval metrics from one event. The int return is the
// number of negative intervals that were nulled; callers count those as
// instrumentation errors instead of letting negative durations reach
// aggregation. Total latency is detection to silence and does not require
// an observed fade stage (hard stops silence audio without fading).
func Extract(ev types.BargeInEvent) (Metrics, int) {
	var m Metrics
	anomalies := 0

	m.DetectionToFadeMs, anomalies = interval(ev.SpeechDetectedAtMs, ev.FadeStartedAtMs, anomalies)
	m.FadeToSilenceMs, anomalies = interval(ev.FadeStartedAtMs, ev.AudioSilentAtMs, anomalies)
	m.TotalLatencyMs, anomalies = interval(ev.SpeechDetectedAtMs, ev.AudioSilentAtMs, anomalies)

	return m, anomalies
}

func interval(from, to *int64, anomalies int) (*int64, int) {
	if from == nil || to == nil {
		return nil, anomalies
	}
	d := *to - *from
	if d < 0 {
		return nil, anomalies + 1
	}
	return &d, anomalies
}
