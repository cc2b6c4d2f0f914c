package types

// BargeInEvent is one entry in the harness's append-only barge-in log.
// Stage timestamps are UnixMilli; a nil timestamp means the stage never
// happened (e.g. nothing was playing, so there was no fade). Entries are
// immutable once appended.
type BargeInEvent struct {
	Seq                    int    `json:"seq"`
	SpeechDetectedAtMs     *int64 `json:"speech_detected_at_ms,omitempty"`
	FadeStartedAtMs        *int64 `json:"fade_started_at_ms,omitempty"`
	AudioSilentAtMs        *int64 `json:"audio_silent_at_ms,omitempty"`
	WasPlaying             bool   `json:"was_playing"`
	ActiveSourcesAtTrigger int    `json:"active_sources_at_trigger"`
}

// HarnessMetrics are the harness's own running counters.
type HarnessMetrics struct {
	BargeInCount int `json:"barge_in_count"`
}

// HarnessSnapshot is a read-only view of the running session. A nil
// snapshot means "not ready yet", never an error.
type HarnessSnapshot struct {
	Metrics    HarnessMetrics `json:"metrics"`
	BargeInLog []BargeInEvent `json:"barge_in_log"`
}

// MsPtr is a convenience for building events in callers and tests.
func MsPtr(ms int64) *int64 { return &ms }
