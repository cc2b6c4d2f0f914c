package harnesssim

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voiceqa/telemetry/internal/budget"
	"voiceqa/telemetry/internal/engine"
	"voiceqa/telemetry/internal/harness"
	"voiceqa/telemetry/internal/types"
)

func postEvent(t *testing.T, base, session string, ev types.BargeInEvent) {
	t.Helper()
	body, _ := json.Marshal(ev)
	resp, err := http.Post(base+"/sessions/"+session+"/barge-in", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post barge-in: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post barge-in: status %d", resp.StatusCode)
	}
}

func TestServerTelemetryRoundTrip(t *testing.T) {
	srv := httptest.NewServer(NewServer(NewStore()).Handler())
	defer srv.Close()

	c := harness.NewClient(srv.URL)

	// Unknown session: not ready, not an error.
	snap, err := c.Snapshot(context.Background(), "s1")
	if err != nil || snap != nil {
		t.Fatalf("unknown session: snap=%v err=%v, want nil/nil", snap, err)
	}

	postEvent(t, srv.URL, "s1", types.BargeInEvent{
		SpeechDetectedAtMs: types.MsPtr(100),
		FadeStartedAtMs:    types.MsPtr(105),
		AudioSilentAtMs:    types.MsPtr(140),
		WasPlaying:         true,
	})

	snap, err = c.Snapshot(context.Background(), "s1")
	if err != nil || snap == nil {
		t.Fatalf("Snapshot: snap=%v err=%v", snap, err)
	}
	if len(snap.BargeInLog) != 1 || snap.BargeInLog[0].Seq != 0 {
		t.Fatalf("log = %+v", snap.BargeInLog)
	}
}

func TestEngineAgainstSimulator(t *testing.T) {
	srv := httptest.NewServer(NewServer(NewStore()).Handler())
	defer srv.Close()

	// Feed two events, then run a collection window over HTTP.
	postEvent(t, srv.URL, "demo", types.BargeInEvent{
		SpeechDetectedAtMs: types.MsPtr(1000),
		FadeStartedAtMs:    types.MsPtr(1010),
		AudioSilentAtMs:    types.MsPtr(1050),
		WasPlaying:         true,
	})
	postEvent(t, srv.URL, "demo", types.BargeInEvent{
		SpeechDetectedAtMs: types.MsPtr(2000),
		AudioSilentAtMs:    types.MsPtr(2090),
		WasPlaying:         true,
	})

	th := budget.Thresholds{
		BargeIn:              budget.BargeInBudget{P50: 100, P90: 250, P99: 400, DetectionToFade: 50, FadeToSilence: 200},
		MaxQueueOverflows:    2,
		MaxFalseBargeIns:     1,
		MaxScheduleResets:    1,
		MaxResponseLatencyMs: 1500,
		MaxBargeInLatencyMs:  500,
	}
	eng := engine.New(harness.NewClient(srv.URL), "demo", th, 250*time.Millisecond)
	got := eng.CollectSamples(context.Background(), 2, 5*time.Second)
	if got != 2 {
		t.Fatalf("collected = %d, want 2", got)
	}

	_, _, total := eng.Aggregates()
	if total.Count != 2 || total.Min != 50 || total.Max != 90 {
		t.Errorf("total = %+v, want count 2 min 50 max 90", total)
	}
}
