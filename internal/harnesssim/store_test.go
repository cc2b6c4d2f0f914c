package harnesssim

import (
	"testing"

	"voiceqa/telemetry/internal/types"
)

func TestStoreAppendAssignsSeq(t *testing.T) {
	s := NewStore()
	s.CreateSession("s1")

	a := s.Append("s1", types.BargeInEvent{SpeechDetectedAtMs: types.MsPtr(100)})
	b := s.Append("s1", types.BargeInEvent{SpeechDetectedAtMs: types.MsPtr(200)})

	if a.Seq != 0 || b.Seq != 1 {
		t.Errorf("seq = %d/%d, want 0/1", a.Seq, b.Seq)
	}

	snap := s.Snapshot("s1")
	if snap == nil || len(snap.BargeInLog) != 2 {
		t.Fatalf("snapshot = %+v, want 2 entries", snap)
	}
	if snap.Metrics.BargeInCount != 2 {
		t.Errorf("BargeInCount = %d, want 2", snap.Metrics.BargeInCount)
	}
}

func TestStoreUnknownSessionNotReady(t *testing.T) {
	s := NewStore()
	if snap := s.Snapshot("missing"); snap != nil {
		t.Errorf("unknown session should yield nil, got %+v", snap)
	}
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	s := NewStore()
	s.CreateSession("s1")
	s.Append("s1", types.BargeInEvent{})

	snap := s.Snapshot("s1")
	snap.BargeInLog[0].Seq = 99
	snap.BargeInLog = nil

	again := s.Snapshot("s1")
	if len(again.BargeInLog) != 1 || again.BargeInLog[0].Seq != 0 {
		t.Errorf("snapshot mutation leaked into the store: %+v", again)
	}
}

func TestCreateSessionIdempotent(t *testing.T) {
	s := NewStore()
	s.CreateSession("s1")
	s.Append("s1", types.BargeInEvent{})
	s.CreateSession("s1")

	if snap := s.Snapshot("s1"); len(snap.BargeInLog) != 1 {
		t.Errorf("re-creating a session must not drop its log")
	}
}
