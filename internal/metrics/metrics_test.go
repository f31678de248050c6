package metrics

import (
	"testing"
	"time"
)

func TestNew_StartTimeSet(t *testing.T) {
	before := time.Now()
	m := New()
	after := time.Now()

	if m.startTime.Before(before) || m.startTime.After(after) {
		t.Errorf("startTime %v not in expected range [%v, %v]", m.startTime, before, after)
	}
}

func TestZeroValue_SnapshotSafe(t *testing.T) {
	var m Metrics
	s := m.Snapshot()
	if s.Requests.Total != 0 {
		t.Errorf("expected 0 total requests, got %d", s.Requests.Total)
	}
}

func TestRequestCounters(t *testing.T) {
	m := New()
	m.RequestsTotal.Add(10)
	m.RequestsPut.Add(4)
	m.RequestsGet.Add(3)
	m.RequestsEvict.Add(2)
	m.RequestsClear.Add(1)

	s := m.Snapshot()
	if s.Requests.Total != 10 {
		t.Errorf("Total: got %d, want 10", s.Requests.Total)
	}
	if s.Requests.Put != 4 {
		t.Errorf("Put: got %d, want 4", s.Requests.Put)
	}
	if s.Requests.Get != 3 {
		t.Errorf("Get: got %d, want 3", s.Requests.Get)
	}
	if s.Requests.Evict != 2 {
		t.Errorf("Evict: got %d, want 2", s.Requests.Evict)
	}
	if s.Requests.Clear != 1 {
		t.Errorf("Clear: got %d, want 1", s.Requests.Clear)
	}
}

func TestResponseCounters(t *testing.T) {
	m := New()
	m.ResponsesOK.Add(5)
	m.ResponsesNotFound.Add(2)
	m.ResponsesBadRequest.Add(1)
	m.ResponsesUnsupported.Add(1)

	s := m.Snapshot()
	if s.Responses.OK != 5 {
		t.Errorf("OK: got %d, want 5", s.Responses.OK)
	}
	if s.Responses.NotFound != 2 {
		t.Errorf("NotFound: got %d, want 2", s.Responses.NotFound)
	}
	if s.Responses.BadRequest != 1 {
		t.Errorf("BadRequest: got %d, want 1", s.Responses.BadRequest)
	}
	if s.Responses.Unsupported != 1 {
		t.Errorf("Unsupported: got %d, want 1", s.Responses.Unsupported)
	}
}

func TestForcedEvictionCounter(t *testing.T) {
	m := New()
	m.ForcedEvictions.Add(7)

	s := m.Snapshot()
	if s.ForcedEvictions != 7 {
		t.Errorf("ForcedEvictions: got %d, want 7", s.ForcedEvictions)
	}
}

func TestRecordRequest_SingleSample(t *testing.T) {
	m := New()
	m.RecordRequest(100 * time.Millisecond)

	s := m.Snapshot()
	if s.LatencyMs.Count != 1 {
		t.Errorf("Count: got %d, want 1", s.LatencyMs.Count)
	}
	if s.LatencyMs.MinMs < 90 || s.LatencyMs.MinMs > 110 {
		t.Errorf("MinMs: got %f, want ~100", s.LatencyMs.MinMs)
	}
}

func TestRecordRequest_MinMaxMean(t *testing.T) {
	m := New()
	m.RecordRequest(50 * time.Millisecond)
	m.RecordRequest(150 * time.Millisecond)
	m.RecordRequest(100 * time.Millisecond)

	s := m.Snapshot()
	ls := s.LatencyMs
	if ls.Count != 3 {
		t.Errorf("Count: got %d, want 3", ls.Count)
	}
	if ls.MinMs > 60 {
		t.Errorf("MinMs too high: %f", ls.MinMs)
	}
	if ls.MaxMs < 140 {
		t.Errorf("MaxMs too low: %f", ls.MaxMs)
	}
	if ls.MeanMs < 90 || ls.MeanMs > 110 {
		t.Errorf("MeanMs: got %f, want ~100", ls.MeanMs)
	}
}

func TestSnapshotLatency_EmptyIsZeroValue(t *testing.T) {
	m := New()
	s := m.Snapshot()
	if s.LatencyMs.Count != 0 {
		t.Errorf("empty latency count should be 0")
	}
}

func TestSnapshot_UptimePositive(t *testing.T) {
	m := New()
	time.Sleep(5 * time.Millisecond)
	s := m.Snapshot()
	if s.UptimeSecs <= 0 {
		t.Errorf("UptimeSecs should be positive, got %f", s.UptimeSecs)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		input float64
		want  float64
	}{
		{1.236, 1.24},
		{1.234, 1.23},
		{100.0, 100.0},
		{0.0, 0.0},
	}
	for _, c := range cases {
		got := round2(c.input)
		if got != c.want {
			t.Errorf("round2(%f) = %f, want %f", c.input, got, c.want)
		}
	}
}

func TestLatencyStats_Record(t *testing.T) {
	var s latencyStats
	s.record(10)
	s.record(20)
	s.record(15)

	snap := s.snapshot()
	if snap.Count != 3 {
		t.Errorf("Count: got %d, want 3", snap.Count)
	}
	if snap.MinMs != 10 {
		t.Errorf("MinMs: got %f, want 10", snap.MinMs)
	}
	if snap.MaxMs != 20 {
		t.Errorf("MaxMs: got %f, want 20", snap.MaxMs)
	}
	if snap.MeanMs != 15 {
		t.Errorf("MeanMs: got %f, want 15", snap.MeanMs)
	}
}

func TestLatencyStats_Empty(t *testing.T) {
	var s latencyStats
	snap := s.snapshot()
	if snap.Count != 0 || snap.MinMs != 0 || snap.MaxMs != 0 || snap.MeanMs != 0 {
		t.Errorf("empty stats snapshot should be zero, got %+v", snap)
	}
}
