package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Counters(t *testing.T) {
	rec := NewRecorder(prometheus.NewRegistry())

	rec.IncCall(OpCreate)
	rec.IncCall(OpCreate)
	rec.IncCall(OpDelete)
	rec.IncError()

	if got := testutil.ToFloat64(rec.Calls.WithLabelValues(OpCreate)); got != 2 {
		t.Errorf("create calls = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.Calls.WithLabelValues(OpDelete)); got != 1 {
		t.Errorf("delete calls = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.Calls.WithLabelValues(OpGet)); got != 0 {
		t.Errorf("get calls = %v, want 0", got)
	}
	if got := testutil.ToFloat64(rec.CallErrors); got != 1 {
		t.Errorf("call errors = %v, want 1", got)
	}
}

func TestRecorder_LatencyGauges(t *testing.T) {
	rec := NewRecorder(prometheus.NewRegistry())

	rec.SetCreateLatency(1500 * time.Millisecond)
	rec.SetDeleteLatency(250 * time.Microsecond)

	if got := testutil.ToFloat64(rec.CreateLatencyMs); got != 1500 {
		t.Errorf("create latency = %v, want 1500", got)
	}
	if got := testutil.ToFloat64(rec.DeleteLatencyMs); got != 0.25 {
		t.Errorf("delete latency = %v, want 0.25", got)
	}

	// Last writer wins.
	rec.SetCreateLatency(20 * time.Millisecond)
	if got := testutil.ToFloat64(rec.CreateLatencyMs); got != 20 {
		t.Errorf("create latency after overwrite = %v, want 20", got)
	}
}

func TestNewRecorder_IdempotentRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewRecorder(reg)
	second := NewRecorder(reg)

	first.IncCall(OpGet)
	second.IncCall(OpGet)

	// Both recorders must observe the same underlying collectors.
	if got := testutil.ToFloat64(second.Calls.WithLabelValues(OpGet)); got != 2 {
		t.Errorf("shared get calls = %v, want 2", got)
	}
}

func TestRecorder_NilSafe(t *testing.T) {
	var rec *Recorder

	rec.IncCall(OpCreate)
	rec.IncError()
	rec.SetCreateLatency(time.Second)
	rec.SetDeleteLatency(time.Second)
}
