package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTrack_CountsFailures(t *testing.T) {
	before := testutil.ToFloat64(ActionFailures.WithLabelValues("test_action", "read"))

	Track("test_action")(nil, "")
	Track("test_action")(errors.New("boom"), "read")

	after := testutil.ToFloat64(ActionFailures.WithLabelValues("test_action", "read"))
	if after-before != 1 {
		t.Errorf("expected one failure recorded, got %v", after-before)
	}
}

func TestTrack_ObservesLatency(t *testing.T) {
	Track("observed_action")(nil, "")

	if n := testutil.CollectAndCount(ActionDuration, "threadhub_action_duration_seconds"); n == 0 {
		t.Error("expected at least one latency series")
	}
}
