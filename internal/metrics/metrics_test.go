package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestCounters(t *testing.T) {
	tests := []struct {
		name    string
		counter prometheus.Counter
		inc     func()
	}{
		{
			name:    "row height",
			counter: rowHeightUpdates.WithLabelValues("functionality_test_cases", "true"),
			inc:     func() { RowHeightUpdated("functionality_test_cases", true) },
		},
		{
			name:    "verification status",
			counter: verificationStatusUpdates.WithLabelValues("approved"),
			inc:     func() { VerificationStatusUpdated("approved") },
		},
		{
			name:    "permission",
			counter: permissionRequests.WithLabelValues(OutcomeRequested),
			inc:     func() { PermissionEvent(OutcomeRequested) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := counterValue(t, tt.counter)
			tt.inc()
			if got := counterValue(t, tt.counter); got != before+1 {
				t.Errorf("counter = %v, want %v", got, before+1)
			}
		})
	}
}
