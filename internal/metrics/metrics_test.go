package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCalculation(t *testing.T) {
	counter := CalculationsTotal.WithLabelValues("ratio", OutcomeInvalid)
	before := testutil.ToFloat64(counter)

	ObserveCalculation("ratio", OutcomeInvalid, 2*time.Millisecond)
	ObserveCalculation("ratio", OutcomeInvalid, 3*time.Millisecond)

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("calculations counter increased by %v, expected 2", got)
	}
}

func TestObserveRequest(t *testing.T) {
	counter := HTTPRequestsTotal.WithLabelValues("/api/{type}", "400")
	before := testutil.ToFloat64(counter)

	ObserveRequest("/api/{type}", 400, time.Millisecond)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("request counter increased by %v, expected 1", got)
	}
}
