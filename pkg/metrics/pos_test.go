package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewPOSMetricsRegisters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewPOSMetrics(reg)

	m.ObserveSubmit(250*time.Millisecond, "success")
	m.IncSubmitSuccess()
	m.IncSubmitFailure("SUBMISSION_ERROR")
	m.IncRefresh("success")
	m.SetCatalogSize(12)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	t.Parallel()

	m := NewPOSMetrics(nil)
	m.ObserveSubmit(time.Second, "")
	m.IncSubmitSuccess()
	m.IncSubmitFailure("")
	m.IncRefresh("")
	m.SetCatalogSize(0)
}
