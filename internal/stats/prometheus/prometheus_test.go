package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric %s not registered", name)
	return nil
}

func TestCollectorCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.IncCounter("games_total", 5)
	c.IncCounter("games_total", 3)

	mf := gather(t, reg, "games_total")
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 8 {
		t.Errorf("counter = %v; want 8", got)
	}
}

func TestCollectorGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.SetGauge("pending", 42)
	c.SetGauge("pending", 7)

	mf := gather(t, reg, "pending")
	if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 7 {
		t.Errorf("gauge = %v; want 7", got)
	}
}

func TestCollectorHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.ObserveHistogram("chunk_seconds", 0.01)
	c.ObserveHistogram("chunk_seconds", 0.02)

	mf := gather(t, reg, "chunk_seconds")
	if got := mf.GetMetric()[0].GetHistogram().GetSampleCount(); got != 2 {
		t.Errorf("sample count = %d; want 2", got)
	}
}

func TestCollectorsShareRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg).IncCounter("shared_total", 1)
	New(reg).IncCounter("shared_total", 2)

	mf := gather(t, reg, "shared_total")
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 3 {
		t.Errorf("counter = %v; want 3", got)
	}
}

func TestNewDefaultRegistry(t *testing.T) {
	if c := New(nil); c.registry != prometheus.DefaultRegisterer {
		t.Error("New(nil) did not use the default registerer")
	}
}
