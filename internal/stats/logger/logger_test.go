package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCollectorLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := New(zap.New(core))

	c.IncCounter("games", 2)
	c.SetGauge("pending", 4)
	c.ObserveHistogram("seconds", 0.5)

	if logs.Len() != 3 {
		t.Fatalf("logged %d entries; want 3", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "counter" || entry.ContextMap()["metric"] != "games" {
		t.Errorf("first entry = %q %v", entry.Message, entry.ContextMap())
	}
}

func TestNewNilLogger(t *testing.T) {
	c := New(nil)
	c.IncCounter("x", 1)
}
