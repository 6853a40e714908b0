package profiler

import (
	"testing"
	"time"
)

func TestTickBelowInterval(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(time.Hour)

	for i := 0; i < 10; i++ {
		if _, logged := p.Tick(); logged {
			t.Fatal("Tick logged before the interval elapsed")
		}
	}
}

func TestTickProducesStatsAfterInterval(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(10 * time.Millisecond)

	var stats Stats
	var logged bool
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
		if stats, logged = p.Tick(); logged {
			break
		}
	}
	if !logged {
		t.Fatal("Tick never logged a summary")
	}

	if stats.FPS <= 0 {
		t.Errorf("FPS = %f, want > 0", stats.FPS)
	}
	if stats.FrameMs <= 0 {
		t.Errorf("FrameMs = %f, want > 0", stats.FrameMs)
	}
	if stats.WorstFrameMs < stats.FrameMs {
		t.Errorf("WorstFrameMs %f is below the average %f", stats.WorstFrameMs, stats.FrameMs)
	}
	if stats.HeapMB <= 0 {
		t.Errorf("HeapMB = %f, want > 0", stats.HeapMB)
	}
}

func TestSetIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(0)
	p.SetInterval(-time.Second)
	if p.interval != time.Second {
		t.Errorf("interval = %v, want the 1s default", p.interval)
	}
}
