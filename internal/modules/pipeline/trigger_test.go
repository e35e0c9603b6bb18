package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrigger_CollapsesRapidFiresIntoOneRun(t *testing.T) {
	runs := make(chan float64, 8)
	tr := newTrigger(40*time.Millisecond, func(v float64) { runs <- v })
	defer tr.stop()

	for _, v := range []float64{0.01, 0.02, 0.03, 0.04, 0.05} {
		tr.fire(v)
	}

	select {
	case v := <-runs:
		assert.InDelta(t, 0.05, v, 1e-12)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced run never fired")
	}

	// The replaced timers must stay silent.
	select {
	case v := <-runs:
		t.Fatalf("unexpected extra run with %v", v)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestTrigger_FireDuringRunningCallbackSchedulesFreshRun(t *testing.T) {
	started := make(chan float64)
	release := make(chan struct{})
	tr := newTrigger(10*time.Millisecond, func(v float64) {
		started <- v
		<-release
	})
	defer tr.stop()

	tr.fire(0.02)
	require.InDelta(t, 0.02, <-started, 1e-12)

	// New value arrives while the first callback is still executing. It must
	// produce exactly one more run, with the new value.
	tr.fire(0.04)
	release <- struct{}{}

	select {
	case v := <-started:
		assert.InDelta(t, 0.04, v, 1e-12)
	case <-time.After(2 * time.Second):
		t.Fatal("second run never fired")
	}
	release <- struct{}{}

	select {
	case v := <-started:
		t.Fatalf("unexpected third run with %v", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTrigger_StopCancelsPendingRun(t *testing.T) {
	runs := make(chan float64, 1)
	tr := newTrigger(30*time.Millisecond, func(v float64) { runs <- v })

	tr.fire(0.02)
	tr.stop()

	select {
	case v := <-runs:
		t.Fatalf("run fired after stop with %v", v)
	case <-time.After(150 * time.Millisecond):
	}

	// Fires after stop are rejected outright.
	tr.fire(0.03)
	select {
	case v := <-runs:
		t.Fatalf("run fired after stop with %v", v)
	case <-time.After(100 * time.Millisecond):
	}
}
