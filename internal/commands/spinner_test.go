package commands

import (
	"testing"
	"time"
)

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("Connecting")
	s.start()
	time.Sleep(50 * time.Millisecond)
	s.stopWithSuccess("done")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner("Connecting")
	s.start()
	time.Sleep(30 * time.Millisecond)
	s.stopWithError()
}

func TestSpinnerDoubleStop(t *testing.T) {
	s := newSpinner("Connecting")
	s.start()
	s.stopWithError()
	// A second stop must not close the channel again.
	s.stopOnce()
}

func TestSpinnerSetMessage(t *testing.T) {
	s := newSpinner("Generating")
	s.setMessage("Retrying in 1s (attempt 1 failed: network)")

	s.mu.Lock()
	got := s.message
	s.mu.Unlock()

	if got != "Retrying in 1s (attempt 1 failed: network)" {
		t.Errorf("message = %q", got)
	}
}
