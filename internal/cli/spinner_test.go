package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Arranging the shelf...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Looking up...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Rendering shelf...")
	s.Start()

	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner goroutine did not exit after context cancellation")
	}
}

func TestSpinnerFramesEqualWidth(t *testing.T) {
	want := len([]rune(spinnerFrames[0]))
	for i, f := range spinnerFrames {
		if got := len([]rune(f)); got != want {
			t.Errorf("frame %d width = %d runes, want %d", i, got, want)
		}
	}
}
