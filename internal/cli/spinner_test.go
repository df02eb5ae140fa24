package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsUntilStopped(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(context.Background(), &buf, "Running Graphviz...", 5*time.Millisecond)
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	if s.Frames() == 0 {
		t.Fatal("spinner drew no frames")
	}
	if !strings.Contains(buf.String(), "Running Graphviz...") {
		t.Errorf("output %q does not contain the message", buf.String())
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop")
	}
}

func TestSpinnerQuietWhenStoppedEarly(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(context.Background(), &buf, "fast", time.Hour)
	s.Start()
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("spinner wrote %q before its first tick", buf.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := newSpinnerTo(ctx, &buf, "Testing with context...", 5*time.Millisecond)
	s.Start()

	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	s := newSpinnerTo(ctx, &buf, "Testing with timeout...", 5*time.Millisecond)
	s.Start()
	time.Sleep(60 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
}
