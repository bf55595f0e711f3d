package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/esimov/ascii-smoke/config"
	"github.com/esimov/ascii-smoke/scene"
	smoke "github.com/esimov/ascii-smoke/smoke-solver"
	"github.com/esimov/ascii-smoke/telemetry"
)

func TestRunHeadless(t *testing.T) {
	sc := scene.New(smoke.NewSolver(8), 100)
	sc.Add(scene.NewEmitter(0.5, 0.5, 2))
	var buf bytes.Buffer
	rec := telemetry.NewRecorder(&buf)

	st, err := runHeadless(context.Background(), sc, 5, 10*time.Millisecond, rec)
	if err != nil {
		t.Fatalf("runHeadless() error = %v", err)
	}
	if st.Frame != 5 || rec.Rows() != 5 {
		t.Errorf("frame %d, %d rows, want 5 and 5", st.Frame, rec.Rows())
	}
	if math.Abs(st.SimTime-0.5) > 1e-12 {
		t.Errorf("SimTime = %v, want 0.5", st.SimTime)
	}
	if st.TotalDensity <= 0 {
		t.Errorf("TotalDensity = %v, want smoke from the emitter", st.TotalDensity)
	}
}

func TestRunHeadlessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc := scene.New(smoke.NewSolver(4), 100)

	if _, err := runHeadless(ctx, sc, 10, time.Millisecond, nil); err == nil {
		t.Error("runHeadless() ignored cancellation")
	}
	if sc.Frame() != 0 {
		t.Errorf("Frame() = %d, want 0", sc.Frame())
	}
}

func TestRunRejectsUnknownMode(t *testing.T) {
	cfg := config.Default()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(context.Background(), cfg, "window", 1, "", logger); err == nil {
		t.Error("run() accepted an unknown mode")
	}
}

func TestRunFacesNeedCascade(t *testing.T) {
	cfg := config.Default()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(context.Background(), cfg, "headless", 1, "group.jpg", logger); err == nil {
		t.Error("run() accepted faces without a cascade")
	}
}
