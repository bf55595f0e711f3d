package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esimov/ascii-smoke/config"
	"github.com/esimov/ascii-smoke/detector"
	"github.com/esimov/ascii-smoke/scene"
	"github.com/esimov/ascii-smoke/telemetry"
	"github.com/esimov/ascii-smoke/terminal"
	"github.com/esimov/ascii-smoke/websocket"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mode := flag.String("mode", "terminal", "Front-end: terminal, server or headless")
	frames := flag.Int("frames", 300, "Frames to simulate in headless mode")
	output := flag.String("output", "", "CSV file for per-frame statistics (overrides config)")
	faces := flag.String("faces", "", "Image whose detected faces become smoke sources")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	logOut, closeLog, err := logWriter(*mode, cfg.Terminal.LogFile)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer closeLog()
	logger := slog.New(slog.NewJSONHandler(logOut, nil))
	slog.SetDefault(logger)

	if *output != "" {
		cfg.Telemetry.Output = *output
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *mode, *frames, *faces, logger); err != nil {
		logger.Error("simulation failed", "mode", *mode, "error", err)
		closeLog()
		os.Exit(1)
	}
}

// logWriter keeps the terminal free for termbox by logging to a file in
// terminal mode.
func logWriter(mode, path string) (io.Writer, func(), error) {
	if mode != "terminal" || path == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func run(ctx context.Context, cfg *config.Config, mode string, frames int, faces string, logger *slog.Logger) error {
	sc := scene.FromConfig(cfg)
	if faces != "" {
		if err := addFaces(sc, cfg.Detector, faces, logger); err != nil {
			return err
		}
	}

	rec, err := telemetry.Create(cfg.Telemetry.Output)
	if err != nil {
		return err
	}
	defer rec.Close()

	logger.Info("starting simulation",
		"mode", mode,
		"size", cfg.Solver.Size,
		"objects", len(sc.Objects()),
		"telemetry", cfg.Telemetry.Output,
	)

	switch mode {
	case "terminal":
		term := terminal.New(sc, terminal.Options{
			FrameRate:   cfg.Terminal.FrameRate,
			ClickAmount: cfg.Terminal.ClickAmount,
		}, logger, rec)
		return term.Run(ctx)
	case "server":
		srv, err := websocket.NewServer(websocket.Params{
			Address: cfg.Server.Address,
			Prefix:  cfg.Server.Prefix,
			Root:    cfg.Server.Root,
		}, logger)
		if err != nil {
			return err
		}
		return srv.Run(ctx, sc, cfg.Server.FrameRate, rec)
	case "headless":
		dt := time.Duration(cfg.Telemetry.HeadlessDT * float64(time.Second))
		last, err := runHeadless(ctx, sc, frames, dt, rec)
		if err != nil {
			return err
		}
		logger.Info("headless run finished", "stats", last, "rows", rec.Rows())
		return nil
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// addFaces runs the face detector over the image and adds an emitter per face.
func addFaces(sc *scene.Scene, cfg config.DetectorConfig, path string, logger *slog.Logger) error {
	if cfg.Cascade == "" {
		return fmt.Errorf("face sources need detector.cascade to be set")
	}
	det, err := detector.Load(cfg.Cascade, detector.ParamsFromConfig(cfg))
	if err != nil {
		return err
	}
	found, w, h, err := det.DetectFile(path)
	if err != nil {
		return err
	}
	for _, f := range found {
		sc.Add(f.Emitter(w, h, cfg.Emission))
	}
	logger.Info("faces detected", "image", path, "count", len(found))
	return nil
}

// runHeadless steps the scene a fixed number of frames with a constant wall
// time per frame, recording every frame.
func runHeadless(ctx context.Context, sc *scene.Scene, frames int, dt time.Duration, rec *telemetry.Recorder) (telemetry.Stats, error) {
	var st telemetry.Stats
	for n := 0; n < frames; n++ {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		sc.Step(dt)
		st = telemetry.Collect(sc.Frame(), sc.SimTime(), sc.Solver())
		if err := rec.Write(st); err != nil {
			return st, err
		}
	}
	return st, nil
}
