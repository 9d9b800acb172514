// ip2k - software 3D renderer
// Renders OBJ and glTF models with a scanline rasterizer into the terminal
// or a desktop window.
//
// Controls:
//
//	Q/E         - Move camera forward/back
//	D/A         - Move camera right/left
//	W/S         - Move camera up/down
//	Arrows      - Pitch and yaw the model
//	O/P         - Roll the model
//	1-9         - Toggle body groups
//	X           - Toggle wireframe
//	M           - Switch texture interpolation
//	F2          - Screenshot
//	\ or Esc    - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/taigrr/ip2k/internal/config"
	"github.com/taigrr/ip2k/internal/display"
	"github.com/taigrr/ip2k/internal/input"
	"github.com/taigrr/ip2k/internal/logger"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ip2k - software 3D renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: ip2k [options] <model.obj|model.glb>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Q/E W/S D/A - Move camera\n")
		fmt.Fprintf(os.Stderr, "  Arrows O/P  - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  1-9         - Toggle body groups\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  M           - Switch texture interpolation\n")
		fmt.Fprintf(os.Stderr, "  F2          - Screenshot\n")
		fmt.Fprintf(os.Stderr, "  \\ or Esc    - Quit\n")
	}
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Models) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	snapshot := config.SnapshotPath()
	console := logger.ConsoleStdout
	if snapshot == "" && cfg.Display.Backend != "window" {
		console = logger.ConsoleStderrWarn
	}
	fileCfg := logger.FileConfig{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, console); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, snapshot); err != nil {
		logger.Fatal("ip2k failed", zap.Error(err))
	}
}

func run(cfg *config.Config, snapshot string) error {
	log := logger.Log

	env, err := buildScene(cfg, log, cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		return err
	}

	if snapshot != "" {
		buf, err := env.RenderFrame()
		if err != nil {
			return err
		}
		if err := buf.Save(snapshot); err != nil {
			return err
		}
		stats := env.Stats()
		log.Info("snapshot saved",
			zap.String("path", snapshot),
			zap.Int("drawn", stats.Drawn),
			zap.Int("submitted", stats.Submitted))
		return nil
	}

	keymap, err := input.NewKeymap(cfg.Keys)
	if err != nil {
		return fmt.Errorf("keys: %w", err)
	}

	v := newViewer(env, log.Named("viewer"))
	opts := display.Options{
		Title:  cfg.Display.Title,
		Width:  cfg.Display.Width,
		Height: cfg.Display.Height,
		FPS:    cfg.Display.FPS,
		State:  input.NewState(keymap, cfg.Camera.MoveSpeed, cfg.Camera.TurnSpeed, cfg.Display.FPS),
		Log:    log.Named("display"),
	}
	if cfg.Display.Status {
		opts.Status = v.status
	}

	surface, err := display.New(cfg.Display.Backend, opts)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("display starting", zap.String("backend", cfg.Display.Backend))
	return surface.Run(ctx, v.frame)
}
