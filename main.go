package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orbits/app"
	"github.com/pthm-cable/orbits/config"
	"github.com/pthm-cable/orbits/frame"
	"github.com/pthm-cable/orbits/media"
	"github.com/pthm-cable/orbits/scene"
	"github.com/pthm-cable/orbits/telemetry"
	"github.com/pthm-cable/orbits/tui"
	"github.com/pthm-cable/orbits/viewer"
	"github.com/pthm-cable/orbits/worlds"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	worldsPath := flag.String("worlds", "", "World list (.csv or .json); overrides worlds.source")
	mode := flag.String("mode", "", "Placement mode: orbit, sphere or text (empty = use config)")
	headless := flag.Bool("headless", false, "Render offscreen without a window")
	terminal := flag.Bool("tui", false, "Run in the terminal")
	maxFrames := flag.Uint64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshot := flag.String("snapshot", "", "Headless: write the last frame to this .webp file")
	snapshotDir := flag.String("snapshot-dir", "", "Window: directory for [S] snapshots")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *mode != "" {
		if _, err := scene.ParseMode(*mode); err != nil {
			slog.Error("invalid mode", "error", err)
			os.Exit(1)
		}
		cfg.View.Mode = *mode
	}
	if *worldsPath != "" {
		cfg.Worlds.Source = *worldsPath
	}

	// Set up slog (JSON to stdout for structured logging). The terminal UI
	// owns stdout, so it logs to the output directory or nowhere.
	var logOut io.Writer = os.Stdout
	if *terminal {
		logOut = io.Discard
		if *outputDir != "" {
			if err := os.MkdirAll(*outputDir, 0755); err == nil {
				if f, err := os.Create(filepath.Join(*outputDir, "orbits.log")); err == nil {
					defer f.Close()
					logOut = f
				}
			}
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	ws := worlds.LoadOrDefault(cfg.Worlds.Source)

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	slog.Info("starting",
		"mode", cfg.View.Mode,
		"worlds", len(ws),
		"headless", *headless,
		"tui", *terminal,
		"max_frames", *maxFrames,
	)

	switch {
	case *headless:
		if err := runHeadless(cfg, ws, om, *maxFrames, *snapshot); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
	case *terminal:
		if err := tui.Run(cfg, tui.Options{Worlds: ws, Output: om, FPS: cfg.Screen.TargetFPS / 2, MaxFrames: *maxFrames}); err != nil {
			slog.Error("terminal run failed", "error", err)
			os.Exit(1)
		}
	default:
		rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
		defer rl.CloseWindow()

		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
		// Esc clears the selection instead of closing the window
		rl.SetExitKey(0)

		a := app.New(cfg, app.Options{Worlds: ws, Output: om, SnapshotDir: *snapshotDir, MaxFrames: *maxFrames})
		defer a.Unload()
		a.Run()
	}
}

// runHeadless renders frames onto an offscreen canvas. Without a frame
// limit it renders one second's worth.
func runHeadless(cfg *config.Config, ws []worlds.World, om *telemetry.OutputManager, maxFrames uint64, snapshot string) error {
	canvas, err := media.NewCanvas(cfg.Screen.Width, cfg.Screen.Height)
	if err != nil {
		return err
	}
	sched := &frame.Manual{}
	v := viewer.New(viewer.FromConfig(cfg), canvas, sched)
	v.SetOutput(om)
	v.SetWorlds(ws)

	if maxFrames == 0 {
		maxFrames = uint64(max(cfg.Screen.TargetFPS, 1))
	}
	v.Mount()
	for v.Frames() < maxFrames && sched.Pending() > 0 {
		sched.Step()
	}
	v.Unmount()
	slog.Info("headless run finished", "frames", v.Frames(), "perf", v.Perf().AvgTickDuration)

	if snapshot == "" {
		return nil
	}
	if err := media.SaveSnapshot(snapshot, canvas.Image()); err != nil {
		return err
	}
	slog.Info("snapshot saved", "path", snapshot)
	return nil
}
