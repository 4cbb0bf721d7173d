package main

import (
	"flag"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"swirl/config"
	"swirl/control"
	"swirl/fluid"
	"swirl/gpu"
	"swirl/input"
	"swirl/palette"
	"swirl/telemetry"
)

func init() {
	// GLFW event handling and GL commands must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for perf CSV and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	controlAddr := flag.String("control-addr", "", "Websocket control listen address (empty = disabled)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	vsync := flag.Bool("vsync", true, "Synchronize to the display refresh rate")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	gen, err := palette.New(cfg.Palette.Colors, cfg.Palette.HueJitter,
		cfg.Palette.UpdateSpeed, cfg.Palette.Colorful, rngSeed)
	if err != nil {
		slog.Error("failed to build palette", "error", err)
		os.Exit(1)
	}

	// A missing GPU surface is non-fatal: log and leave the host alone.
	if err := glfw.Init(); err != nil {
		slog.Warn("gpu surface unavailable, fluid layer disabled", "error", err)
		return
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(cfg.Screen.Width, cfg.Screen.Height, "Swirl", nil, nil)
	if err != nil {
		slog.Warn("gpu surface unavailable, fluid layer disabled", "error", err)
		return
	}
	window.MakeContextCurrent()
	if *vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	ctx, err := gpu.NewContext()
	if err != nil {
		slog.Warn("gpu surface unavailable, fluid layer disabled", "error", err)
		return
	}
	defer ctx.Release()

	winW, winH := window.GetSize()
	adapter := input.NewAdapter(winW, winH, gen)

	eng := fluid.New(cfg, gen, logger, rngSeed)
	defer eng.Release()

	fbW, fbH := window.GetFramebufferSize()
	if err := eng.Init(ctx, fbW, fbH); err != nil {
		slog.Error("engine construction failed", "error", err)
		os.Exit(1)
	}

	// Hand the control surface to external hosts once the engine signals
	// readiness.
	if *controlAddr != "" {
		go func(addr string) {
			<-eng.Ready()
			srv := control.NewServer(surface{eng}, logger)
			if err := srv.ListenAndServe(addr); err != nil {
				slog.Error("control server stopped", "error", err)
			}
		}(*controlAddr)
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to initialize output", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Warn("writing config snapshot", "error", err)
	}

	installCallbacks(window, eng, adapter)

	slog.Info("starting", "seed", rngSeed,
		"sim_resolution", cfg.Sim.SimResolution,
		"dye_resolution", cfg.Sim.DyeResolution,
	)

	var frameCap time.Duration
	if !*vsync && cfg.Screen.TargetFPS > 0 {
		frameCap = time.Second / time.Duration(cfg.Screen.TargetFPS)
	}

	last := time.Now()
	lastPerfLog := last
	lastInput := last
	frames := 0

	var idleInterval time.Duration
	if cfg.Splat.IdleIntervalSec > 0 {
		idleInterval = time.Duration(cfg.Splat.IdleIntervalSec * float64(time.Second))
	}

	for !window.ShouldClose() {
		perf.StartFrame()
		now := time.Now()
		elapsed := now.Sub(last).Seconds()
		last = now

		perf.StartPhase(telemetry.PhaseInput)
		glfw.PollEvents()
		winW, winH = window.GetSize()
		adapter.Resize(winW, winH)
		fbW, fbH = window.GetFramebufferSize()
		eng.Resize(fbW, fbH)

		perf.StartPhase(telemetry.PhaseSplat)
		if gen.Tick(elapsed) {
			adapter.RefreshColors()
		}
		adapter.ConsumeMoved(func(p *input.Pointer) {
			color := p.Color
			eng.SplatAt(p.X, p.Y, p.DX, p.DY, &color)
			lastInput = now
		})

		// Keep an idle scene lively.
		if idleInterval > 0 && now.Sub(lastInput) >= idleInterval {
			eng.SplatBurst()
			lastInput = now
		}

		perf.StartPhase(telemetry.PhaseStep)
		eng.Step(elapsed)

		perf.StartPhase(telemetry.PhaseRender)
		eng.Render(fbW, fbH)
		window.SwapBuffers()

		perf.EndFrame()

		if cfg.Telemetry.LogIntervalSec > 0 &&
			now.Sub(lastPerfLog).Seconds() >= cfg.Telemetry.LogIntervalSec {
			perf.LogSummary(logger)
			if err := out.WritePerf(perf.Stats()); err != nil {
				slog.Warn("writing perf stats", "error", err)
			}
			lastPerfLog = now
		}

		if frameCap > 0 {
			if sleep := frameCap - time.Since(now); sleep > 0 {
				time.Sleep(sleep)
			}
		}

		frames++
		if *maxFrames > 0 && frames >= *maxFrames {
			break
		}
	}
}

// surface adapts the engine to the control package's contract: remote
// splats always draw a fresh color.
type surface struct {
	*fluid.Engine
}

func (s surface) SplatAt(x, y, dx, dy float64) {
	s.Engine.SplatAt(x, y, dx, dy, nil)
}

// installCallbacks wires pointer and keyboard events into the adapter and
// the engine control surface.
func installCallbacks(window *glfw.Window, eng *fluid.Engine, adapter *input.Adapter) {
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			x, y := w.GetCursorPos()
			adapter.Down(input.PrimaryID, x, y)
		case glfw.Release:
			adapter.Up(input.PrimaryID)
		}
	})

	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		adapter.Move(input.PrimaryID, x, y)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyP:
			slog.Info("pause toggled", "paused", eng.TogglePause())
		case glfw.KeySpace:
			eng.SplatBurst()
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		}
	})
}
