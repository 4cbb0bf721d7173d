// Package fluid implements the GPU-resident incompressible fluid solver:
// field lifecycle, the multi-pass simulation step, splat injection and
// compositing to the display surface.
package fluid

import (
	"log/slog"
	"math/rand"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"swirl/config"
	"swirl/gpu"
	"swirl/palette"
)

// Byte-tier grid limits. Fixed-point targets saturate quickly, so the
// grids shrink to keep the solver stable.
const (
	byteTierSimResolution = 64
	byteTierDyeResolution = 256
)

// Engine is the simulation context. It owns every field and program and
// is passed explicitly into each stage; there is no package-level state.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger
	gen    *palette.Generator

	ctx *gpu.Context

	initialized bool
	warned      bool
	ready       chan struct{}

	// mu guards paused, pending and rng: the control surface may be
	// driven from other goroutines, GPU work happens only on the tick
	// thread.
	mu      sync.Mutex
	paused  bool
	pending []splatRequest
	rng     *rand.Rand

	// Display surface size in pixels.
	width, height int

	// Grid base resolutions, possibly reduced by the byte tier.
	simRes, dyeRes int

	shadingStrength float32

	clearProg      *gpu.Program
	colorProg      *gpu.Program
	displayProg    *gpu.Program
	splatProg      *gpu.Program
	advectionProg  *gpu.Program
	divergenceProg *gpu.Program
	curlProg       *gpu.Program
	vorticityProg  *gpu.Program
	pressureProg   *gpu.Program
	gradientProg   *gpu.Program

	dye      *gpu.DoubleTarget
	velocity *gpu.DoubleTarget
	pressure *gpu.DoubleTarget

	divergence *gpu.Target
	curl       *gpu.Target
}

// splatRequest is a queued impulse. Colorless requests resolve a fresh
// palette color at injection time on the tick thread.
type splatRequest struct {
	x, y     float64
	dx, dy   float64
	color    mgl32.Vec3
	hasColor bool
	brighten bool
}

// New creates an engine without touching the GPU. Init must run on the
// GL thread before the first tick does real work.
func New(cfg *config.Config, gen *palette.Generator, logger *slog.Logger, seed int64) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		gen:    gen,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
		ready:  make(chan struct{}),
	}
}

// Init compiles every kernel, allocates the fields and seeds the scene
// with a randomized splat burst. Construction happens exactly once;
// compile or link failure is fatal.
func (e *Engine) Init(ctx *gpu.Context, w, h int) error {
	e.ctx = ctx
	e.width, e.height = w, h

	e.simRes = e.cfg.Sim.SimResolution
	e.dyeRes = e.cfg.Sim.DyeResolution
	e.shadingStrength = float32(e.cfg.Render.ShadingStrength)
	if !e.cfg.Render.Shading {
		e.shadingStrength = 0
	}
	if ctx.Caps.Tier == gpu.TierByte {
		// Fixed-point fallback: no lighting, smaller grids.
		e.shadingStrength = 0
		if e.simRes > byteTierSimResolution {
			e.simRes = byteTierSimResolution
		}
		if e.dyeRes > byteTierDyeResolution {
			e.dyeRes = byteTierDyeResolution
		}
		e.logger.Warn("float render targets unavailable, using fixed-point tier",
			"sim_resolution", e.simRes, "dye_resolution", e.dyeRes)
	}

	if err := e.buildPrograms(); err != nil {
		return err
	}
	e.initFields()

	e.initialized = true
	e.warned = false
	close(e.ready)

	e.SplatBurst()

	return nil
}

// Ready is closed once the engine has fully initialized. The host hands
// the control surface to external callers when it fires.
func (e *Engine) Ready() <-chan struct{} { return e.ready }

// buildPrograms compiles and links every pipeline stage. The advection
// kernel gets the manual-bilinear define when the context cannot filter
// the negotiated formats linearly.
func (e *Engine) buildPrograms() error {
	vs, err := gpu.CompileShader(gl.VERTEX_SHADER, baseVertexShader, nil)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(vs)

	var advectionDefines []string
	if !e.ctx.Caps.SupportsLinearFiltering {
		advectionDefines = []string{"MANUAL_FILTERING"}
	}

	stages := []struct {
		dst     **gpu.Program
		source  string
		defines []string
	}{
		{&e.clearProg, clearShader, nil},
		{&e.colorProg, colorShader, nil},
		{&e.displayProg, displayShader, nil},
		{&e.splatProg, splatShader, nil},
		{&e.advectionProg, advectionShader, advectionDefines},
		{&e.divergenceProg, divergenceShader, nil},
		{&e.curlProg, curlShader, nil},
		{&e.vorticityProg, vorticityShader, nil},
		{&e.pressureProg, pressureShader, nil},
		{&e.gradientProg, gradientSubtractShader, nil},
	}

	for _, s := range stages {
		fs, err := gpu.CompileShader(gl.FRAGMENT_SHADER, s.source, s.defines)
		if err != nil {
			return err
		}
		p, err := gpu.NewProgram(vs, fs)
		gl.DeleteShader(fs)
		if err != nil {
			return err
		}
		*s.dst = p
	}
	return nil
}

// guard verifies construction finished before any GPU command is issued.
// Ticks arriving early are skipped and the condition self-heals.
func (e *Engine) guard(op string) bool {
	if e.initialized {
		return true
	}
	if !e.warned {
		e.logger.Warn("engine not initialized yet, skipping", "op", op)
		e.warned = true
	}
	return false
}

// Pause suspends the solver. Rendering and input keep running.
func (e *Engine) Pause() {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()
}

// Resume restarts the solver.
func (e *Engine) Resume() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()
}

// TogglePause flips the pause flag and returns the new state.
func (e *Engine) TogglePause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = !e.paused
	return e.paused
}

// IsPaused reports whether the solver is suspended.
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Resize recreates the fields when the display surface changed. It must
// complete before the tick's solver and render passes run. A minimized
// window reports a zero-size framebuffer; the current fields are kept
// until the surface comes back.
func (e *Engine) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if w == e.width && h == e.height {
		return
	}
	e.width, e.height = w, h
	if e.initialized {
		e.initFields()
	}
}

// Step advances the simulation by the elapsed wall-clock seconds. The
// timestep is clamped so a long host stall cannot destabilize the
// explicit integration. Pending splats are injected even while paused;
// pause suspends only the solver passes.
func (e *Engine) Step(elapsed float64) {
	if !e.guard("step") {
		return
	}
	dt := clampTimestep(elapsed, e.cfg.Sim.MaxDT)
	for _, s := range e.takePending() {
		e.applySplat(s)
	}
	if e.IsPaused() {
		return
	}
	e.step(float32(dt))
}

// clampTimestep caps the integration timestep and never returns a
// negative value.
func clampTimestep(elapsed, maxDT float64) float64 {
	if elapsed < 0 {
		return 0
	}
	if elapsed > maxDT {
		return maxDT
	}
	return elapsed
}

// Release frees every GPU object the engine owns.
func (e *Engine) Release() {
	if !e.initialized {
		return
	}
	e.releaseFields()
	for _, p := range []*gpu.Program{
		e.clearProg, e.colorProg, e.displayProg, e.splatProg,
		e.advectionProg, e.divergenceProg, e.curlProg, e.vorticityProg,
		e.pressureProg, e.gradientProg,
	} {
		p.Release()
	}
	e.initialized = false
}
