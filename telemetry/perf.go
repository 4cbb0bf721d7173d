// Package telemetry collects frame timing for the render loop and writes
// optional CSV output for offline analysis.
package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one tick of the driver loop.
const (
	PhaseInput  = "input"
	PhaseSplat  = "splat"
	PhaseStep   = "step"
	PhaseRender = "render"
)

// FrameSample holds timing data for a single frame.
type FrameSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks frame metrics over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []FrameSample
	writeIndex  int
	sampleCount int

	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]FrameSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a phase, closing the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = FrameSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// SampleCount returns the number of recorded frames, capped at the window
// size.
func (p *PerfCollector) SampleCount() int { return p.sampleCount }

// frameMillis returns the frame durations of the current window in
// milliseconds.
func (p *PerfCollector) frameMillis() []float64 {
	out := make([]float64, 0, p.sampleCount)
	for i := 0; i < p.sampleCount; i++ {
		out = append(out, float64(p.samples[i].FrameDuration)/float64(time.Millisecond))
	}
	return out
}

// phaseAverages returns the mean duration of each phase over the window.
func (p *PerfCollector) phaseAverages() map[string]time.Duration {
	sums := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		for phase, d := range p.samples[i].Phases {
			sums[phase] += d
		}
	}
	for phase := range sums {
		sums[phase] /= time.Duration(p.sampleCount)
	}
	return sums
}

// LogSummary emits a structured summary of the current window.
func (p *PerfCollector) LogSummary(logger *slog.Logger) {
	stats := p.Stats()
	if stats.Frames == 0 {
		return
	}
	args := []any{
		"frames", stats.Frames,
		"fps", stats.FPS,
		"frame_ms_mean", stats.MeanMs,
		"frame_ms_p50", stats.P50Ms,
		"frame_ms_p90", stats.P90Ms,
	}
	for phase, d := range p.phaseAverages() {
		args = append(args, "phase_"+phase, d.Round(time.Microsecond))
	}
	logger.Info("perf", args...)
}
