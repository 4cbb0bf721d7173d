package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FrameStats summarizes the frame times of one rolling window.
type FrameStats struct {
	Frames int     `csv:"frames"`
	MeanMs float64 `csv:"frame_ms_mean"`
	P10Ms  float64 `csv:"frame_ms_p10"`
	P50Ms  float64 `csv:"frame_ms_p50"`
	P90Ms  float64 `csv:"frame_ms_p90"`
	FPS    float64 `csv:"fps"`
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() FrameStats {
	ms := p.frameMillis()
	if len(ms) == 0 {
		return FrameStats{}
	}

	sort.Float64s(ms)
	mean := stat.Mean(ms, nil)

	s := FrameStats{
		Frames: len(ms),
		MeanMs: mean,
		P10Ms:  stat.Quantile(0.1, stat.Empirical, ms, nil),
		P50Ms:  stat.Quantile(0.5, stat.Empirical, ms, nil),
		P90Ms:  stat.Quantile(0.9, stat.Empirical, ms, nil),
	}
	if mean > 0 {
		s.FPS = 1000.0 / mean
	}
	return s
}
