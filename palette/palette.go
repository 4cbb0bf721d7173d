// Package palette generates splat colors by cycling a fixed palette with
// bounded random hue jitter.
package palette

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/colorgrad"
)

// dimFactor keeps generated colors dark enough for additive accumulation
// in the dye field.
const dimFactor = 0.15

// Generator hands out palette colors round-robin and tracks the
// accumulated-time threshold for recoloring active pointers.
type Generator struct {
	entries []colorful.Color
	idx     int

	jitter      float64 // max hue perturbation in degrees
	updateSpeed float64
	colorful    bool
	timer       float64

	rng *rand.Rand
}

// New builds a generator from hex palette stops. The stops are expanded
// through a gradient and pre-sampled into one discrete entry per stop.
func New(stops []string, jitter, updateSpeed float64, cycling bool, seed int64) (*Generator, error) {
	if len(stops) == 0 {
		return nil, fmt.Errorf("palette: no color stops configured")
	}
	grad, err := colorgrad.NewGradient().HtmlColors(stops...).Build()
	if err != nil {
		return nil, fmt.Errorf("palette: building gradient: %w", err)
	}

	entries := make([]colorful.Color, len(stops))
	for i := range stops {
		t := 0.0
		if len(stops) > 1 {
			t = float64(i) / float64(len(stops)-1)
		}
		entries[i] = grad.At(t)
	}

	return &Generator{
		entries:     entries,
		jitter:      jitter,
		updateSpeed: updateSpeed,
		colorful:    cycling,
		rng:         rand.New(rand.NewSource(seed)),
	}, nil
}

// Next returns the next palette entry with hue jitter applied, dimmed for
// additive injection. Entries advance round-robin modulo palette length.
func (g *Generator) Next() mgl32.Vec3 {
	c := g.entries[g.idx]
	g.idx = (g.idx + 1) % len(g.entries)

	h, s, v := c.Hsv()
	h += (g.rng.Float64()*2 - 1) * g.jitter
	h = math.Mod(h+360, 360)
	c = colorful.Hsv(h, s, v)

	return mgl32.Vec3{
		float32(c.R * dimFactor),
		float32(c.G * dimFactor),
		float32(c.B * dimFactor),
	}
}

// Len returns the palette length.
func (g *Generator) Len() int { return len(g.entries) }

// Tick accumulates elapsed time and reports whether active pointer colors
// should refresh. The threshold wraps rather than resets so uneven frame
// times do not drift the cycle.
func (g *Generator) Tick(dt float64) bool {
	if !g.colorful {
		return false
	}
	g.timer += dt * g.updateSpeed
	if g.timer < 1 {
		return false
	}
	g.timer = math.Mod(g.timer, 1)
	return true
}
