package fluid

import (
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"

	"swirl/gpu"
)

// simResolution fits a base grid size to the surface aspect ratio. Both
// grids preserve the display aspect: the long axis gets the larger
// dimension. Degenerate surface dimensions fall back to a square grid.
func simResolution(base, w, h int) (int, int) {
	aspect := 1.0
	if w > 0 && h > 0 {
		aspect = float64(w) / float64(h)
	}
	if aspect < 1 {
		aspect = 1 / aspect
	}
	lo := int(math.Round(float64(base)))
	hi := int(math.Round(float64(base) * aspect))
	if w > h {
		return hi, lo
	}
	return lo, hi
}

// fieldsMatch reports whether every field already has the given grid
// dimensions.
func (e *Engine) fieldsMatch(simW, simH, dyeW, dyeH int32) bool {
	return e.velocity != nil && e.velocity.W() == simW && e.velocity.H() == simH &&
		e.dye != nil && e.dye.W() == dyeW && e.dye.H() == dyeH
}

// initFields allocates or reallocates every field for the current surface
// size. When either grid's dimensions changed, all five fields are
// discarded and recreated zeroed; when nothing changed this is a no-op
// and contents are preserved.
func (e *Engine) initFields() {
	sw, sh := simResolution(e.simRes, e.width, e.height)
	dw, dh := simResolution(e.dyeRes, e.width, e.height)
	simW, simH := int32(sw), int32(sh)
	dyeW, dyeH := int32(dw), int32(dh)

	if !e.fieldsMatch(simW, simH, dyeW, dyeH) {
		// Hard reset: no content migration across grid changes.
		e.releaseFields()
	}

	caps := e.ctx.Caps
	filter := int32(gl.NEAREST)
	if caps.SupportsLinearFiltering {
		filter = gl.LINEAR
	}

	e.dye = gpu.ResizeDoubleTarget(e.dye, dyeW, dyeH, caps.FormatRGBA, caps.TexType, filter)
	e.velocity = gpu.ResizeDoubleTarget(e.velocity, simW, simH, caps.FormatRG, caps.TexType, filter)
	e.divergence = gpu.ResizeTarget(e.divergence, simW, simH, caps.FormatR, caps.TexType, gl.NEAREST)
	e.curl = gpu.ResizeTarget(e.curl, simW, simH, caps.FormatR, caps.TexType, gl.NEAREST)
	e.pressure = gpu.ResizeDoubleTarget(e.pressure, simW, simH, caps.FormatR, caps.TexType, gl.NEAREST)
}

// releaseFields drops every field. Fields are nil until the next
// initFields call.
func (e *Engine) releaseFields() {
	if e.dye != nil {
		e.dye.Release()
		e.dye = nil
	}
	if e.velocity != nil {
		e.velocity.Release()
		e.velocity = nil
	}
	if e.pressure != nil {
		e.pressure.Release()
		e.pressure = nil
	}
	if e.divergence != nil {
		e.divergence.Release()
		e.divergence = nil
	}
	if e.curl != nil {
		e.curl.Release()
		e.curl = nil
	}
}
