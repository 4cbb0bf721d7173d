package fluid

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"swirl/gpu"
)

// Render composites the current dye field to the default framebuffer. It
// runs every tick regardless of pause state.
func (e *Engine) Render(w, h int) {
	if !e.guard("render") {
		return
	}

	width, height := int32(w), int32(h)

	if e.cfg.Render.Transparent {
		gl.Disable(gl.BLEND)
	} else {
		gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
		gl.Enable(gl.BLEND)

		bc := e.cfg.Render.BackColor
		e.colorProg.Bind()
		e.colorProg.SetVec4(gpu.UColor, mgl32.Vec4{
			float32(bc[0]), float32(bc[1]), float32(bc[2]), 1,
		})
		e.ctx.BlitScreen(width, height)
	}

	e.displayProg.Bind()
	e.displayProg.SetVec2(gpu.UTexelSize, 1/float32(width), 1/float32(height))
	e.displayProg.SetSampler(gpu.UTexture, e.dye.Read().Attach(0))
	e.displayProg.SetFloat(gpu.UShadingStrength, e.shadingStrength)
	e.ctx.BlitScreen(width, height)
}
