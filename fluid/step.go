package fluid

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"swirl/gpu"
)

// step runs the fixed-order solver passes for one tick. Each pass is one
// fullscreen draw into its destination target; double-buffered fields
// swap their active-read selector right after being written.
func (e *Engine) step(dt float32) {
	gl.Disable(gl.BLEND)

	velTexelX := e.velocity.Read().TexelX
	velTexelY := e.velocity.Read().TexelY

	// 1. Vorticity from velocity, central differences.
	e.curlProg.Bind()
	e.curlProg.SetVec2(gpu.UTexelSize, velTexelX, velTexelY)
	e.curlProg.SetSampler(gpu.UVelocity, e.velocity.Read().Attach(0))
	e.ctx.Blit(e.curl)

	// 2. Vorticity confinement force back into velocity.
	e.vorticityProg.Bind()
	e.vorticityProg.SetVec2(gpu.UTexelSize, velTexelX, velTexelY)
	e.vorticityProg.SetSampler(gpu.UVelocity, e.velocity.Read().Attach(0))
	e.vorticityProg.SetSampler(gpu.UCurlField, e.curl.Attach(1))
	e.vorticityProg.SetFloat(gpu.UCurlStrength, float32(e.cfg.Sim.Curl))
	e.vorticityProg.SetFloat(gpu.UDt, dt)
	e.ctx.Blit(e.velocity.Write())
	e.velocity.Swap()

	// 3. Velocity divergence with mirrored boundaries.
	e.divergenceProg.Bind()
	e.divergenceProg.SetVec2(gpu.UTexelSize, velTexelX, velTexelY)
	e.divergenceProg.SetSampler(gpu.UVelocity, e.velocity.Read().Attach(0))
	e.ctx.Blit(e.divergence)

	// 4. Pressure warm start: damped carry-forward of the previous
	// solution, not a reset to zero.
	e.clearProg.Bind()
	e.clearProg.SetSampler(gpu.UTexture, e.pressure.Read().Attach(0))
	e.clearProg.SetFloat(gpu.UValue, float32(e.cfg.Sim.Pressure))
	e.ctx.Blit(e.pressure.Write())
	e.pressure.Swap()

	// 5. Jacobi relaxation of the pressure Poisson equation.
	e.pressureProg.Bind()
	e.pressureProg.SetVec2(gpu.UTexelSize, velTexelX, velTexelY)
	e.pressureProg.SetSampler(gpu.UDivergence, e.divergence.Attach(0))
	for i := 0; i < e.cfg.Sim.PressureIterations; i++ {
		e.pressureProg.SetSampler(gpu.UPressure, e.pressure.Read().Attach(1))
		e.ctx.Blit(e.pressure.Write())
		e.pressure.Swap()
	}

	// 6. Subtract the pressure gradient to enforce incompressibility.
	e.gradientProg.Bind()
	e.gradientProg.SetVec2(gpu.UTexelSize, velTexelX, velTexelY)
	e.gradientProg.SetSampler(gpu.UPressure, e.pressure.Read().Attach(0))
	e.gradientProg.SetSampler(gpu.UVelocity, e.velocity.Read().Attach(1))
	e.ctx.Blit(e.velocity.Write())
	e.velocity.Swap()

	// 7. Self-advection of velocity, semi-Lagrangian backtrace.
	e.advectionProg.Bind()
	e.advectionProg.SetVec2(gpu.UTexelSize, velTexelX, velTexelY)
	if !e.ctx.Caps.SupportsLinearFiltering {
		e.advectionProg.SetVec2(gpu.UDyeTexelSize, velTexelX, velTexelY)
	}
	velocityID := e.velocity.Read().Attach(0)
	e.advectionProg.SetSampler(gpu.UVelocity, velocityID)
	e.advectionProg.SetSampler(gpu.USource, velocityID)
	e.advectionProg.SetFloat(gpu.UDt, dt)
	e.advectionProg.SetFloat(gpu.UDissipation, float32(e.cfg.Sim.VelocityDissipation))
	e.ctx.Blit(e.velocity.Write())
	e.velocity.Swap()

	// 8. Dye advection along the already-advected velocity, on the dye
	// grid's resolution.
	if !e.ctx.Caps.SupportsLinearFiltering {
		e.advectionProg.SetVec2(gpu.UDyeTexelSize, e.dye.Read().TexelX, e.dye.Read().TexelY)
	}
	e.advectionProg.SetSampler(gpu.UVelocity, e.velocity.Read().Attach(0))
	e.advectionProg.SetSampler(gpu.USource, e.dye.Read().Attach(1))
	e.advectionProg.SetFloat(gpu.UDissipation, float32(e.cfg.Sim.DensityDissipation))
	e.ctx.Blit(e.dye.Write())
	e.dye.Swap()
}
