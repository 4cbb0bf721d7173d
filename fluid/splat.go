package fluid

import (
	"github.com/go-gl/mathgl/mgl32"

	"swirl/gpu"
)

// randomImpulseScale matches the seeding behavior: random splats carry a
// directional impulse of up to +/-500 per axis, independent of the
// pointer force multiplier.
const randomImpulseScale = 1000.0

// brightenFactor lifts generated colors for randomized bursts so seeding
// reads clearly against the background.
const brightenFactor = 10.0

// SplatAt queues a splat at normalized coordinates. dx and dy are raw
// deltas; the engine scales them by the configured splat force. A nil
// color resolves to a freshly generated one at injection time. Safe to
// call from any goroutine.
func (e *Engine) SplatAt(x, y, dx, dy float64, color *mgl32.Vec3) {
	req := splatRequest{
		x:  x,
		y:  y,
		dx: dx * e.cfg.Splat.Force,
		dy: dy * e.cfg.Splat.Force,
	}
	if color != nil {
		req.color = *color
		req.hasColor = true
	}
	e.mu.Lock()
	e.pending = append(e.pending, req)
	e.mu.Unlock()
}

// AddRandomSplats queues n splats at uniformly random positions with
// randomized directional impulses and fresh colors. Safe to call from any
// goroutine.
func (e *Engine) AddRandomSplats(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < n; i++ {
		e.pending = append(e.pending, splatRequest{
			x:        e.rng.Float64(),
			y:        e.rng.Float64(),
			dx:       randomImpulseScale * (e.rng.Float64() - 0.5),
			dy:       randomImpulseScale * (e.rng.Float64() - 0.5),
			brighten: true,
		})
	}
}

// SplatBurst queues a randomized burst of 5 to 24 splats.
func (e *Engine) SplatBurst() {
	e.mu.Lock()
	n := 5 + e.rng.Intn(20)
	e.mu.Unlock()
	e.AddRandomSplats(n)
}

// takePending drains the splat queue.
func (e *Engine) takePending() []splatRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.pending
	e.pending = nil
	return out
}

// applySplat runs one additive Gaussian pass into the velocity field and
// one into the dye field. Must run on the tick thread.
func (e *Engine) applySplat(s splatRequest) {
	color := s.color
	if !s.hasColor {
		color = e.gen.Next()
		if s.brighten {
			color = color.Mul(brightenFactor)
		}
	}

	aspect := float32(e.width) / float32(e.height)
	radius := float32(correctRadius(e.cfg.Splat.Radius/100.0, float64(aspect)))

	e.splatProg.Bind()
	e.splatProg.SetSampler(gpu.UTarget, e.velocity.Read().Attach(0))
	e.splatProg.SetFloat(gpu.UAspectRatio, aspect)
	e.splatProg.SetVec2(gpu.UPoint, float32(s.x), float32(s.y))
	e.splatProg.SetVec3(gpu.UColor, mgl32.Vec3{float32(s.dx), float32(s.dy), 0})
	e.splatProg.SetFloat(gpu.URadius, radius)
	e.ctx.Blit(e.velocity.Write())
	e.velocity.Swap()

	e.splatProg.SetSampler(gpu.UTarget, e.dye.Read().Attach(0))
	e.splatProg.SetVec3(gpu.UColor, color)
	e.ctx.Blit(e.dye.Write())
	e.dye.Swap()
}

// correctRadius scales the splat radius by the aspect ratio on landscape
// surfaces so the splat stays visually circular.
func correctRadius(radius, aspect float64) float64 {
	if aspect > 1 {
		radius *= aspect
	}
	return radius
}
