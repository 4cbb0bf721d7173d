// Package gpu wraps the OpenGL objects the fluid engine needs: render
// targets, shader programs and the fullscreen quad every pass draws with.
package gpu

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Context owns the shared GL state for the engine: the negotiated
// capabilities and the fullscreen quad geometry.
type Context struct {
	Caps Capabilities

	quadVAO uint32
	quadVBO uint32
	quadEBO uint32
}

// NewContext initializes the GL bindings, negotiates texture capabilities
// and builds the fullscreen quad. Must be called on the thread that owns
// the current GL context.
func NewContext() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL bindings: %w", err)
	}

	c := &Context{Caps: DetectCapabilities()}
	c.initQuad()

	slog.Info("gpu context ready",
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"tier", c.Caps.Tier.String(),
		"linear_filtering", c.Caps.SupportsLinearFiltering,
	)

	return c, nil
}

// initQuad uploads the two-triangle fullscreen quad shared by every pass.
func (c *Context) initQuad() {
	vertices := []float32{
		-1, -1,
		-1, 1,
		1, 1,
		1, -1,
	}
	indices := []uint16{0, 1, 2, 0, 2, 3}

	gl.GenVertexArrays(1, &c.quadVAO)
	gl.BindVertexArray(c.quadVAO)

	gl.GenBuffers(1, &c.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &c.quadEBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.quadEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 0, 0)

	gl.BindVertexArray(0)
}

// Blit draws the fullscreen quad into dst, setting the viewport to the
// target's dimensions. The currently bound program does the work.
func (c *Context) Blit(dst *Target) {
	gl.Viewport(0, 0, dst.W, dst.H)
	gl.BindFramebuffer(gl.FRAMEBUFFER, dst.FBO)
	c.drawQuad()
}

// BlitScreen draws the fullscreen quad into the default framebuffer.
func (c *Context) BlitScreen(w, h int32) {
	gl.Viewport(0, 0, w, h)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	c.drawQuad()
}

func (c *Context) drawQuad() {
	gl.BindVertexArray(c.quadVAO)
	gl.DrawElements(gl.TRIANGLES, 6, gl.UNSIGNED_SHORT, nil)
	gl.BindVertexArray(0)
}

// Release frees the quad geometry.
func (c *Context) Release() {
	gl.DeleteBuffers(1, &c.quadVBO)
	gl.DeleteBuffers(1, &c.quadEBO)
	gl.DeleteVertexArrays(1, &c.quadVAO)
}
