package gpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Target is a single render target: one texture attached to one
// framebuffer, cleared to zero on allocation.
type Target struct {
	Texture uint32
	FBO     uint32
	W, H    int32

	// Texel size, always the reciprocal of the current dimensions.
	TexelX, TexelY float32
}

// NewTarget allocates a texture and framebuffer of the given shape and
// clears it to zero.
func NewTarget(w, h int32, f TextureFormat, texType uint32, filter int32) *Target {
	t := &Target{
		W:      w,
		H:      h,
		TexelX: 1.0 / float32(w),
		TexelY: 1.0 / float32(h),
	}

	gl.ActiveTexture(gl.TEXTURE0)
	gl.GenTextures(1, &t.Texture)
	gl.BindTexture(gl.TEXTURE_2D, t.Texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, f.Internal, w, h, 0, f.Format, texType, nil)

	gl.GenFramebuffers(1, &t.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.Texture, 0)
	gl.Viewport(0, 0, w, h)
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	return t
}

// Attach binds the texture to the given unit and returns the unit index
// for use as a sampler uniform value.
func (t *Target) Attach(unit uint32) int32 {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.Texture)
	return int32(unit)
}

// Release deletes the GL objects.
func (t *Target) Release() {
	gl.DeleteFramebuffers(1, &t.FBO)
	gl.DeleteTextures(1, &t.Texture)
}

// ResizeTarget returns t unchanged when the dimensions already match;
// otherwise the old target is released and a fresh zeroed one takes its
// place. Contents are never migrated.
func ResizeTarget(t *Target, w, h int32, f TextureFormat, texType uint32, filter int32) *Target {
	if t != nil && t.W == w && t.H == h {
		return t
	}
	if t != nil {
		t.Release()
	}
	return NewTarget(w, h, f, texType, filter)
}

// DoubleTarget is a pair of same-shaped targets with an explicit
// active-read index. Fields written while being read in the same pass
// (velocity, dye, pressure) use it to avoid aliasing.
type DoubleTarget struct {
	Bufs [2]*Target
	read int
}

// NewDoubleTarget allocates two targets of the given shape.
func NewDoubleTarget(w, h int32, f TextureFormat, texType uint32, filter int32) *DoubleTarget {
	return &DoubleTarget{
		Bufs: [2]*Target{
			NewTarget(w, h, f, texType, filter),
			NewTarget(w, h, f, texType, filter),
		},
	}
}

// Read returns the buffer passes sample from.
func (d *DoubleTarget) Read() *Target { return d.Bufs[d.read] }

// Write returns the buffer passes render into.
func (d *DoubleTarget) Write() *Target { return d.Bufs[1-d.read] }

// Swap flips the active-read index.
func (d *DoubleTarget) Swap() { d.read = 1 - d.read }

// W returns the width shared by both buffers.
func (d *DoubleTarget) W() int32 { return d.Bufs[d.read].W }

// H returns the height shared by both buffers.
func (d *DoubleTarget) H() int32 { return d.Bufs[d.read].H }

// Release deletes both buffers.
func (d *DoubleTarget) Release() {
	d.Bufs[0].Release()
	d.Bufs[1].Release()
}

// ResizeDoubleTarget returns d unchanged when the dimensions already
// match; otherwise both buffers are discarded and reallocated as zeroed
// targets with the read index reset.
func ResizeDoubleTarget(d *DoubleTarget, w, h int32, f TextureFormat, texType uint32, filter int32) *DoubleTarget {
	if d != nil && d.W() == w && d.H() == h {
		return d
	}
	if d != nil {
		d.Release()
	}
	return NewDoubleTarget(w, h, f, texType, filter)
}
