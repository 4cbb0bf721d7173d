package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Tier is the numeric precision the context can render to.
type Tier int

const (
	// TierHalfFloat renders into 16-bit float color attachments.
	TierHalfFloat Tier = iota
	// TierByte is the fixed-point 8-bit fallback for contexts that cannot
	// render to float targets. Shading is disabled and grid resolutions
	// are reduced on this tier.
	TierByte
)

func (t Tier) String() string {
	if t == TierByte {
		return "byte"
	}
	return "half_float"
}

// TextureFormat pairs a sized internal format with its pixel format.
type TextureFormat struct {
	Internal int32
	Format   uint32
}

// Capabilities is the result of the one-time format negotiation. It is
// immutable for the lifetime of the context.
type Capabilities struct {
	FormatRGBA TextureFormat // dye
	FormatRG   TextureFormat // velocity
	FormatR    TextureFormat // divergence, curl, pressure

	TexType uint32 // HALF_FLOAT or UNSIGNED_BYTE
	Tier    Tier

	// SupportsLinearFiltering reports hardware bilinear sampling of the
	// negotiated formats. When false the advection kernel falls back to a
	// manual 4-tap bilinear interpolation.
	SupportsLinearFiltering bool
}

// DetectCapabilities probes the context for renderable texture formats,
// degrading channel width and precision until a combination round-trips
// through a framebuffer completeness check.
func DetectCapabilities() Capabilities {
	caps := Capabilities{
		TexType:                 gl.HALF_FLOAT,
		Tier:                    TierHalfFloat,
		SupportsLinearFiltering: linearFloatFiltering(),
	}

	var ok bool
	caps.FormatRGBA, ok = supportedFormat(gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT)
	if ok {
		caps.FormatRG, _ = supportedFormat(gl.RG16F, gl.RG, gl.HALF_FLOAT)
		caps.FormatR, _ = supportedFormat(gl.R16F, gl.RED, gl.HALF_FLOAT)
		return caps
	}

	// Last resort: fixed-point 8-bit targets for every field.
	byteFormat := TextureFormat{Internal: gl.RGBA8, Format: gl.RGBA}
	return Capabilities{
		FormatRGBA:              byteFormat,
		FormatRG:                byteFormat,
		FormatR:                 byteFormat,
		TexType:                 gl.UNSIGNED_BYTE,
		Tier:                    TierByte,
		SupportsLinearFiltering: true,
	}
}

// supportedFormat widens the channel count until a format is renderable.
func supportedFormat(internal int32, format uint32, texType uint32) (TextureFormat, bool) {
	if !renderable(internal, format, texType) {
		switch internal {
		case gl.R16F:
			return supportedFormat(gl.RG16F, gl.RG, texType)
		case gl.RG16F:
			return supportedFormat(gl.RGBA16F, gl.RGBA, texType)
		default:
			return TextureFormat{}, false
		}
	}
	return TextureFormat{Internal: internal, Format: format}, true
}

// renderable allocates a throwaway 4x4 texture, attaches it to a
// framebuffer and checks completeness.
func renderable(internal int32, format uint32, texType uint32) bool {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, 4, 4, 0, format, texType, nil)

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.DeleteFramebuffers(1, &fbo)
	gl.DeleteTextures(1, &tex)

	return status == gl.FRAMEBUFFER_COMPLETE
}

// linearFloatFiltering reports whether the context filters float textures
// in hardware. Core profiles from 3.0 on do.
func linearFloatFiltering() bool {
	version := gl.GoStr(gl.GetString(gl.VERSION))
	var major, minor int
	if _, err := fmt.Sscanf(version, "%d.%d", &major, &minor); err != nil {
		return false
	}
	return major >= 3
}
