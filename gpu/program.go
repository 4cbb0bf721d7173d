package gpu

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform identifies a semantic kernel parameter. Locations for every
// uniform a program declares are resolved once at link time; all later
// writes go through the cached table.
type Uniform int

const (
	UTexelSize Uniform = iota
	UDyeTexelSize
	UVelocity
	USource
	UTarget
	UTexture
	UCurlField
	UDivergence
	UPressure
	UDt
	UDissipation
	UCurlStrength
	UPoint
	URadius
	UColor
	UValue
	UAspectRatio
	UShadingStrength

	uniformCount
)

// uniformNames maps GLSL identifiers to their semantic uniform.
var uniformNames = map[string]Uniform{
	"texelSize":       UTexelSize,
	"dyeTexelSize":    UDyeTexelSize,
	"uVelocity":       UVelocity,
	"uSource":         USource,
	"uTarget":         UTarget,
	"uTexture":        UTexture,
	"uCurl":           UCurlField,
	"uDivergence":     UDivergence,
	"uPressure":       UPressure,
	"dt":              UDt,
	"dissipation":     UDissipation,
	"curl":            UCurlStrength,
	"point":           UPoint,
	"radius":          URadius,
	"color":           UColor,
	"value":           UValue,
	"aspectRatio":     UAspectRatio,
	"shadingStrength": UShadingStrength,
}

// Program is a linked kernel plus the uniform location table resolved at
// link time.
type Program struct {
	ID   uint32
	locs [uniformCount]int32
}

// CompileShader compiles one stage. Defines are injected right after the
// #version directive; they are resolved once at startup from the
// capability descriptor, never re-negotiated per frame.
func CompileShader(kind uint32, source string, defines []string) (uint32, error) {
	src := injectDefines(source, defines)

	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(infoLog))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compiling shader: %s", strings.TrimRight(infoLog, "\x00"))
	}
	return shader, nil
}

// injectDefines splices #define lines in after the #version directive.
func injectDefines(source string, defines []string) string {
	if len(defines) == 0 {
		return source
	}
	var sb strings.Builder
	for _, d := range defines {
		sb.WriteString("#define ")
		sb.WriteString(d)
		sb.WriteByte('\n')
	}
	idx := strings.Index(source, "\n")
	if idx < 0 || !strings.HasPrefix(strings.TrimSpace(source), "#version") {
		return sb.String() + source
	}
	return source[:idx+1] + sb.String() + source[idx+1:]
}

// NewProgram links a vertex and fragment stage and resolves the uniform
// table. Link failure is fatal at construction time.
func NewProgram(vs, fs uint32) (*Program, error) {
	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(id, logLength, nil, gl.Str(infoLog))
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("linking program: %s", strings.TrimRight(infoLog, "\x00"))
	}

	p := &Program{ID: id}
	for i := range p.locs {
		p.locs[i] = -1
	}

	// Enumerate active uniforms once; unresolved semantics stay at -1 and
	// writes to them are ignored by GL.
	var count int32
	gl.GetProgramiv(id, gl.ACTIVE_UNIFORMS, &count)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		var buf [128]byte
		gl.GetActiveUniform(id, uint32(i), int32(len(buf)-1), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		u, ok := uniformNames[name]
		if !ok {
			continue
		}
		p.locs[u] = gl.GetUniformLocation(id, gl.Str(name+"\x00"))
	}

	return p, nil
}

// Bind makes the program current.
func (p *Program) Bind() { gl.UseProgram(p.ID) }

// SetFloat writes a scalar uniform.
func (p *Program) SetFloat(u Uniform, v float32) { gl.Uniform1f(p.locs[u], v) }

// SetVec2 writes a two-component uniform.
func (p *Program) SetVec2(u Uniform, x, y float32) { gl.Uniform2f(p.locs[u], x, y) }

// SetVec3 writes a three-component uniform.
func (p *Program) SetVec3(u Uniform, v mgl32.Vec3) {
	gl.Uniform3f(p.locs[u], v.X(), v.Y(), v.Z())
}

// SetVec4 writes a four-component uniform.
func (p *Program) SetVec4(u Uniform, v mgl32.Vec4) {
	gl.Uniform4f(p.locs[u], v.X(), v.Y(), v.Z(), v.W())
}

// SetSampler points a sampler uniform at a texture unit.
func (p *Program) SetSampler(u Uniform, unit int32) { gl.Uniform1i(p.locs[u], unit) }

// Release deletes the program object.
func (p *Program) Release() { gl.DeleteProgram(p.ID) }
