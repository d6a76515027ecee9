// Package shader compiles GLSL programs and provides the flat-color quad
// program.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked GL program with its uniform locations resolved once
// at link time.
type Program struct {
	id       uint32
	uniforms map[string]int32
}

// NewProgram compiles and links vertexSrc and fragmentSrc and looks up every
// named uniform. A uniform the linker dropped is an error.
func NewProgram(vertexSrc, fragmentSrc string, uniforms ...string) (*Program, error) {
	vert, err := compileStage(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex stage: %w", err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compileStage(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment stage: %w", err)
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		buf := make([]byte, logLen+1)
		gl.GetProgramInfoLog(id, logLen, nil, &buf[0])
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link: %s", infoLog(buf))
	}

	p := &Program{id: id, uniforms: make(map[string]int32, len(uniforms))}
	for _, name := range uniforms {
		loc := gl.GetUniformLocation(id, gl.Str(name+"\x00"))
		if loc < 0 {
			gl.DeleteProgram(id)
			return nil, fmt.Errorf("uniform %q not found in program", name)
		}
		p.uniforms[name] = loc
	}
	return p, nil
}

func compileStage(source string, stage uint32) (uint32, error) {
	sh := gl.CreateShader(stage)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		buf := make([]byte, logLen+1)
		gl.GetShaderInfoLog(sh, logLen, nil, &buf[0])
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("compile: %s", infoLog(buf))
	}
	return sh, nil
}

// infoLog trims the NUL terminator and trailing newlines GL drivers append.
func infoLog(buf []byte) string {
	return strings.TrimRight(string(buf), "\x00\r\n ")
}

// ID returns the GL program name.
func (p *Program) ID() uint32 { return p.id }

// Use binds the program.
func (p *Program) Use() { gl.UseProgram(p.id) }

// SetVec4 uploads a vec4 uniform. The program must be bound.
func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	gl.Uniform4fv(p.uniforms[name], 1, &v[0])
}

// SetMat4 uploads a mat4 uniform. The program must be bound.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.uniforms[name], 1, false, &m[0])
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
