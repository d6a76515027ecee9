package shader

import (
	_ "embed"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// FlatVertexShader transforms unit-quad vertices by model and view-projection.
//
//go:embed glsl/flat.vert
var FlatVertexShader string

// FlatFragmentShader fills with a single uniform color.
//
//go:embed glsl/flat.frag
var FlatFragmentShader string

// VertexPositionLocation is the attribute slot of the quad vertex position.
const VertexPositionLocation = 0

const (
	uniformColor    = "uPixelColor"
	uniformViewProj = "uViewProjTransform"
	uniformModel    = "uModelTransform"
)

// Flat draws geometry in one solid color. One instance is shared by every
// renderable using it.
type Flat struct {
	program *Program
}

// NewFlat compiles the flat-color program. Requires a current GL context.
func NewFlat() (*Flat, error) {
	p, err := NewProgram(FlatVertexShader, FlatFragmentShader, uniformColor, uniformViewProj, uniformModel)
	if err != nil {
		return nil, fmt.Errorf("flat shader: %w", err)
	}
	return &Flat{program: p}, nil
}

// Program returns the underlying program.
func (f *Flat) Program() *Program { return f.program }

// Activate binds the program and uploads color and view-projection.
func (f *Flat) Activate(color mgl32.Vec4, viewProj mgl32.Mat4) {
	f.program.Use()
	f.program.SetVec4(uniformColor, color)
	f.program.SetMat4(uniformViewProj, viewProj)
}

// LoadObjectTransform uploads the model matrix.
func (f *Flat) LoadObjectTransform(model mgl32.Mat4) {
	f.program.SetMat4(uniformModel, model)
}

// Close deletes the program.
func (f *Flat) Close() {
	f.program.Delete()
}
