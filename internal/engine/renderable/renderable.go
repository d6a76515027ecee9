// Package renderable draws a colored unit quad with a transform.
package renderable

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadloop/internal/engine/transform"
)

// Shader is the program a renderable draws with. It is shared between
// renderables and must outlive them.
type Shader interface {
	// Activate binds the program and uploads the color and view-projection.
	Activate(color mgl32.Vec4, viewProj mgl32.Mat4)
	// LoadObjectTransform uploads the model matrix.
	LoadObjectTransform(model mgl32.Mat4)
}

// QuadDrawer issues the draw call for the shared unit quad.
type QuadDrawer interface {
	DrawUnitQuad()
}

// Renderable is a unit quad placed by its own Transform.
type Renderable struct {
	Transform transform.Transform
	Color     mgl32.Vec4
	Created   time.Time

	shader Shader
	quad   QuadDrawer
}

// New creates a white renderable drawing through shader and quad.
func New(shader Shader, quad QuadDrawer) *Renderable {
	return &Renderable{
		Transform: transform.New(),
		Color:     mgl32.Vec4{1, 1, 1, 1},
		Created:   time.Now(),
		shader:    shader,
		quad:      quad,
	}
}

// SetColor sets the RGBA draw color.
func (r *Renderable) SetColor(red, green, blue, alpha float32) {
	r.Color = mgl32.Vec4{red, green, blue, alpha}
}

// Shader returns the shader the renderable draws with.
func (r *Renderable) Shader() Shader { return r.shader }

// Draw renders the quad with the given view-projection matrix.
func (r *Renderable) Draw(viewProj mgl32.Mat4) {
	r.shader.Activate(r.Color, viewProj)
	r.shader.LoadObjectTransform(r.Transform.Model())
	r.quad.DrawUnitQuad()
}
