// Package camera provides the orthographic 2D camera.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// eyeHeight is how far above the z=0 plane the camera looks down from.
const eyeHeight = 10

// Viewport is a pixel rectangle of the drawing surface, origin bottom-left.
type Viewport struct {
	X, Y          int32
	Width, Height int32
}

// Aspect returns height / width, or 1 for an empty viewport.
func (v Viewport) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float32(v.Height) / float32(v.Width)
}

// Surface is the part of the drawing context a camera needs.
type Surface interface {
	// ClearViewport sets the viewport to v and clears only that region.
	ClearViewport(v Viewport, color mgl32.Vec4)
}

// Camera maps a world-space rectangle centered on Center and Width units
// wide onto Viewport. The visible height follows the viewport's aspect.
type Camera struct {
	Center     mgl32.Vec2
	Width      float32
	Viewport   Viewport
	Near, Far  float32
	Background mgl32.Vec4

	view mgl32.Mat4
	proj mgl32.Mat4
	vp   mgl32.Mat4
}

// New creates a camera with near 0, far 1000 and a light gray background.
func New(center mgl32.Vec2, width float32, viewport Viewport) *Camera {
	c := &Camera{
		Center:     center,
		Width:      width,
		Viewport:   viewport,
		Near:       0,
		Far:        1000,
		Background: mgl32.Vec4{0.8, 0.8, 0.8, 1.0},
	}
	c.UpdateViewProjection()
	return c
}

// Height returns the visible world height.
func (c *Camera) Height() float32 {
	return c.Width * c.Viewport.Aspect()
}

// Setup clears the camera's viewport to its background color, leaving the
// rest of the surface untouched, and recomputes the view-projection.
func (c *Camera) Setup(s Surface) {
	s.ClearViewport(c.Viewport, c.Background)
	c.UpdateViewProjection()
}

// UpdateViewProjection recomputes the view, projection and combined
// matrices from the current fields.
func (c *Camera) UpdateViewProjection() {
	c.view = mgl32.LookAtV(
		mgl32.Vec3{c.Center[0], c.Center[1], eyeHeight},
		mgl32.Vec3{c.Center[0], c.Center[1], 0},
		mgl32.Vec3{0, 1, 0},
	)

	halfW := c.Width * 0.5
	halfH := halfW * c.Viewport.Aspect()
	c.proj = mgl32.Ortho(-halfW, halfW, -halfH, halfH, c.Near, c.Far)

	c.vp = c.proj.Mul4(c.view)
}

// View returns the view matrix from the last update.
func (c *Camera) View() mgl32.Mat4 { return c.view }

// Projection returns the projection matrix from the last update.
func (c *Camera) Projection() mgl32.Mat4 { return c.proj }

// ViewProjection returns projection × view from the last update.
func (c *Camera) ViewProjection() mgl32.Mat4 { return c.vp }

// WorldToViewport converts a world point to surface pixels.
func (c *Camera) WorldToViewport(p mgl32.Vec2) (px, py float32) {
	halfW := c.Width * 0.5
	halfH := c.Height() * 0.5
	u := (p[0] - (c.Center[0] - halfW)) / c.Width
	v := (p[1] - (c.Center[1] - halfH)) / (2 * halfH)
	return float32(c.Viewport.X) + u*float32(c.Viewport.Width),
		float32(c.Viewport.Y) + v*float32(c.Viewport.Height)
}

// ViewportToWorld converts surface pixels to a world point.
func (c *Camera) ViewportToWorld(px, py float32) mgl32.Vec2 {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return c.Center
	}
	u := (px - float32(c.Viewport.X)) / float32(c.Viewport.Width)
	v := (py - float32(c.Viewport.Y)) / float32(c.Viewport.Height)
	return mgl32.Vec2{
		c.Center[0] - c.Width*0.5 + u*c.Width,
		c.Center[1] - c.Height()*0.5 + v*c.Height(),
	}
}

// Contains reports whether surface pixel (px, py) lies inside the viewport.
func (c *Camera) Contains(px, py float32) bool {
	v := c.Viewport
	return px >= float32(v.X) && px < float32(v.X+v.Width) &&
		py >= float32(v.Y) && py < float32(v.Y+v.Height)
}
