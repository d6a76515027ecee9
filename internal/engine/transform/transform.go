// Package transform holds 2D position, scale and rotation state.
package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const twoPi = 2 * math.Pi

// Transform places a unit quad in the world. Rotation is kept in [0, 2π).
type Transform struct {
	Position mgl32.Vec2
	Scale    mgl32.Vec2
	rotation float32
}

// New returns a transform at the origin with unit scale and no rotation.
func New() Transform {
	return Transform{Scale: mgl32.Vec2{1, 1}}
}

// X returns the horizontal position.
func (t *Transform) X() float32 { return t.Position[0] }

// SetX sets the horizontal position.
func (t *Transform) SetX(x float32) { t.Position[0] = x }

// Y returns the vertical position.
func (t *Transform) Y() float32 { return t.Position[1] }

// SetY sets the vertical position.
func (t *Transform) SetY(y float32) { t.Position[1] = y }

// SetPosition sets both coordinates.
func (t *Transform) SetPosition(x, y float32) { t.Position = mgl32.Vec2{x, y} }

// Translate moves the transform by (dx, dy).
func (t *Transform) Translate(dx, dy float32) {
	t.Position = t.Position.Add(mgl32.Vec2{dx, dy})
}

// Width returns the horizontal scale.
func (t *Transform) Width() float32 { return t.Scale[0] }

// SetWidth sets the horizontal scale.
func (t *Transform) SetWidth(w float32) { t.Scale[0] = w }

// Height returns the vertical scale.
func (t *Transform) Height() float32 { return t.Scale[1] }

// SetHeight sets the vertical scale.
func (t *Transform) SetHeight(h float32) { t.Scale[1] = h }

// SetSize sets both scale components.
func (t *Transform) SetSize(w, h float32) { t.Scale = mgl32.Vec2{w, h} }

// Rotation returns the rotation in radians, in [0, 2π).
func (t *Transform) Rotation() float32 { return t.rotation }

// SetRotation sets the rotation in radians, wrapping it into [0, 2π).
func (t *Transform) SetRotation(rad float32) {
	t.rotation = normalize(rad)
}

// Rotate adds rad to the current rotation.
func (t *Transform) Rotate(rad float32) {
	t.SetRotation(t.rotation + rad)
}

// RotationDegrees returns the rotation in degrees, in [0, 360).
func (t *Transform) RotationDegrees() float32 {
	return mgl32.RadToDeg(t.rotation)
}

// SetRotationDegrees sets the rotation in degrees.
func (t *Transform) SetRotationDegrees(deg float32) {
	t.SetRotation(mgl32.DegToRad(deg))
}

// Model returns translate(position) · rotateZ(rotation) · scale(size), so
// scale applies in local space before rotation and translation.
func (t *Transform) Model() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], 0).
		Mul4(mgl32.HomogRotate3DZ(t.rotation)).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], 1))
}

func normalize(rad float32) float32 {
	r := float64(rad)
	r -= twoPi * math.Floor(r/twoPi)
	// float32 rounding can land exactly on 2π for tiny negative inputs.
	if out := float32(r); out < float32(twoPi) {
		return out
	}
	return 0
}
