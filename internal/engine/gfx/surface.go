// Package gfx owns the OpenGL drawing state shared by all cameras and
// renderables: the unit-quad buffer, viewport clears and the quad draw call.
package gfx

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/quadloop/internal/engine/camera"
	"github.com/Faultbox/quadloop/internal/engine/shader"
	"github.com/Faultbox/quadloop/internal/logger"
)

// unitQuad is a 1x1 square centered on the origin, ordered for a
// triangle strip.
var unitQuad = []float32{
	0.5, 0.5, 0.0,
	-0.5, 0.5, 0.0,
	0.5, -0.5, 0.0,
	-0.5, -0.5, 0.0,
}

// Surface wraps the current GL context.
type Surface struct {
	log *zap.Logger

	quadVAO uint32
	quadVBO uint32
}

// New initializes OpenGL, clears the surface to background and uploads the
// unit quad.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(background mgl32.Vec3, log *zap.Logger) (*Surface, error) {
	s := &Surface{log: logger.OrNop(log).Named("gfx")}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	s.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(background[0], background[1], background[2], 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	s.createUnitQuad()
	return s, nil
}

// Close releases the quad buffers.
func (s *Surface) Close() {
	s.log.Info("closing surface")
	if s.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &s.quadVAO)
	}
	if s.quadVBO != 0 {
		gl.DeleteBuffers(1, &s.quadVBO)
	}
}

// Clear clears the whole surface to color.
func (s *Surface) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// ClearViewport sets the viewport to v and clears only that rectangle, so
// cameras sharing the surface do not overwrite each other.
func (s *Surface) ClearViewport(v camera.Viewport, color mgl32.Vec4) {
	gl.Viewport(v.X, v.Y, v.Width, v.Height)
	gl.Scissor(v.X, v.Y, v.Width, v.Height)
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Enable(gl.SCISSOR_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Disable(gl.SCISSOR_TEST)
}

// DrawUnitQuad draws the shared quad as a 4-vertex triangle strip with the
// currently bound program.
func (s *Surface) DrawUnitQuad() {
	gl.BindVertexArray(s.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

// ReadPixels reads the RGBA contents of the back buffer rectangle, rows
// bottom-up.
func (s *Surface) ReadPixels(x, y, width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Resize sets the viewport to the full drawable size.
func (s *Surface) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	s.log.Debug("surface resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

func (s *Surface) createUnitQuad() {
	gl.GenVertexArrays(1, &s.quadVAO)
	gl.BindVertexArray(s.quadVAO)

	gl.GenBuffers(1, &s.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(unitQuad)*4, unsafe.Pointer(&unitQuad[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(shader.VertexPositionLocation, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(shader.VertexPositionLocation)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	s.log.Debug("unit quad created",
		zap.Uint32("vao", s.quadVAO),
		zap.Uint32("vbo", s.quadVBO),
	)
}
