package renderable

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type recordingShader struct {
	calls    []string
	color    mgl32.Vec4
	viewProj mgl32.Mat4
	model    mgl32.Mat4
}

func (s *recordingShader) Activate(color mgl32.Vec4, viewProj mgl32.Mat4) {
	s.calls = append(s.calls, "activate")
	s.color = color
	s.viewProj = viewProj
}

func (s *recordingShader) LoadObjectTransform(model mgl32.Mat4) {
	s.calls = append(s.calls, "model")
	s.model = model
}

type recordingQuad struct {
	shader *recordingShader
	draws  int
}

func (q *recordingQuad) DrawUnitQuad() {
	q.shader.calls = append(q.shader.calls, "draw")
	q.draws++
}

func TestDrawSequence(t *testing.T) {
	sh := &recordingShader{}
	quad := &recordingQuad{shader: sh}
	r := New(sh, quad)

	r.SetColor(1, 0, 0, 1)
	r.Transform.SetPosition(3, 4)
	r.Transform.SetRotation(math.Pi)
	vp := mgl32.Ortho(-1, 1, -1, 1, 0, 10)

	r.Draw(vp)

	want := []string{"activate", "model", "draw"}
	if len(sh.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, sh.calls)
	}
	for i := range want {
		if sh.calls[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, sh.calls)
		}
	}

	if sh.color != (mgl32.Vec4{1, 0, 0, 1}) {
		t.Errorf("unexpected color %v", sh.color)
	}
	if sh.viewProj != vp {
		t.Error("view-projection should be passed through unchanged")
	}
	if !sh.model.ApproxEqual(r.Transform.Model()) {
		t.Error("model matrix should come from the transform")
	}
	if quad.draws != 1 {
		t.Errorf("expected a single draw call, got %d", quad.draws)
	}
}

func TestDefaults(t *testing.T) {
	sh := &recordingShader{}
	r := New(sh, &recordingQuad{shader: sh})

	if r.Color != (mgl32.Vec4{1, 1, 1, 1}) {
		t.Errorf("expected white, got %v", r.Color)
	}
	if r.Transform.Width() != 1 || r.Transform.Height() != 1 {
		t.Error("expected unit scale")
	}
	if r.Created.IsZero() {
		t.Error("creation time should be set")
	}
	if r.Shader() != sh {
		t.Error("Shader should return the shared shader")
	}
}

func TestRenderablesShareShaderButNotTransform(t *testing.T) {
	sh := &recordingShader{}
	quad := &recordingQuad{shader: sh}
	a := New(sh, quad)
	b := New(sh, quad)

	a.Transform.SetX(5)
	if b.Transform.X() != 0 {
		t.Error("transforms must not be shared between renderables")
	}

	a.Draw(mgl32.Ident4())
	b.Draw(mgl32.Ident4())
	if quad.draws != 2 {
		t.Errorf("expected 2 draws through the shared quad, got %d", quad.draws)
	}
}
