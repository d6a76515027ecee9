package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/quadloop/internal/engine/camera"
	"github.com/Faultbox/quadloop/internal/engine/input"
	"github.com/Faultbox/quadloop/internal/engine/renderable"
	"github.com/Faultbox/quadloop/internal/game"
)

const (
	sceneFile = "scene.xml"
	clickFile = "click.wav"

	heroSpeed = 30.0 // world units per second
	spinSpeed = math.Pi
)

var heroColors = map[input.Key]mgl32.Vec4{
	input.Key1: {1, 0, 0, 1},
	input.Key2: {0, 1, 0, 1},
	input.Key3: {0, 0, 1, 1},
	input.Key4: {1, 1, 0, 1},
}

// demoScene shows an overview camera on the left and a zoomed camera
// following the hero on the right.
type demoScene struct {
	log *zap.Logger

	overview *camera.Camera
	follow   *camera.Camera
	width    int
	height   int

	quads   map[string]*renderable.Renderable
	order   []string
	spin    bool
	elapsed time.Duration
}

func newDemoScene(g *game.Game, log *zap.Logger) *demoScene {
	s := &demoScene{
		log:   log.Named("scene"),
		quads: make(map[string]*renderable.Renderable),
	}

	floor := s.add(g, "floor")
	floor.Transform.SetPosition(50, 10)
	floor.Transform.SetSize(90, 4)
	floor.SetColor(0.3, 0.3, 0.3, 1)

	spinner := s.add(g, "spinner")
	spinner.Transform.SetPosition(70, 40)
	spinner.Transform.SetSize(8, 8)
	spinner.SetColor(0, 0, 1, 1)

	hero := s.add(g, "hero")
	hero.Transform.SetPosition(30, 30)
	hero.Transform.SetSize(5, 5)
	hero.SetColor(1, 0, 0, 1)

	w, h := g.DrawableSize()
	s.overview = g.NewCamera(mgl32.Vec2{50, 37.5}, camera.Viewport{})
	s.follow = g.NewCamera(hero.Transform.Position, camera.Viewport{})
	s.follow.Width = 30
	s.layout(w, h)

	return s
}

func (s *demoScene) add(g *game.Game, name string) *renderable.Renderable {
	r := g.NewRenderable()
	s.quads[name] = r
	s.order = append(s.order, name)
	return r
}

// layout splits the drawable area between the two cameras.
func (s *demoScene) layout(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height

	half := int32(width / 2)
	s.overview.Viewport = camera.Viewport{X: 0, Y: 0, Width: half, Height: int32(height)}
	s.follow.Viewport = camera.Viewport{X: half, Y: 0, Width: int32(width) - half, Height: int32(height)}
	s.log.Debug("camera layout", zap.Int("width", width), zap.Int("height", height))
}

// onAssetsLoaded runs once every preloaded asset has arrived.
func (s *demoScene) onAssetsLoaded() {
	s.log.Info("all assets loaded")
}

func (s *demoScene) applySceneFile(g *game.Game) {
	doc, ok := g.Resources().XML(sceneFile)
	if !ok {
		return
	}
	for _, node := range doc.ChildrenNamed("quad") {
		name, _ := node.Attr("name")
		r, ok := s.quads[name]
		if !ok {
			continue
		}
		if v, ok := node.Attr("color"); ok {
			c, err := parseColor(v)
			if err != nil {
				s.log.Warn("bad quad color", zap.String("quad", name), zap.Error(err))
				continue
			}
			r.Color = c
		}
	}
	g.Resources().Remove(sceneFile)
	s.log.Info("scene file applied", zap.String("file", sceneFile))
}

// parseColor reads "r g b" or "r g b a" with components in [0, 1].
func parseColor(v string) (mgl32.Vec4, error) {
	c := mgl32.Vec4{0, 0, 0, 1}
	fields := strings.Fields(v)
	if len(fields) != 3 && len(fields) != 4 {
		return c, fmt.Errorf("color %q: want 3 or 4 components", v)
	}
	for i, f := range fields {
		if _, err := fmt.Sscan(f, &c[i]); err != nil {
			return c, fmt.Errorf("color %q: %w", v, err)
		}
	}
	return c, nil
}

func (s *demoScene) Update(g *game.Game, dt time.Duration) {
	s.elapsed += dt
	sec := float32(dt.Seconds())

	if g.IsKeyPressed(input.KeyQ) || g.IsKeyPressed(input.KeyEscape) {
		g.Quit()
		return
	}

	s.applySceneFile(g)

	hero := s.quads["hero"]
	if g.IsKeyDown(input.KeyLeft) {
		hero.Transform.Translate(-heroSpeed*sec, 0)
	}
	if g.IsKeyDown(input.KeyRight) {
		hero.Transform.Translate(heroSpeed*sec, 0)
	}
	if g.IsKeyDown(input.KeyUp) {
		hero.Transform.Translate(0, heroSpeed*sec)
	}
	if g.IsKeyDown(input.KeyDown) {
		hero.Transform.Translate(0, -heroSpeed*sec)
	}
	for k, c := range heroColors {
		if g.IsKeyPressed(k) {
			hero.Color = c
		}
	}

	if g.IsKeyPressed(input.KeySpace) {
		s.spin = !s.spin
		g.PlaySound(clickFile)
		s.log.Debug("spin toggled", zap.Bool("spin", s.spin))
	}
	if g.IsKeyReleased(input.KeySpace) {
		s.log.Debug("space released", zap.Duration("at", s.elapsed))
	}
	if s.spin {
		s.quads["spinner"].Transform.Rotate(spinSpeed * sec)
		hero.Transform.Rotate(-spinSpeed * sec)
	}
	if g.IsKeyPressed(input.KeyF12) {
		g.RequestScreenshot()
	}
	if g.IsKeyPressed(input.KeyR) {
		hero.Transform.SetPosition(30, 30)
		hero.Transform.SetRotation(0)
	}

	s.follow.Center = hero.Transform.Position
}

func (s *demoScene) Draw(g *game.Game, ticks int, lag time.Duration) {
	s.layout(g.DrawableSize())

	for _, cam := range []*camera.Camera{s.overview, s.follow} {
		cam.Setup(g.Surface())
		vp := cam.ViewProjection()
		for _, name := range s.order {
			s.quads[name].Draw(vp)
		}
	}

	if ticks > 1 {
		s.log.Debug("caught up", zap.Int("ticks", ticks), zap.Duration("lag", lag))
	}
}
