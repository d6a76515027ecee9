// Package game implements the engine instance: it owns the window, the
// drawing surface, keyboard state, the resource cache and the fixed-step
// loop, and hands them to a user Scene.
package game

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/quadloop/internal/config"
	"github.com/Faultbox/quadloop/internal/engine/audio"
	"github.com/Faultbox/quadloop/internal/engine/camera"
	"github.com/Faultbox/quadloop/internal/engine/debug"
	"github.com/Faultbox/quadloop/internal/engine/gfx"
	"github.com/Faultbox/quadloop/internal/engine/input"
	"github.com/Faultbox/quadloop/internal/engine/loop"
	"github.com/Faultbox/quadloop/internal/engine/renderable"
	"github.com/Faultbox/quadloop/internal/engine/resource"
	"github.com/Faultbox/quadloop/internal/engine/shader"
	"github.com/Faultbox/quadloop/internal/engine/window"
	"github.com/Faultbox/quadloop/internal/logger"
)

// Scene is the user code driven by the loop.
type Scene interface {
	// Update advances the scene by one fixed step.
	Update(g *Game, dt time.Duration)
	// Draw renders once per frame. ticks is the number of updates run this
	// frame and lag the accumulated lag before they ran.
	Draw(g *Game, ticks int, lag time.Duration)
}

// Game is the engine instance.
type Game struct {
	config *config.Config
	log    *zap.Logger

	window    *window.Window
	surface   *gfx.Surface
	flat      *shader.Flat
	keys      *input.Keyboard
	resources *resource.Cache
	audio     *audio.Player
	loop      *loop.Loop
	scene     Scene

	screenshots      *debug.ScreenshotCapture
	screenshotQueued bool

	// FPS counter
	frameCount int
	fpsTimer   time.Time
}

// New creates the window, GL surface, shader, keyboard, resource cache and
// loop described by cfg.
func New(cfg *config.Config, log *zap.Logger) (*Game, error) {
	log = logger.OrNop(log)
	log.Info("initializing game",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("tick_rate", cfg.Loop.TickRate),
	)

	fetcher, err := resource.NewFetcher(cfg.Assets.Root, cfg.Assets.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	g := &Game{
		config:      cfg,
		log:         log,
		keys:        input.NewKeyboard(),
		screenshots: debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "quadloop"),
		resources: resource.NewCache(resource.Options{
			Fetcher:          fetcher,
			CoalesceInFlight: cfg.Assets.CoalesceInFlight,
			Logger:           log,
		}),
	}

	g.audio = audio.New(log)
	if cfg.Audio.Enabled {
		// A missing audio device is not fatal; sounds are skipped.
		if err := g.audio.Init(); err != nil {
			log.Warn("audio disabled", zap.Error(err))
		}
		g.audio.SetMasterVolume(cfg.Audio.Volume)
	}

	g.loop = loop.New(g.update, g.draw, loop.Options{
		Step:       cfg.FixedStep(),
		MaxCatchUp: cfg.Loop.MaxCatchUp,
		Snapshot:   g.keys.Snapshot,
		Logger:     log,
	})

	// Window first, since the OpenGL context must exist before GL calls
	g.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	g.surface, err = gfx.New(mgl32.Vec3(cfg.Window.Background), log)
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create surface: %w", err)
	}

	g.flat, err = shader.NewFlat()
	if err != nil {
		g.surface.Close()
		g.window.Close()
		return nil, fmt.Errorf("failed to create shader: %w", err)
	}

	log.Info("game initialized successfully")
	return g, nil
}

// Run starts the loop and blocks until Quit is called, the window closes or
// ctx is cancelled.
func (g *Game) Run(ctx context.Context, scene Scene) error {
	g.scene = scene
	g.fpsTimer = time.Now()

	g.log.Info("starting game loop", zap.Duration("step", g.loop.Step()))
	err := g.loop.Run(ctx, frameHost{g})
	if errors.Is(err, context.Canceled) {
		g.log.Info("game loop interrupted")
		return nil
	}
	if err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	return nil
}

// Quit stops the loop after the current frame.
func (g *Game) Quit() {
	g.loop.Quit()
}

// Close releases engine resources.
func (g *Game) Close() {
	g.log.Info("closing game")

	g.resources.Close()
	g.audio.Close()
	if g.flat != nil {
		g.flat.Close()
	}
	if g.surface != nil {
		g.surface.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

// IsKeyDown reports whether k is held.
func (g *Game) IsKeyDown(k input.Key) bool { return g.keys.IsKeyDown(k) }

// IsKeyPressed reports whether k went down since the previous fixed update.
func (g *Game) IsKeyPressed(k input.Key) bool { return g.keys.IsKeyPressed(k) }

// IsKeyReleased reports whether k went up since the previous fixed update.
func (g *Game) IsKeyReleased(k input.Key) bool { return g.keys.IsKeyReleased(k) }

// Resources returns the resource cache.
func (g *Game) Resources() *resource.Cache { return g.resources }

// SetAllLoadedCallback runs fn once no resource loads are outstanding.
func (g *Game) SetAllLoadedCallback(fn func()) { g.resources.SetAllLoadedCallback(fn) }

// Surface returns the drawing surface cameras clear into.
func (g *Game) Surface() *gfx.Surface { return g.surface }

// RequestScreenshot captures the current frame after it has been drawn.
func (g *Game) RequestScreenshot() {
	g.screenshotQueued = true
}

// DrawableSize returns the window's drawable size in pixels.
func (g *Game) DrawableSize() (int, int) { return g.window.DrawableSize() }

// Stats returns loop counters.
func (g *Game) Stats() loop.Stats { return g.loop.Stats() }

// NewCamera creates a camera using the configured width, depth range and
// background, covering the given viewport.
func (g *Game) NewCamera(center mgl32.Vec2, viewport camera.Viewport) *camera.Camera {
	c := camera.New(center, g.config.Camera.Width, viewport)
	c.Near = g.config.Camera.Near
	c.Far = g.config.Camera.Far
	c.Background = mgl32.Vec4(g.config.Camera.Background)
	c.UpdateViewProjection()
	return c
}

// NewRenderable creates a white unit quad drawn with the shared flat shader.
func (g *Game) NewRenderable() *renderable.Renderable {
	return renderable.New(g.flat, g.surface)
}

// Preload fetches every configured preload resource, picking the decoder
// from the file extension.
func (g *Game) Preload() {
	for _, name := range g.config.Assets.Preload {
		g.resources.Fetch(name, decoderFor(name), nil)
	}
}

func decoderFor(name string) resource.Decoder {
	if strings.EqualFold(path.Ext(name), ".wav") {
		return audio.WAV
	}
	return resource.DecoderFor(name)
}

// PlaySound plays a loaded WAV resource. Unloaded names are ignored.
func (g *Game) PlaySound(name string) {
	v, ok := g.resources.Get(name)
	if !ok {
		g.log.Debug("sound not loaded", zap.String("name", name))
		return
	}
	snd, ok := v.(*audio.Sound)
	if !ok {
		g.log.Warn("resource is not a sound", zap.String("name", name))
		return
	}
	if err := g.audio.Play(snd); err != nil && !errors.Is(err, audio.ErrNotInitialized) {
		g.log.Warn("failed to play sound", zap.String("name", name), zap.Error(err))
	}
}

func (g *Game) update(dt time.Duration) {
	if g.scene != nil {
		g.scene.Update(g, dt)
	}
}

func (g *Game) draw(ticks int, lag time.Duration) {
	if g.scene != nil {
		g.scene.Draw(g, ticks, lag)
	}
}

func (g *Game) handleEvent(e window.Event) {
	switch e.Type {
	case window.EventKeyDown:
		g.keys.SetKeyDown(e.Key)
	case window.EventKeyUp:
		g.keys.SetKeyUp(e.Key)
	case window.EventFocusLost:
		// Key-up events are not delivered while unfocused.
		g.keys.Reset()
	case window.EventResize:
		w, h := g.window.DrawableSize()
		g.surface.Resize(w, h)
	}
}

// frameHost adapts the window to the loop: events and resource completions
// are processed before each frame and the buffers swapped after it.
type frameHost struct {
	g *Game
}

func (h frameHost) BeginFrame() bool {
	open := h.g.window.PollEvents(h.g.handleEvent)
	h.g.resources.Pump()
	return open
}

func (h frameHost) EndFrame() {
	g := h.g
	if g.screenshotQueued {
		g.screenshotQueued = false
		g.captureScreenshot()
	}
	g.window.SwapBuffers()

	g.frameCount++
	if time.Since(g.fpsTimer) >= time.Second {
		g.log.Debug("fps",
			zap.Int("count", g.frameCount),
			zap.Uint64("ticks", g.loop.Stats().Ticks),
			zap.Int("outstanding", g.resources.Outstanding()),
		)
		g.frameCount = 0
		g.fpsTimer = time.Now()
	}
}

func (g *Game) captureScreenshot() {
	w, h := g.window.DrawableSize()
	pixels := g.surface.ReadPixels(0, 0, w, h)
	name, err := g.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		g.log.Error("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("file", name))
}
