// Package loop drives a fixed-timestep update/draw cycle.
//
// Each frame adds the wall time elapsed since the previous frame to a lag
// accumulator, runs as many fixed-size updates as the lag covers, and then
// draws exactly once. Simulation rate is therefore independent of the
// display refresh rate.
package loop

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/quadloop/internal/logger"
)

// DefaultStep is the fixed update duration used when none is configured.
const DefaultStep = time.Second / 60

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// UpdateFunc advances the simulation by one fixed step.
type UpdateFunc func(dt time.Duration)

// DrawFunc renders one frame. ticks is the number of fixed updates run this
// frame (possibly zero); lag is the accumulated lag measured before those
// updates consumed it.
type DrawFunc func(ticks int, lag time.Duration)

// Host supplies frame pacing. BeginFrame runs before each frame and reports
// whether the host is still open; EndFrame presents the frame.
type Host interface {
	BeginFrame() bool
	EndFrame()
}

// Options configures a Loop.
type Options struct {
	Step       time.Duration // fixed update duration; DefaultStep if zero
	MaxCatchUp int           // max updates per frame; 0 = unbounded
	Clock      Clock         // SystemClock if nil
	Snapshot   func()        // called after every fixed update (input edge snapshot)
	Logger     *zap.Logger
}

// Stats holds counters since the last Start.
type Stats struct {
	Frames  uint64
	Ticks   uint64
	Dropped uint64 // whole steps discarded by MaxCatchUp
}

// Loop is a fixed-timestep frame driver.
type Loop struct {
	step       time.Duration
	maxCatchUp int
	clock      Clock
	snapshot   func()
	log        *zap.Logger

	update UpdateFunc
	draw   DrawFunc

	running atomic.Bool
	prev    time.Time
	lag     time.Duration
	stats   Stats
}

// New creates a stopped loop calling update and draw.
func New(update UpdateFunc, draw DrawFunc, opts Options) *Loop {
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if update == nil {
		update = func(time.Duration) {}
	}
	if draw == nil {
		draw = func(int, time.Duration) {}
	}
	return &Loop{
		step:       opts.Step,
		maxCatchUp: opts.MaxCatchUp,
		clock:      opts.Clock,
		snapshot:   opts.Snapshot,
		log:        logger.OrNop(opts.Logger).Named("loop"),
		update:     update,
		draw:       draw,
	}
}

// Step returns the fixed update duration.
func (l *Loop) Step() time.Duration { return l.step }

// Lag returns the lag carried into the next frame. It is always in [0, Step).
func (l *Loop) Lag() time.Duration { return l.lag }

// Running reports whether the loop accepts further frames.
func (l *Loop) Running() bool { return l.running.Load() }

// Stats returns frame and tick counters since Start.
func (l *Loop) Stats() Stats { return l.stats }

// Start marks the loop running and stamps the frame clock. Lag is reset.
func (l *Loop) Start() {
	l.prev = l.clock.Now()
	l.lag = 0
	l.stats = Stats{}
	l.running.Store(true)
	l.log.Debug("loop started", zap.Duration("step", l.step), zap.Int("max_catch_up", l.maxCatchUp))
}

// Quit stops the loop. A frame already in progress finishes its draw but
// runs no further updates, and no new frame is scheduled.
func (l *Loop) Quit() {
	if l.running.Swap(false) {
		l.log.Debug("loop quit requested")
	}
}

// Frame runs one frame callback: zero or more fixed updates followed by one
// draw. It does nothing if the loop is not running.
func (l *Loop) Frame() {
	if !l.running.Load() {
		return
	}

	now := l.clock.Now()
	elapsed := now.Sub(l.prev)
	l.prev = now
	if elapsed < 0 {
		elapsed = 0
	}

	l.lag += elapsed
	lagBefore := l.lag

	ticks := 0
	for l.lag >= l.step && l.running.Load() {
		if l.maxCatchUp > 0 && ticks >= l.maxCatchUp {
			dropped := l.lag / l.step
			l.lag -= dropped * l.step
			l.stats.Dropped += uint64(dropped)
			l.log.Debug("catch-up capped",
				zap.Int("ticks", ticks),
				zap.Int64("dropped", int64(dropped)),
			)
			break
		}

		l.update(l.step)
		l.lag -= l.step
		if l.snapshot != nil {
			l.snapshot()
		}
		ticks++
	}

	l.stats.Ticks += uint64(ticks)
	l.stats.Frames++
	l.draw(ticks, lagBefore)
}

// Run starts the loop and drives frames from host until Quit is called,
// the host closes, or ctx is cancelled.
func (l *Loop) Run(ctx context.Context, host Host) error {
	l.Start()
	defer l.Quit()

	for l.running.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !host.BeginFrame() {
			l.log.Info("host closed")
			return nil
		}
		l.Frame()
		host.EndFrame()
	}

	l.log.Info("loop stopped",
		zap.Uint64("frames", l.stats.Frames),
		zap.Uint64("ticks", l.stats.Ticks),
	)
	return nil
}
