package loop

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type drawCall struct {
	ticks int
	lag   time.Duration
}

type recorder struct {
	updates []time.Duration
	draws   []drawCall
}

func (r *recorder) update(dt time.Duration) { r.updates = append(r.updates, dt) }

func (r *recorder) draw(ticks int, lag time.Duration) {
	r.draws = append(r.draws, drawCall{ticks: ticks, lag: lag})
}

func newTestLoop(opts Options) (*Loop, *fakeClock, *recorder) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	rec := &recorder{}
	opts.Clock = clock
	return New(rec.update, rec.draw, opts), clock, rec
}

func TestTickCountsForElapsedSequence(t *testing.T) {
	l, clock, rec := newTestLoop(Options{})
	l.Start()

	for _, ms := range []int{17, 17, 50} {
		clock.advance(time.Duration(ms) * time.Millisecond)
		l.Frame()
	}

	want := []int{1, 1, 3}
	if len(rec.draws) != len(want) {
		t.Fatalf("expected %d draws, got %d", len(want), len(rec.draws))
	}
	for i, w := range want {
		if rec.draws[i].ticks != w {
			t.Errorf("frame %d: expected %d ticks, got %d", i, w, rec.draws[i].ticks)
		}
	}
	if len(rec.updates) != 5 {
		t.Errorf("expected 5 updates in total, got %d", len(rec.updates))
	}
	for _, dt := range rec.updates {
		if dt != DefaultStep {
			t.Errorf("update called with %v, want %v", dt, DefaultStep)
		}
	}
}

func TestSixteenMillisecondFramesCarryLag(t *testing.T) {
	l, clock, rec := newTestLoop(Options{})
	l.Start()

	for _, ms := range []int{16, 16, 50} {
		clock.advance(time.Duration(ms) * time.Millisecond)
		l.Frame()
	}

	// 16ms is just short of one 1/60s step, so the first frame only
	// accumulates lag.
	want := []int{0, 1, 3}
	for i, w := range want {
		if rec.draws[i].ticks != w {
			t.Errorf("frame %d: expected %d ticks, got %d", i, w, rec.draws[i].ticks)
		}
	}
}

func TestTicksEqualFloorOfLag(t *testing.T) {
	step := 10 * time.Millisecond
	l, clock, rec := newTestLoop(Options{Step: step})
	l.Start()

	elapsed := []time.Duration{
		3 * time.Millisecond, 9 * time.Millisecond, 41 * time.Millisecond,
		0, 10 * time.Millisecond, 99 * time.Millisecond, 7 * time.Millisecond,
		250 * time.Millisecond, 1 * time.Millisecond,
	}

	for i, e := range elapsed {
		clock.advance(e)
		l.Frame()

		d := rec.draws[i]
		if want := int(d.lag / step); d.ticks != want {
			t.Errorf("frame %d: ticks %d, want floor(%v/%v) = %d", i, d.ticks, d.lag, step, want)
		}
		if l.Lag() < 0 || l.Lag() >= step {
			t.Errorf("frame %d: residual lag %v outside [0, %v)", i, l.Lag(), step)
		}
		if d.lag-time.Duration(d.ticks)*step != l.Lag() {
			t.Errorf("frame %d: residual %v does not match lag %v minus %d steps", i, l.Lag(), d.lag, d.ticks)
		}
	}
}

func TestDrawReceivesLagBeforeConsumption(t *testing.T) {
	l, clock, rec := newTestLoop(Options{Step: 10 * time.Millisecond})
	l.Start()

	clock.advance(35 * time.Millisecond)
	l.Frame()

	if rec.draws[0].lag != 35*time.Millisecond {
		t.Errorf("expected draw lag 35ms, got %v", rec.draws[0].lag)
	}
	if l.Lag() != 5*time.Millisecond {
		t.Errorf("expected residual lag 5ms, got %v", l.Lag())
	}
}

func TestSnapshotRunsAfterEachUpdate(t *testing.T) {
	var order []string
	clock := &fakeClock{now: time.Unix(0, 0)}
	l := New(
		func(time.Duration) { order = append(order, "update") },
		func(int, time.Duration) { order = append(order, "draw") },
		Options{Step: 10 * time.Millisecond, Clock: clock, Snapshot: func() { order = append(order, "snapshot") }},
	)
	l.Start()

	clock.advance(20 * time.Millisecond)
	l.Frame()

	want := []string{"update", "snapshot", "update", "snapshot", "draw"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestQuitDuringUpdateStopsCatchUp(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	var l *Loop
	updates := 0
	var draws []int
	l = New(
		func(time.Duration) {
			updates++
			if updates == 2 {
				l.Quit()
			}
		},
		func(ticks int, _ time.Duration) { draws = append(draws, ticks) },
		Options{Step: 10 * time.Millisecond, Clock: clock},
	)
	l.Start()

	clock.advance(100 * time.Millisecond)
	l.Frame()

	if updates != 2 {
		t.Errorf("expected catch-up to stop after 2 updates, got %d", updates)
	}
	if len(draws) != 1 || draws[0] != 2 {
		t.Errorf("expected the in-flight frame to draw once with 2 ticks, got %v", draws)
	}

	clock.advance(100 * time.Millisecond)
	l.Frame()
	if len(draws) != 1 {
		t.Error("frame after Quit should not draw")
	}
}

func TestFrameBeforeStartIsNoop(t *testing.T) {
	l, clock, rec := newTestLoop(Options{})
	clock.advance(time.Second)
	l.Frame()

	if len(rec.draws) != 0 || len(rec.updates) != 0 {
		t.Error("frame on a stopped loop should do nothing")
	}
}

func TestMaxCatchUpDropsWholeSteps(t *testing.T) {
	step := 10 * time.Millisecond
	l, clock, rec := newTestLoop(Options{Step: step, MaxCatchUp: 3})
	l.Start()

	clock.advance(125 * time.Millisecond)
	l.Frame()

	if rec.draws[0].ticks != 3 {
		t.Errorf("expected 3 ticks with cap, got %d", rec.draws[0].ticks)
	}
	if l.Lag() != 5*time.Millisecond {
		t.Errorf("expected residual 5ms after dropping steps, got %v", l.Lag())
	}
	if got := l.Stats().Dropped; got != 9 {
		t.Errorf("expected 9 dropped steps, got %d", got)
	}
}

func TestUnboundedCatchUp(t *testing.T) {
	step := 10 * time.Millisecond
	l, clock, rec := newTestLoop(Options{Step: step})
	l.Start()

	clock.advance(5 * time.Second)
	l.Frame()

	if rec.draws[0].ticks != 500 {
		t.Errorf("expected 500 ticks, got %d", rec.draws[0].ticks)
	}
	if len(rec.draws) != 1 {
		t.Errorf("expected a single draw, got %d", len(rec.draws))
	}
}

func TestStartResetsState(t *testing.T) {
	l, clock, _ := newTestLoop(Options{Step: 10 * time.Millisecond})
	l.Start()
	clock.advance(15 * time.Millisecond)
	l.Frame()
	l.Quit()

	clock.advance(time.Hour)
	l.Start()
	if l.Lag() != 0 {
		t.Errorf("expected lag reset on Start, got %v", l.Lag())
	}
	if l.Stats() != (Stats{}) {
		t.Errorf("expected stats reset on Start, got %+v", l.Stats())
	}
}

type scriptedHost struct {
	clock  *fakeClock
	frames int
	limit  int
	ended  int
}

func (h *scriptedHost) BeginFrame() bool {
	if h.frames >= h.limit {
		return false
	}
	h.frames++
	h.clock.advance(20 * time.Millisecond)
	return true
}

func (h *scriptedHost) EndFrame() { h.ended++ }

func TestRunStopsWhenHostCloses(t *testing.T) {
	l, clock, rec := newTestLoop(Options{Step: 10 * time.Millisecond})
	host := &scriptedHost{clock: clock, limit: 4}

	if err := l.Run(context.Background(), host); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(rec.draws) != 4 || host.ended != 4 {
		t.Errorf("expected 4 drawn and presented frames, got %d/%d", len(rec.draws), host.ended)
	}
	if l.Stats().Ticks != 8 {
		t.Errorf("expected 8 ticks, got %d", l.Stats().Ticks)
	}
	if l.Running() {
		t.Error("loop should not be running after Run returns")
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	var l *Loop
	draws := 0
	l = New(nil, func(int, time.Duration) {
		draws++
		if draws == 2 {
			l.Quit()
		}
	}, Options{Clock: clock})

	host := &scriptedHost{clock: clock, limit: 100}
	if err := l.Run(context.Background(), host); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if draws != 2 {
		t.Errorf("expected 2 draws before quit, got %d", draws)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	l, clock, _ := newTestLoop(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Run(ctx, &scriptedHost{clock: clock, limit: 100})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
