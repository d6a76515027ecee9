// Package resource fetches named resources asynchronously and caches the
// decoded values.
//
// Loads run on their own goroutines, but their results are applied to the
// cache only by Pump or Wait, which the engine calls from the loop
// goroutine. All cache state is therefore owned by a single goroutine and
// needs no locking.
package resource

import (
	"context"
	"errors"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/quadloop/internal/logger"
)

// ErrStalled is returned by Wait when no load is in flight but some loads
// failed, so the outstanding count can never reach zero.
var ErrStalled = errors.New("resource: loads failed, outstanding count stalled")

// DoneFunc is called with the resource name once it is available.
type DoneFunc func(name string)

// Options configures a Cache.
type Options struct {
	Fetcher Fetcher
	// CoalesceInFlight makes concurrent fetches of the same uncached name
	// share one load. When false every fetch of an uncached name starts
	// its own load and counts as its own outstanding load.
	CoalesceInFlight bool
	Logger           *zap.Logger
}

type completion struct {
	name  string
	value any
	err   error
	done  DoneFunc
}

// Cache maps resource names to decoded values and counts outstanding loads.
type Cache struct {
	fetcher  Fetcher
	coalesce bool
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	entries     map[string]any
	outstanding int
	pending     int // loads whose completion has not been applied yet
	allLoaded   func()
	waiters     map[string][]DoneFunc
	completions chan completion
}

// NewCache creates an empty cache loading through opts.Fetcher.
func NewCache(opts Options) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		fetcher:     opts.Fetcher,
		coalesce:    opts.CoalesceInFlight,
		log:         logger.OrNop(opts.Logger).Named("resource"),
		ctx:         ctx,
		cancel:      cancel,
		entries:     make(map[string]any),
		waiters:     make(map[string][]DoneFunc),
		completions: make(chan completion, 64),
	}
}

// Has reports whether name is cached.
func (c *Cache) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Get returns the cached value for name. ok is false if it is not cached.
func (c *Cache) Get(name string) (value any, ok bool) {
	value, ok = c.entries[name]
	return value, ok
}

// Remove drops name from the cache. Removing a missing name is a no-op.
func (c *Cache) Remove(name string) {
	delete(c.entries, name)
}

// Outstanding returns the number of loads that have not completed.
func (c *Cache) Outstanding() int { return c.outstanding }

// Len returns the number of cached resources.
func (c *Cache) Len() int { return len(c.entries) }

// SetAllLoadedCallback registers fn to run once when the outstanding count
// next reaches zero. With nothing outstanding, fn runs immediately. The
// stored callback is cleared after it fires and replaces any earlier one.
func (c *Cache) SetAllLoadedCallback(fn func()) {
	if fn == nil {
		c.allLoaded = nil
		return
	}
	if c.outstanding == 0 {
		fn()
		return
	}
	c.allLoaded = fn
}

// Fetch loads name with dec unless it is already cached. If cached, done
// is called before Fetch returns; otherwise it is called from Pump or Wait
// after the value has been stored. done may be nil.
func (c *Cache) Fetch(name string, dec Decoder, done DoneFunc) {
	if c.Has(name) {
		if done != nil {
			done(name)
		}
		return
	}

	if c.coalesce {
		if ws, ok := c.waiters[name]; ok {
			c.waiters[name] = append(ws, done)
			c.log.Debug("joined in-flight load", zap.String("name", name))
			return
		}
		c.waiters[name] = []DoneFunc{done}
	}

	c.outstanding++
	c.pending++
	c.log.Debug("fetching",
		zap.String("name", name),
		zap.String("type", dec.ContentType),
		zap.Int("outstanding", c.outstanding),
	)

	go c.load(name, dec, done)
}

// FetchText fetches name as text.
func (c *Cache) FetchText(name string, done DoneFunc) { c.Fetch(name, Text, done) }

// FetchXML fetches name as an XML document.
func (c *Cache) FetchXML(name string, done DoneFunc) { c.Fetch(name, XML, done) }

// FetchImage fetches name as an image.
func (c *Cache) FetchImage(name string, done DoneFunc) { c.Fetch(name, Image, done) }

func (c *Cache) load(name string, dec Decoder, done DoneFunc) {
	data, err := c.fetcher.Fetch(c.ctx, name, dec.ContentType)
	var value any
	if err == nil {
		value, err = dec.Decode(data)
	}
	select {
	case c.completions <- completion{name: name, value: value, err: err, done: done}:
	case <-c.ctx.Done():
	}
}

// Pump applies every completed load without blocking and returns how many
// were applied.
func (c *Cache) Pump() int {
	n := 0
	for {
		select {
		case comp := <-c.completions:
			c.apply(comp)
			n++
		default:
			return n
		}
	}
}

// Wait applies completions until nothing is outstanding. It returns
// ErrStalled if the remaining loads failed, or ctx's error if ctx ends first.
func (c *Cache) Wait(ctx context.Context) error {
	for c.outstanding > 0 {
		if c.pending == 0 {
			return ErrStalled
		}
		select {
		case comp := <-c.completions:
			c.apply(comp)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close cancels loads still running. Their completions are discarded.
func (c *Cache) Close() {
	c.cancel()
}

func (c *Cache) apply(comp completion) {
	c.pending--

	if comp.err != nil {
		// The load stays counted as outstanding, which holds back the
		// all-loaded callback.
		delete(c.waiters, comp.name)
		c.log.Warn("resource load failed",
			zap.String("name", comp.name),
			zap.Int("outstanding", c.outstanding),
			zap.Error(comp.err),
		)
		return
	}

	c.entries[comp.name] = comp.value
	c.outstanding--
	c.log.Debug("resource loaded",
		zap.String("name", comp.name),
		zap.Int("outstanding", c.outstanding),
	)

	if c.outstanding == 0 && c.allLoaded != nil {
		fn := c.allLoaded
		c.allLoaded = nil
		fn()
	}

	if c.coalesce {
		ws := c.waiters[comp.name]
		delete(c.waiters, comp.name)
		for _, done := range ws {
			if done != nil {
				done(comp.name)
			}
		}
		return
	}
	if comp.done != nil {
		comp.done(comp.name)
	}
}

// Text returns the cached text resource name.
func (c *Cache) Text(name string) (string, bool) {
	v, ok := c.entries[name].(string)
	return v, ok
}

// XML returns the cached XML resource name.
func (c *Cache) XML(name string) (*XMLNode, bool) {
	v, ok := c.entries[name].(*XMLNode)
	return v, ok
}

// Image returns the cached image resource name.
func (c *Cache) Image(name string) (*image.NRGBA, bool) {
	v, ok := c.entries[name].(*image.NRGBA)
	return v, ok
}
