// Package audio plays short sound effects decoded from WAV resources.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/quadloop/internal/engine/resource"
	"github.com/Faultbox/quadloop/internal/logger"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned by Play before Init succeeded.
var ErrNotInitialized = errors.New("audio not initialized")

// WAV decodes fetched .wav files into a *Sound.
var WAV = resource.Decoder{
	ContentType: "audio/wav",
	Decode:      func(data []byte) (any, error) { return DecodeWAV(data) },
}

// Sound is a fully decoded clip that can be played any number of times.
type Sound struct {
	buf *beep.Buffer
}

// DecodeWAV decodes a whole WAV file into memory.
func DecodeWAV(data []byte) (*Sound, error) {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read wav samples: %w", err)
	}
	return &Sound{buf: buf}, nil
}

// SampleRate returns the clip's native sample rate.
func (s *Sound) SampleRate() beep.SampleRate { return s.buf.Format().SampleRate }

// Duration returns the clip length.
func (s *Sound) Duration() time.Duration { return s.buf.Format().SampleRate.D(s.buf.Len()) }

// Player mixes sound effects onto the speaker.
type Player struct {
	mu  sync.RWMutex
	log *zap.Logger

	initialized bool
	sampleRate  beep.SampleRate

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	sfxVolume    float64

	mixer *beep.Mixer
}

// New creates a player. Nothing is audible until Init.
func New(log *zap.Logger) *Player {
	return &Player{
		log:          logger.OrNop(log).Named("audio"),
		masterVolume: 1.0,
		sfxVolume:    1.0,
		mixer:        &beep.Mixer{},
	}
}

// Init opens the speaker.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	p.sampleRate = DefaultSampleRate
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)

	p.initialized = true
	p.log.Info("speaker initialized", zap.Int("sample_rate", int(p.sampleRate)))
	return nil
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// Initialized reports whether Init succeeded.
func (p *Player) Initialized() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (p *Player) SetMasterVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.masterVolume = clamp(vol, 0, 1)
}

// SetSFXVolume sets the effect volume (0.0 to 1.0).
func (p *Player) SetSFXVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sfxVolume = clamp(vol, 0, 1)
}

// MasterVolume returns the master volume.
func (p *Player) MasterVolume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.masterVolume
}

// SFXVolume returns the effect volume.
func (p *Player) SFXVolume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sfxVolume
}

// Play starts s on the mixer. Overlapping calls play concurrently.
func (p *Player) Play(s *Sound) error {
	p.mu.RLock()
	initialized := p.initialized
	rate := p.sampleRate
	vol := p.masterVolume * p.sfxVolume
	p.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}

	var streamer beep.Streamer = s.buf.Streamer(0, s.buf.Len())
	if s.SampleRate() != rate {
		streamer = beep.Resample(4, s.SampleRate(), rate, streamer)
	}

	speaker.Lock()
	p.mixer.Add(&effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   gainExponent(vol),
		Silent:   vol <= 0,
	})
	speaker.Unlock()
	return nil
}

// gainExponent converts a linear 0-1 volume to a base-2 exponent, so that
// half volume is -1.
func gainExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
