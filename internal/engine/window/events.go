package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/quadloop/internal/engine/input"
)

// EventType classifies host events the engine cares about.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventKeyDown
	EventKeyUp
	EventFocusLost
	EventResize
)

// Event is a host event translated out of SDL.
type Event struct {
	Type   EventType
	Key    input.Key
	Width  int
	Height int
}

// PollEvents drains the SDL queue, passing each relevant event to handle.
// It reports false once a quit event has been seen.
func (w *Window) PollEvents(handle func(Event)) bool {
	open := true
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			open = false
			handle(Event{Type: EventQuit})

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_FOCUS_LOST:
				handle(Event{Type: EventFocusLost})
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				handle(Event{Type: EventResize, Width: int(e.Data1), Height: int(e.Data2)})
			}

		case *sdl.KeyboardEvent:
			// Scancodes and input.Key share one numbering.
			key := input.Key(e.Keysym.Scancode)
			switch e.Type {
			case sdl.KEYDOWN:
				handle(Event{Type: EventKeyDown, Key: key})
			case sdl.KEYUP:
				handle(Event{Type: EventKeyUp, Key: key})
			}
		}
	}
	return open
}
