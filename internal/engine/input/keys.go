// Package input tracks keyboard state between fixed updates.
package input

import "strconv"

// Key identifies a physical key. Values match SDL scancodes so the window
// layer can forward them without a lookup table.
type Key uint16

// KeyCount bounds the key-code range. Keys at or above it are ignored.
const KeyCount = 512

const (
	KeyA Key = 4 + iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

const (
	Key1 Key = 30 + iota
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0
)

const (
	KeyEnter  Key = 40
	KeyEscape Key = 41
	KeySpace  Key = 44

	KeyF1  Key = 58
	KeyF12 Key = 69

	KeyRight Key = 79
	KeyLeft  Key = 80
	KeyDown  Key = 81
	KeyUp    Key = 82
)

var keyNames = map[Key]string{
	KeyEnter:  "Enter",
	KeyEscape: "Escape",
	KeySpace:  "Space",
	KeyF1:     "F1",
	KeyF12:    "F12",
	KeyRight:  "Right",
	KeyLeft:   "Left",
	KeyDown:   "Down",
	KeyUp:     "Up",
}

// String returns a readable key name.
func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + int(k-KeyA)))
	case k >= Key1 && k <= Key9:
		return string(rune('1' + int(k-Key1)))
	case k == Key0:
		return "0"
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}
