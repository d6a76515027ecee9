package input

// Keyboard holds the current key states and a snapshot of them taken at the
// end of the previous fixed update.
//
// Host key events write the current state immediately. The snapshot only
// moves when Snapshot is called, so several events between two updates
// collapse to the latest state and press/release edges are seen once per
// update rather than once per event.
type Keyboard struct {
	current  [KeyCount]bool
	previous [KeyCount]bool
}

// NewKeyboard creates a keyboard with every key up.
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// SetKeyDown records a key-down event.
func (kb *Keyboard) SetKeyDown(k Key) {
	if k < KeyCount {
		kb.current[k] = true
	}
}

// SetKeyUp records a key-up event.
func (kb *Keyboard) SetKeyUp(k Key) {
	if k < KeyCount {
		kb.current[k] = false
	}
}

// Snapshot copies the current states into the previous-update snapshot.
func (kb *Keyboard) Snapshot() {
	kb.previous = kb.current
}

// Reset releases every key and clears the snapshot.
func (kb *Keyboard) Reset() {
	kb.current = [KeyCount]bool{}
	kb.previous = [KeyCount]bool{}
}

// IsKeyDown reports whether k is currently held.
func (kb *Keyboard) IsKeyDown(k Key) bool {
	return k < KeyCount && kb.current[k]
}

// IsKeyPressed reports whether k went down since the last snapshot.
func (kb *Keyboard) IsKeyPressed(k Key) bool {
	return k < KeyCount && kb.current[k] && !kb.previous[k]
}

// IsKeyReleased reports whether k went up since the last snapshot.
func (kb *Keyboard) IsKeyReleased(k Key) bool {
	return k < KeyCount && !kb.current[k] && kb.previous[k]
}

// Held returns the keys currently down, in key-code order.
func (kb *Keyboard) Held() []Key {
	var keys []Key
	for i, down := range kb.current {
		if down {
			keys = append(keys, Key(i))
		}
	}
	return keys
}
