package chip8

// Key is a logical CHIP-8 key, 0x0 through 0xF. The host owns the
// mapping from physical keys; the machine never sees native key codes.
type Key byte

// KeyEvent records one key transition supplied by the host.
type KeyEvent struct {
	Key  Key
	Down bool
}

// debounceWindow is the number of ticks after a transition during which
// the Pressed and Released predicates hold.
const debounceWindow = 3

// ageClamp bounds the per-key counters so a stale key cannot wrap back
// into the debounce window.
const ageClamp = 0xff

// Keypad tracks the 16-key keypad. Each key carries two counters, ticks
// since last press and ticks since last release, from which the
// debounced Pressed and Released predicates are derived.
type Keypad struct {
	sincePressed  [16]byte
	sinceReleased [16]byte

	// The pending key-wait record: the most recently pressed key and
	// its age in ticks. A key-wait instruction completes only while
	// the record is brand new; an aged record still blocks.
	pending    Key
	pendingAge int16 // -1 when no press has been recorded
}

func (k *Keypad) reset() {
	for i := range k.sincePressed {
		k.sincePressed[i] = ageClamp
		k.sinceReleased[i] = ageClamp
	}
	k.pendingAge = -1
}

func (k *Keypad) age() {
	for i := range k.sincePressed {
		if k.sincePressed[i] < ageClamp {
			k.sincePressed[i]++
		}
		if k.sinceReleased[i] < ageClamp {
			k.sinceReleased[i]++
		}
	}
	if k.pendingAge >= 0 && k.pendingAge < ageClamp {
		k.pendingAge++
	}
}

// Press registers a press transition for key.
func (k *Keypad) Press(key Key) {
	key &= 0xf
	k.sincePressed[key] = 0
	k.pending = key
	k.pendingAge = 0
}

// Release registers a release transition for key.
func (k *Keypad) Release(key Key) {
	k.sinceReleased[key&0xf] = 0
}

// Pressed reports whether key was pressed within the debounce window.
func (k *Keypad) Pressed(key Key) bool {
	return k.sincePressed[key&0xf] <= debounceWindow
}

// Released reports whether key was released within the debounce window.
// Pressed and Released are independent: both are false for a stale key.
func (k *Keypad) Released(key Key) bool {
	return k.sinceReleased[key&0xf] <= debounceWindow
}

// takePending consumes the pending record if it was registered this
// tick, reporting the pressed key and whether a key-wait is satisfied.
func (k *Keypad) takePending() (Key, bool) {
	if k.pendingAge != 0 {
		return 0, false
	}
	k.pendingAge = -1
	return k.pending, true
}
