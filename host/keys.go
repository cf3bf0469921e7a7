package host

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/dyatelok/chip8/chip8"
)

// keymap maps the left-hand block of a QWERTY keyboard onto the
// hexadecimal keypad:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var keymap = map[ebiten.Key]chip8.Key{
	ebiten.KeyDigit1: 0x1,
	ebiten.KeyDigit2: 0x2,
	ebiten.KeyDigit3: 0x3,
	ebiten.KeyDigit4: 0xC,
	ebiten.KeyQ:      0x4,
	ebiten.KeyW:      0x5,
	ebiten.KeyE:      0x6,
	ebiten.KeyR:      0xD,
	ebiten.KeyA:      0x7,
	ebiten.KeyS:      0x8,
	ebiten.KeyD:      0x9,
	ebiten.KeyF:      0xE,
	ebiten.KeyZ:      0xA,
	ebiten.KeyX:      0x0,
	ebiten.KeyC:      0xB,
	ebiten.KeyV:      0xF,
}

// readKeys collects this frame's key transitions as logical keypad
// events. Held keys produce no events; the machine's own debounce
// counters track those.
func readKeys() []chip8.KeyEvent {
	var events []chip8.KeyEvent
	for phys, key := range keymap {
		if inpututil.IsKeyJustPressed(phys) {
			events = append(events, chip8.KeyEvent{Key: key, Down: true})
		}
		if inpututil.IsKeyJustReleased(phys) {
			events = append(events, chip8.KeyEvent{Key: key, Down: false})
		}
	}
	return events
}
