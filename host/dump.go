package host

import (
	"strings"

	"github.com/dyatelok/chip8/chip8"
)

// Text renders the display as text, one rune per cell, for headless
// runs and diagnostics.
func Text(s *chip8.Screen) string {
	var b strings.Builder
	b.Grow((chip8.Width + 1) * chip8.Height)
	for y := 0; y < chip8.Height; y++ {
		for x := 0; x < chip8.Width; x++ {
			if s.Set(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
