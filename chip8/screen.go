package chip8

// Screen is the 64x32 monochrome display. Cells are mutated only by the
// clear-screen and draw instructions; draws XOR sprite bits into the
// grid, never set them unconditionally.
type Screen struct {
	Pix [Height][Width]bool
}

func (s *Screen) clear() { *s = Screen{} }

// Set reports whether the cell at (x, y) is on.
func (s *Screen) Set(x, y int) bool { return s.Pix[y][x] }

// draw XORs the rows of sprite onto the grid at origin (x mod 64,
// y mod 64) and reports whether any set cell was unset. Rows past the
// bottom edge and bits past the right edge are dropped, not wrapped.
func (s *Screen) draw(sprite []byte, x, y byte) (collision bool) {
	x0, y0 := int(x)%Width, int(y)%Width
	for i, row := range sprite {
		py := y0 + i
		if py >= Height {
			break
		}
		for j := 0; j < 8; j++ {
			px := x0 + j
			if px >= Width {
				break
			}
			if row&(0x80>>j) == 0 {
				continue
			}
			if s.Pix[py][px] {
				collision = true
			}
			s.Pix[py][px] = !s.Pix[py][px]
		}
	}
	return collision
}
