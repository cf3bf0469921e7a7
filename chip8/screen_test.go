package chip8

import "testing"

func TestDrawCollision(t *testing.T) {
	var s Screen
	sprite := []byte{0xF0}
	if s.draw(sprite, 0, 0) {
		t.Error("draw onto a blank screen reported a collision")
	}
	if !s.draw(sprite, 0, 0) {
		t.Error("overdraw did not report a collision")
	}
	if s != (Screen{}) {
		t.Error("overdraw did not erase the sprite")
	}
	if s.draw(sprite, 4, 0) {
		t.Error("draw onto cleared cells reported a collision")
	}
}

func TestDrawClipsRightEdge(t *testing.T) {
	var s Screen
	s.draw([]byte{0xFF}, 60, 0)
	for x := 60; x < Width; x++ {
		if !s.Set(x, 0) {
			t.Errorf("cell (%d, 0) is off, want on", x)
		}
	}
	for x := 0; x < 4; x++ {
		if s.Set(x, 0) {
			t.Errorf("cell (%d, 0) is on; sprite wrapped instead of clipping", x)
		}
	}
}

func TestDrawClipsBottomEdge(t *testing.T) {
	var s Screen
	s.draw([]byte{0x80, 0x80, 0x80, 0x80}, 0, 30)
	if !s.Set(0, 30) || !s.Set(0, 31) {
		t.Error("rows inside the display were not drawn")
	}
	if s.Set(0, 0) || s.Set(0, 1) {
		t.Error("rows past the bottom edge wrapped instead of clipping")
	}
}

func TestDrawOriginWraps(t *testing.T) {
	var s Screen
	s.draw([]byte{0x80}, 68, 70)
	if !s.Set(4, 6) {
		t.Error("origin (68, 70) did not wrap to (4, 6)")
	}

	// A Y origin that wraps modulo 64 but still lands below the display
	// draws nothing.
	s = Screen{}
	s.draw([]byte{0xFF, 0xFF}, 0, 40)
	if s != (Screen{}) {
		t.Error("origin row 40 drew cells, want none")
	}
}
