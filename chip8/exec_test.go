package chip8

import (
	"fmt"
	"testing"
)

func TestExec(t *testing.T) {
	c := newExecTestCase
	vf := func(q Quirks) Quirks { q.VFReset = true; return q }
	shift := func(q Quirks) Quirks { q.ModernShift = true; return q }
	for i, c := range []*execTestCase{
		c(0x6105).want().v(1, 0x05),
		c(0x7105).v(1, 2).want().v(1, 7),
		c(0x71ff).v(1, 2).want().v(1, 1), // wraps, no carry flag

		c(0x8120).v(2, 7).want().v(1, 7),
		c(0x8121).v(1, 0x36).v(2, 0x63).v(0xF, 1).want().v(1, 0x77).v(0xF, 1),
		c(0x8121).quirks(vf(Quirks{})).v(1, 0x36).v(2, 0x63).v(0xF, 1).want().v(1, 0x77).v(0xF, 0),
		c(0x8122).v(1, 0x99).v(2, 0xb8).want().v(1, 0x98),
		c(0x8122).quirks(vf(Quirks{})).v(1, 0x99).v(2, 0xb8).v(0xF, 1).want().v(1, 0x98).v(0xF, 0),
		c(0x8123).v(1, 0x31).v(2, 0x13).want().v(1, 0x22),
		c(0x8123).quirks(vf(Quirks{})).v(1, 0x31).v(2, 0x13).v(0xF, 1).want().v(1, 0x22).v(0xF, 0),

		c(0x8124).v(1, 250).v(2, 10).want().v(1, 4).v(0xF, 1),
		c(0x8124).v(1, 10).v(2, 20).want().v(1, 30).v(0xF, 0),
		c(0x8125).v(1, 10).v(2, 5).want().v(1, 5).v(0xF, 1),
		c(0x8125).v(1, 5).v(2, 10).want().v(1, 251).v(0xF, 0),
		c(0x8127).v(1, 5).v(2, 10).want().v(1, 5).v(0xF, 1),
		c(0x8127).v(1, 10).v(2, 5).want().v(1, 251).v(0xF, 0),

		// The flag write wins when VF is also an operand.
		c(0x8F15).v(0xF, 5).v(1, 10).want().v(1, 10).v(0xF, 0),
		c(0x81F4).v(1, 250).v(0xF, 10).want().v(1, 4).v(0xF, 1),

		c(0x8126).v(2, 5).want().v(1, 2).v(0xF, 1),
		c(0x8126).v(2, 4).want().v(1, 2).v(0xF, 0),
		c(0x8126).quirks(shift(Quirks{})).v(1, 5).v(2, 0).want().v(1, 2).v(0xF, 1),
		c(0x812E).v(2, 0x81).want().v(1, 2).v(0xF, 1),
		c(0x812E).v(2, 0x41).want().v(1, 0x82).v(0xF, 0),
		c(0x812E).quirks(shift(Quirks{})).v(1, 0x81).v(2, 0).want().v(1, 2).v(0xF, 1),

		c(0x3105).v(1, 5).want().pc(0x204),
		c(0x3105).v(1, 6).want(),
		c(0x4105).v(1, 6).want().pc(0x204),
		c(0x4105).v(1, 5).want(),
		c(0x5120).v(1, 7).v(2, 7).want().pc(0x204),
		c(0x5120).v(1, 7).v(2, 8).want(),
		c(0x9120).v(1, 7).v(2, 8).want().pc(0x204),
		c(0x9120).v(1, 7).v(2, 7).want(),

		c(0x1234).want().pc(0x234),
		c(0xB234).v(0, 0x10).want().pc(0x244),
		c(0x2300).want().stack(0x202).pc(0x300),

		c(0xA123).want().i(0x123),
		c(0xF11E).v(1, 5).i(0x100).want().i(0x105),
		c(0xF11E).quirks(Quirks{IndexOverflow: true}).v(1, 5).i(0xFFE).want().i(0x1003).v(0xF, 1),
		c(0xF11E).quirks(Quirks{IndexOverflow: true}).v(1, 5).i(0x100).want().i(0x105).v(0xF, 0),
		c(0xF11E).v(1, 5).i(0xFFE).want().i(0x1003), // VF untouched without the quirk

		c(0xC100).v(1, 7).want().v(1, 0), // mask 0 pins the result

		c(0xF129).v(1, 0xB).want().i(0xB * glyphSize),
		c(0xF129).v(1, 0x1B).want().i(0x1B * glyphSize), // no masking

		c(0xF133).v(1, 254).i(0x300).want().mem(0x300, 2, 5, 4),
		c(0xF133).v(1, 7).i(0x300).want().mem(0x300, 0, 0, 7),

		c(0xF255).v(0, 1).v(1, 2).v(2, 3).i(0x300).want().mem(0x300, 1, 2, 3).i(0x303),
		c(0xF255).quirks(Quirks{ModernLoadStore: true}).v(0, 1).v(1, 2).v(2, 3).i(0x300).want().mem(0x300, 1, 2, 3),
		c(0xF265).mem(0x300, 1, 2, 3).i(0x300).want().v(0, 1).v(1, 2).v(2, 3).i(0x303),
		c(0xF265).quirks(Quirks{ModernLoadStore: true}).mem(0x300, 1, 2, 3).i(0x300).want().v(0, 1).v(1, 2).v(2, 3),

		c(0xE19E).v(1, 5).key(5).want().pc(0x204),
		c(0xE19E).v(1, 5).want(),
		c(0xE1A1).v(1, 5).want().pc(0x204),
		c(0xE1A1).v(1, 5).key(5).want(),

		c(0xF107).delay(42).want().v(1, 42),
		c(0xF115).v(1, 42).want().delay(42),
		c(0xF118).v(1, 42).want().sound(42),

		c(0xF10A).want().pc(0x200).waiting(),
		c(0xF10A).key(0xA).want().v(1, 0xA),

		c(0x0123).want().error(HaltError{HaltCode: UnknownOpcode, Word: 0x0123, Addr: 0x200}),
		c(0x8128).want().error(HaltError{HaltCode: UnknownOpcode, Word: 0x8128, Addr: 0x200}),
		c(0x00EE).want().error(HaltError{HaltCode: StackUnderflow, Word: 0x00EE, Addr: 0x200}),
		c(0xF133).i(0xFFE).want().error(HaltError{HaltCode: AddrOutOfRange, Word: 0xF133, Addr: 0x200}),
		c(0xD115).i(0xFFE).want().error(HaltError{HaltCode: AddrOutOfRange, Word: 0xD115, Addr: 0x200}),
	} {
		word := uint16(c.m.Mem[LoadAddr])<<8 | uint16(c.m.Mem[LoadAddr+1])
		t.Run(fmt.Sprintf("%.4x_%d", word, i), func(t *testing.T) {
			if err := c.m.Exec(); err != c.err {
				t.Fatalf("got error %v, want %v", err, c.err)
			}
			if g, w := c.m.V, c.w.V; g != w {
				t.Errorf("registers are\n\t%.2x\nwant\n\t%.2x", g, w)
			}
			if g, w := c.m.I, c.w.I; g != w {
				t.Errorf("I is %.3x, want %.3x", g, w)
			}
			if g, w := c.m.PC, c.w.PC; g != w {
				t.Errorf("PC is %.3x, want %.3x", g, w)
			}
			if g, w := c.m.Stack, c.w.Stack; g != w {
				t.Errorf("stack is %v, want %v", g, w)
			}
			if g, w := c.m.Delay, c.w.Delay; g != w {
				t.Errorf("delay timer is %.2x, want %.2x", g, w)
			}
			if g, w := c.m.Sound, c.w.Sound; g != w {
				t.Errorf("sound timer is %.2x, want %.2x", g, w)
			}
			if g, w := c.m.Waiting, c.w.Waiting; g != w {
				t.Errorf("waiting is %v, want %v", g, w)
			}
			if g, w := c.m.Mem, c.w.Mem; g != w {
				for i := range g {
					if g[i] != w[i] {
						t.Errorf("memory[%.3x] = %.2x, want %.2x", i, g[i], w[i])
					}
				}
			}
		})
	}
}

type execTestCase struct {
	m, w *Machine
	err  error
	set  *Machine
}

// newExecTestCase loads words at 0x200 and prepares a wanted machine
// whose PC sits past the first instruction. Setters before want()
// configure the initial state on both machines; setters after want()
// configure the expected state only.
func newExecTestCase(words ...uint16) *execTestCase {
	rom := make([]byte, 0, len(words)*2)
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}
	c := &execTestCase{}
	c.m, _ = NewMachine(rom, Quirks{})
	c.w, _ = NewMachine(rom, Quirks{})
	c.w.PC += 2
	c.set = c.m
	return c
}

func (c *execTestCase) quirks(q Quirks) *execTestCase {
	c.m.quirks = q
	return c
}

func (c *execTestCase) v(reg, val byte) *execTestCase {
	c.set.V[reg] = val
	if c.set == c.m {
		c.w.V[reg] = val
	}
	return c
}

func (c *execTestCase) i(addr uint16) *execTestCase {
	c.set.I = addr
	if c.set == c.m {
		c.w.I = addr
	}
	return c
}

func (c *execTestCase) mem(addr uint16, bytes ...byte) *execTestCase {
	copy(c.set.Mem[addr:], bytes)
	if c.set == c.m {
		copy(c.w.Mem[addr:], bytes)
	}
	return c
}

func (c *execTestCase) pc(addr uint16) *execTestCase {
	c.set.PC = addr
	return c
}

func (c *execTestCase) stack(addrs ...uint16) *execTestCase {
	s := &c.set.Stack
	*s = Stack{}
	for _, a := range addrs {
		s.push(a)
	}
	if c.set == c.m {
		c.w.Stack = *s
	}
	return c
}

func (c *execTestCase) delay(val byte) *execTestCase {
	c.set.Delay = val
	if c.set == c.m {
		c.w.Delay = val
	}
	return c
}

func (c *execTestCase) sound(val byte) *execTestCase {
	c.set.Sound = val
	if c.set == c.m {
		c.w.Sound = val
	}
	return c
}

// key registers a fresh press on the initial machine's keypad.
func (c *execTestCase) key(k Key) *execTestCase {
	c.m.Keys.Press(k)
	return c
}

func (c *execTestCase) waiting() *execTestCase {
	c.w.Waiting = true
	return c
}

func (c *execTestCase) want() *execTestCase {
	c.set = c.w
	return c
}

func (c *execTestCase) error(err error) *execTestCase {
	c.err = err
	return c
}

func TestCallReturn(t *testing.T) {
	// 0x200: CALL 0x204; 0x204: RET
	m, err := NewMachine([]byte{0x22, 0x04, 0x00, 0x00, 0x00, 0xEE}, Quirks{})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Exec(); err != nil {
		t.Fatal(err)
	}
	if g, w := m.PC, uint16(0x204); g != w {
		t.Fatalf("after call, PC is %.3x, want %.3x", g, w)
	}
	if g, w := m.Stack.Depth(), 1; g != w {
		t.Fatalf("after call, stack depth is %d, want %d", g, w)
	}
	if err := m.Exec(); err != nil {
		t.Fatal(err)
	}
	if g, w := m.PC, uint16(0x202); g != w {
		t.Fatalf("after return, PC is %.3x, want %.3x", g, w)
	}
	if g, w := m.Stack.Depth(), 0; g != w {
		t.Fatalf("after return, stack depth is %d, want %d", g, w)
	}
}

func TestStackOverflow(t *testing.T) {
	// CALL 0x200: every execution pushes another return address.
	m, err := NewMachine([]byte{0x22, 0x00}, Quirks{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 16; i++ {
		if err := m.Exec(); err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
	}
	err = m.Exec()
	want := HaltError{HaltCode: StackOverflow, Word: 0x2200, Addr: 0x200}
	if err != want {
		t.Fatalf("call 17 returned %v, want %v", err, want)
	}
}

func TestTick(t *testing.T) {
	// CLS; LD V0, 05; ADD V0, 05; JP 0x200. Twelve instructions per
	// tick is three trips around the loop.
	rom := []byte{0x00, 0xE0, 0x60, 0x05, 0x70, 0x05, 0x12, 0x00}
	m, err := NewMachine(rom, Quirks{})
	if err != nil {
		t.Fatal(err)
	}
	m.Delay = 3
	if err := m.Tick(nil, 12); err != nil {
		t.Fatal(err)
	}
	if g, w := m.V[0], byte(10); g != w {
		t.Errorf("V0 is %d, want %d", g, w)
	}
	if g, w := m.PC, uint16(0x200); g != w {
		t.Errorf("PC is %.3x, want %.3x", g, w)
	}
	if g, w := m.Delay, byte(2); g != w {
		t.Errorf("delay timer is %d, want %d", g, w)
	}
}

func TestTimerDecay(t *testing.T) {
	// JP 0x200, an idle loop.
	m, err := NewMachine([]byte{0x12, 0x00}, Quirks{})
	if err != nil {
		t.Fatal(err)
	}
	m.Delay, m.Sound = 2, 1
	for tick, want := range []struct{ delay, sound byte }{
		{1, 0}, {0, 0}, {0, 0}, // one step per tick, saturating at zero
	} {
		if err := m.Tick(nil, 20); err != nil {
			t.Fatal(err)
		}
		if m.Delay != want.delay || m.Sound != want.sound {
			t.Errorf("after tick %d, timers are %d/%d, want %d/%d",
				tick+1, m.Delay, m.Sound, want.delay, want.sound)
		}
	}
}

func TestNewMachine(t *testing.T) {
	if _, err := NewMachine(make([]byte, 3585), Quirks{}); err == nil {
		t.Error("3585-byte rom loaded, want error")
	}
	m, err := NewMachine(make([]byte, 3584), Quirks{})
	if err != nil {
		t.Fatalf("3584-byte rom: %v", err)
	}
	if g, w := m.PC, uint16(LoadAddr); g != w {
		t.Errorf("PC is %.3x, want %.3x", g, w)
	}
}

func TestFontLoaded(t *testing.T) {
	m, err := NewMachine(nil, Quirks{})
	if err != nil {
		t.Fatal(err)
	}
	zero := [glyphSize]byte{0xF0, 0x90, 0x90, 0x90, 0xF0}
	if g := *(*[glyphSize]byte)(m.Mem[0:glyphSize]); g != zero {
		t.Errorf("glyph 0 is %.2x, want %.2x", g, zero)
	}
	f := [glyphSize]byte{0xF0, 0x80, 0xF0, 0x80, 0x80}
	if g := *(*[glyphSize]byte)(m.Mem[0xF*glyphSize:]); g != f {
		t.Errorf("glyph F is %.2x, want %.2x", g, f)
	}
}

func TestDraw(t *testing.T) {
	// LD V0, 00; LD F, V0; DRW V0, V0, 5 draws the zero glyph at the
	// origin, a second identical draw erases it with a collision, and a
	// third sets it again with the collision flag cleared.
	rom := []byte{0x60, 0x00, 0xF0, 0x29, 0xD0, 0x05, 0xD0, 0x05, 0xD0, 0x05}
	m, err := NewMachine(rom, Quirks{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := m.Exec(); err != nil {
			t.Fatal(err)
		}
	}
	if !m.Screen.Set(0, 0) || m.Screen.Set(1, 1) || !m.Screen.Set(3, 1) {
		t.Errorf("glyph 0 not drawn:\n%v", m.Screen.Pix[0:5])
	}
	if g := m.V[0xF]; g != 0 {
		t.Errorf("first draw set VF to %d, want 0", g)
	}
	if err := m.Exec(); err != nil {
		t.Fatal(err)
	}
	if m.Screen != (Screen{}) {
		t.Error("second draw did not erase the glyph")
	}
	if g := m.V[0xF]; g != 1 {
		t.Errorf("second draw set VF to %d, want 1", g)
	}
	if err := m.Exec(); err != nil {
		t.Fatal(err)
	}
	if !m.Screen.Set(0, 0) || !m.Screen.Set(3, 1) {
		t.Error("third draw did not set the glyph again")
	}
	if g := m.V[0xF]; g != 0 {
		t.Errorf("third draw left VF at %d, want 0", g)
	}
}
