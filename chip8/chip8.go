// Package chip8 provides an implementation of the CHIP-8 virtual
// machine, called Machine, that can be used to execute CHIP-8 programs.
package chip8

import (
	"fmt"
	"math/rand"
	"time"
)

// Display dimensions, in cells.
const (
	Width  = 64
	Height = 32
)

const memSize = 4096

// LoadAddr is the address at which programs are loaded and begin
// executing.
const LoadAddr = 0x200

// Machine is an implementation of a CHIP-8 virtual machine. It is a
// single mutable aggregate: the caller that constructs it owns it, and
// must not share it across concurrent mutators.
type Machine struct {
	Mem   [memSize]byte
	V     [16]byte // VF doubles as the carry/borrow/collision flag.
	I     uint16
	PC    uint16
	Stack Stack

	Delay byte
	Sound byte

	Screen Screen
	Keys   Keypad

	// Waiting is set while a key-wait instruction is blocking. While
	// set, no further instructions execute within the current tick.
	Waiting bool

	quirks Quirks
	rand   *rand.Rand
}

// Quirks selects between historically divergent interpreter behaviours.
// All toggles are fixed at construction.
type Quirks struct {
	// VFReset makes the OR, AND, and XOR instructions also zero VF,
	// as the original COSMAC VIP interpreter did.
	VFReset bool
	// IndexOverflow makes add-to-index set VF when I moves past
	// 0x0FFF, as the Amiga interpreter did.
	IndexOverflow bool
	// ModernShift makes the shift instructions read VX rather
	// than VY.
	ModernShift bool
	// ModernLoadStore makes the register dump and load instructions
	// leave I unchanged rather than advancing it past the copied
	// bytes.
	ModernLoadStore bool
}

// NewMachine returns a Machine loaded with the given rom at 0x200 and
// the built-in font table below it. The rom must fit in memory.
func NewMachine(rom []byte, q Quirks) (*Machine, error) {
	if len(rom) > memSize-LoadAddr {
		return nil, fmt.Errorf("rom is %d bytes; at most %d fit at %#.3x", len(rom), memSize-LoadAddr, LoadAddr)
	}
	m := &Machine{
		PC:     LoadAddr,
		quirks: q,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	copy(m.Mem[:], font[:])
	copy(m.Mem[LoadAddr:], rom)
	m.Keys.reset()
	return m, nil
}

// Tick advances the machine by one host tick: the keypad counters age
// and the supplied key transitions are applied, then up to instrs
// instructions execute in program order, then both timers decay exactly
// one step. A blocking key-wait ends the instruction batch early; the
// timers still decay.
func (m *Machine) Tick(events []KeyEvent, instrs int) error {
	m.TickInput(events)
	for i := 0; i < instrs; i++ {
		if err := m.Exec(); err != nil {
			return err
		}
		if m.Waiting {
			break
		}
	}
	m.DecayTimers()
	return nil
}

// TickInput ages the keypad state by one tick and applies a batch of
// key transitions. It must run before the tick's instruction batch.
func (m *Machine) TickInput(events []KeyEvent) {
	m.Keys.age()
	for _, e := range events {
		if e.Down {
			m.Keys.Press(e.Key)
		} else {
			m.Keys.Release(e.Key)
		}
	}
}

// DecayTimers steps the delay and sound timers, saturating at zero.
func (m *Machine) DecayTimers() {
	if m.Delay > 0 {
		m.Delay--
	}
	if m.Sound > 0 {
		m.Sound--
	}
}

func (m *Machine) readByte(addr uint16) byte {
	if int(addr) >= memSize {
		panic(AddrOutOfRange)
	}
	return m.Mem[addr]
}

func (m *Machine) writeByte(addr uint16, v byte) {
	if int(addr) >= memSize {
		panic(AddrOutOfRange)
	}
	m.Mem[addr] = v
}
