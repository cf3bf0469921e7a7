package chip8

import "fmt"

// HaltCode signifies the type of fault that halted execution.
type HaltCode byte

const (
	UnknownOpcode  HaltCode = iota // unrecognized instruction word
	StackOverflow                  // call depth beyond 16
	StackUnderflow                 // return with an empty stack
	AddrOutOfRange                 // PC or I addressing beyond 0xFFF
)

func (c HaltCode) String() string {
	if s, ok := map[HaltCode]string{
		UnknownOpcode:  "unknown opcode",
		StackOverflow:  "stack overflow",
		StackUnderflow: "stack underflow",
		AddrOutOfRange: "address out of range",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}

// HaltError is returned by Exec when the program faults. Every fault
// describes a malformed or incompatible program image, not a transient
// condition: the machine must not be stepped again after one.
type HaltError struct {
	HaltCode
	Word uint16 // the instruction word, if one was fetched
	Addr uint16 // address of the faulting instruction
}

func (e HaltError) Error() string {
	return fmt.Sprintf("%s executing %.4x at %.3x", e.HaltCode, e.Word, e.Addr)
}

// Exec fetches, decodes, and executes the instruction at m.PC,
// advancing the program counter. It returns a HaltError if the program
// faults.
func (m *Machine) Exec() (err error) {
	var (
		opPC = m.PC
		word uint16
	)
	defer func() {
		if e := recover(); e != nil {
			if code, ok := e.(HaltCode); ok {
				err = HaltError{HaltCode: code, Word: word, Addr: opPC}
			} else {
				panic(e)
			}
		}
	}()

	word = uint16(m.readByte(m.PC))<<8 | uint16(m.readByte(m.PC+1))
	m.PC += 2

	in, ok := Decode(word)
	if !ok {
		panic(UnknownOpcode)
	}

	vx, vy := &m.V[in.X], &m.V[in.Y]
	switch in.Kind {
	case Clear:
		m.Screen.clear()

	case Return:
		m.PC = m.Stack.pop()

	case Jump:
		m.PC = in.NNN

	case Call:
		m.Stack.push(m.PC)
		m.PC = in.NNN

	case SkipEqImm:
		if *vx == in.NN {
			m.PC += 2
		}

	case SkipNeImm:
		if *vx != in.NN {
			m.PC += 2
		}

	case SkipEqReg:
		if *vx == *vy {
			m.PC += 2
		}

	case LoadImm:
		*vx = in.NN

	case AddImm:
		*vx += in.NN

	case Move:
		*vx = *vy

	case Or:
		*vx |= *vy
		m.quirkResetVF()

	case And:
		*vx &= *vy
		m.quirkResetVF()

	case Xor:
		*vx ^= *vy
		m.quirkResetVF()

	case Add:
		sum := uint16(*vx) + uint16(*vy)
		*vx = byte(sum)
		m.setVF(sum > 0xFF)

	case Sub:
		// VF is 1 when no borrow occurs.
		noBorrow := *vx >= *vy
		*vx -= *vy
		m.setVF(noBorrow)

	case SubReverse:
		noBorrow := *vy >= *vx
		*vx = *vy - *vx
		m.setVF(noBorrow)

	case ShiftRight:
		src := *vy
		if m.quirks.ModernShift {
			src = *vx
		}
		*vx = src >> 1
		m.setVF(src&0x01 != 0)

	case ShiftLeft:
		src := *vy
		if m.quirks.ModernShift {
			src = *vx
		}
		*vx = src << 1
		m.setVF(src&0x80 != 0)

	case SkipNeReg:
		if *vx != *vy {
			m.PC += 2
		}

	case SetIndex:
		m.I = in.NNN

	case JumpV0:
		m.PC = in.NNN + uint16(m.V[0])

	case Random:
		*vx = byte(m.rand.Intn(256)) & in.NN

	case Draw:
		m.setVF(false)
		if in.N > 0 {
			if int(m.I)+int(in.N) > memSize {
				panic(AddrOutOfRange)
			}
			if m.Screen.draw(m.Mem[m.I:m.I+uint16(in.N)], *vx, *vy) {
				m.V[0xF] = 1
			}
		}

	case SkipKey:
		if m.Keys.Pressed(Key(*vx)) {
			m.PC += 2
		}

	case SkipNoKey:
		if !m.Keys.Pressed(Key(*vx)) {
			m.PC += 2
		}

	case GetDelay:
		*vx = m.Delay

	case WaitKey:
		if key, ok := m.Keys.takePending(); ok {
			*vx = byte(key)
			m.Waiting = false
		} else {
			// Rewind so the wait is re-evaluated next tick; Waiting
			// stops the rest of this tick's batch.
			m.PC -= 2
			m.Waiting = true
		}

	case SetDelay:
		m.Delay = *vx

	case SetSound:
		m.Sound = *vx

	case AddIndex:
		old := m.I
		m.I += uint16(*vx)
		if m.quirks.IndexOverflow {
			m.setVF(old <= 0x0FFF && m.I > 0x0FFF)
		}

	case SpriteChar:
		m.I = uint16(*vx) * glyphSize

	case StoreBCD:
		v := *vx
		m.writeByte(m.I, v/100)
		m.writeByte(m.I+1, v/10%10)
		m.writeByte(m.I+2, v%10)

	case StoreRegs:
		for i := byte(0); i <= in.X; i++ {
			m.writeByte(m.I+uint16(i), m.V[i])
		}
		if !m.quirks.ModernLoadStore {
			m.I += uint16(in.X) + 1
		}

	case LoadRegs:
		for i := byte(0); i <= in.X; i++ {
			m.V[i] = m.readByte(m.I + uint16(i))
		}
		if !m.quirks.ModernLoadStore {
			m.I += uint16(in.X) + 1
		}
	}
	return nil
}

func (m *Machine) setVF(flag bool) {
	if flag {
		m.V[0xF] = 1
	} else {
		m.V[0xF] = 0
	}
}

func (m *Machine) quirkResetVF() {
	if m.quirks.VFReset {
		m.V[0xF] = 0
	}
}
