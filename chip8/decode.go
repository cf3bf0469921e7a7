package chip8

import "fmt"

// Kind identifies one of the recognized CHIP-8 instruction forms.
type Kind byte

const (
	Clear      Kind = iota // 00E0
	Return                 // 00EE
	Jump                   // 1nnn
	Call                   // 2nnn
	SkipEqImm              // 3xnn
	SkipNeImm              // 4xnn
	SkipEqReg              // 5xy0
	LoadImm                // 6xnn
	AddImm                 // 7xnn
	Move                   // 8xy0
	Or                     // 8xy1
	And                    // 8xy2
	Xor                    // 8xy3
	Add                    // 8xy4
	Sub                    // 8xy5
	ShiftRight             // 8xy6
	SubReverse             // 8xy7
	ShiftLeft              // 8xyE
	SkipNeReg              // 9xy0
	SetIndex               // Annn
	JumpV0                 // Bnnn
	Random                 // Cxnn
	Draw                   // Dxyn
	SkipKey                // Ex9E
	SkipNoKey              // ExA1
	GetDelay               // Fx07
	WaitKey                // Fx0A
	SetDelay               // Fx15
	SetSound               // Fx18
	AddIndex               // Fx1E
	SpriteChar             // Fx29
	StoreBCD               // Fx33
	StoreRegs              // Fx55
	LoadRegs               // Fx65
)

// Instr is a decoded instruction: its form plus the operand fields
// extracted from the instruction word.
type Instr struct {
	Kind Kind
	X    byte   // second nibble, a register index
	Y    byte   // third nibble, a register index
	N    byte   // low nibble
	NN   byte   // low byte
	NNN  uint16 // low 12 bits, an address
}

// Decode classifies a big-endian instruction word into one of the
// recognized forms. It reports false for bit patterns that match none
// of them; callers must not execute such words.
func Decode(word uint16) (Instr, bool) {
	in := Instr{
		X:   byte(word >> 8 & 0xF),
		Y:   byte(word >> 4 & 0xF),
		N:   byte(word & 0xF),
		NN:  byte(word),
		NNN: word & 0x0FFF,
	}
	switch word >> 12 {
	case 0x0:
		// 0nnn, the machine-language subroutine call, is deliberately
		// not recognized: no host code exists to jump into.
		switch word {
		case 0x00E0:
			in.Kind = Clear
		case 0x00EE:
			in.Kind = Return
		default:
			return in, false
		}
	case 0x1:
		in.Kind = Jump
	case 0x2:
		in.Kind = Call
	case 0x3:
		in.Kind = SkipEqImm
	case 0x4:
		in.Kind = SkipNeImm
	case 0x5:
		if in.N != 0 {
			return in, false
		}
		in.Kind = SkipEqReg
	case 0x6:
		in.Kind = LoadImm
	case 0x7:
		in.Kind = AddImm
	case 0x8:
		switch in.N {
		case 0x0:
			in.Kind = Move
		case 0x1:
			in.Kind = Or
		case 0x2:
			in.Kind = And
		case 0x3:
			in.Kind = Xor
		case 0x4:
			in.Kind = Add
		case 0x5:
			in.Kind = Sub
		case 0x6:
			in.Kind = ShiftRight
		case 0x7:
			in.Kind = SubReverse
		case 0xE:
			in.Kind = ShiftLeft
		default:
			return in, false
		}
	case 0x9:
		if in.N != 0 {
			return in, false
		}
		in.Kind = SkipNeReg
	case 0xA:
		in.Kind = SetIndex
	case 0xB:
		in.Kind = JumpV0
	case 0xC:
		in.Kind = Random
	case 0xD:
		in.Kind = Draw
	case 0xE:
		switch in.NN {
		case 0x9E:
			in.Kind = SkipKey
		case 0xA1:
			in.Kind = SkipNoKey
		default:
			return in, false
		}
	case 0xF:
		switch in.NN {
		case 0x07:
			in.Kind = GetDelay
		case 0x0A:
			in.Kind = WaitKey
		case 0x15:
			in.Kind = SetDelay
		case 0x18:
			in.Kind = SetSound
		case 0x1E:
			in.Kind = AddIndex
		case 0x29:
			in.Kind = SpriteChar
		case 0x33:
			in.Kind = StoreBCD
		case 0x55:
			in.Kind = StoreRegs
		case 0x65:
			in.Kind = LoadRegs
		default:
			return in, false
		}
	}
	return in, true
}

// String renders the instruction as a conventional CHIP-8 mnemonic,
// for diagnostics.
func (in Instr) String() string {
	switch in.Kind {
	case Clear:
		return "CLS"
	case Return:
		return "RET"
	case Jump:
		return fmt.Sprintf("JP %.3x", in.NNN)
	case Call:
		return fmt.Sprintf("CALL %.3x", in.NNN)
	case SkipEqImm:
		return fmt.Sprintf("SE V%X, %.2x", in.X, in.NN)
	case SkipNeImm:
		return fmt.Sprintf("SNE V%X, %.2x", in.X, in.NN)
	case SkipEqReg:
		return fmt.Sprintf("SE V%X, V%X", in.X, in.Y)
	case LoadImm:
		return fmt.Sprintf("LD V%X, %.2x", in.X, in.NN)
	case AddImm:
		return fmt.Sprintf("ADD V%X, %.2x", in.X, in.NN)
	case Move:
		return fmt.Sprintf("LD V%X, V%X", in.X, in.Y)
	case Or:
		return fmt.Sprintf("OR V%X, V%X", in.X, in.Y)
	case And:
		return fmt.Sprintf("AND V%X, V%X", in.X, in.Y)
	case Xor:
		return fmt.Sprintf("XOR V%X, V%X", in.X, in.Y)
	case Add:
		return fmt.Sprintf("ADD V%X, V%X", in.X, in.Y)
	case Sub:
		return fmt.Sprintf("SUB V%X, V%X", in.X, in.Y)
	case ShiftRight:
		return fmt.Sprintf("SHR V%X, V%X", in.X, in.Y)
	case SubReverse:
		return fmt.Sprintf("SUBN V%X, V%X", in.X, in.Y)
	case ShiftLeft:
		return fmt.Sprintf("SHL V%X, V%X", in.X, in.Y)
	case SkipNeReg:
		return fmt.Sprintf("SNE V%X, V%X", in.X, in.Y)
	case SetIndex:
		return fmt.Sprintf("LD I, %.3x", in.NNN)
	case JumpV0:
		return fmt.Sprintf("JP V0, %.3x", in.NNN)
	case Random:
		return fmt.Sprintf("RND V%X, %.2x", in.X, in.NN)
	case Draw:
		return fmt.Sprintf("DRW V%X, V%X, %x", in.X, in.Y, in.N)
	case SkipKey:
		return fmt.Sprintf("SKP V%X", in.X)
	case SkipNoKey:
		return fmt.Sprintf("SKNP V%X", in.X)
	case GetDelay:
		return fmt.Sprintf("LD V%X, DT", in.X)
	case WaitKey:
		return fmt.Sprintf("LD V%X, K", in.X)
	case SetDelay:
		return fmt.Sprintf("LD DT, V%X", in.X)
	case SetSound:
		return fmt.Sprintf("LD ST, V%X", in.X)
	case AddIndex:
		return fmt.Sprintf("ADD I, V%X", in.X)
	case SpriteChar:
		return fmt.Sprintf("LD F, V%X", in.X)
	case StoreBCD:
		return fmt.Sprintf("LD B, V%X", in.X)
	case StoreRegs:
		return fmt.Sprintf("LD [I], V%X", in.X)
	case LoadRegs:
		return fmt.Sprintf("LD V%X, [I]", in.X)
	}
	return fmt.Sprintf("unknown (%d)", in.Kind)
}
