package chip8

import (
	"fmt"
	"strings"
)

// Stack implements the CHIP-8 call stack: a bounded LIFO of return
// addresses, sixteen levels deep as on the original hardware.
type Stack struct {
	Addrs [16]uint16
	Ptr   byte
}

func (s *Stack) push(addr uint16) {
	if int(s.Ptr) == len(s.Addrs) {
		panic(StackOverflow)
	}
	s.Addrs[s.Ptr] = addr
	s.Ptr++
}

func (s *Stack) pop() uint16 {
	if s.Ptr == 0 {
		panic(StackUnderflow)
	}
	s.Ptr--
	return s.Addrs[s.Ptr]
}

// Depth returns the number of return addresses on the stack.
func (s *Stack) Depth() int { return int(s.Ptr) }

func (s Stack) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, a := range s.Addrs[:s.Ptr] {
		fmt.Fprintf(&b, " %.3x", a)
	}
	b.WriteString(" )")
	return b.String()
}
