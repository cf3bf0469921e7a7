package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/dyatelok/chip8/chip8"
	"github.com/dyatelok/chip8/host"
)

type debugger struct {
	run *host.Runner

	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	brk uint16

	mu      sync.Mutex
	watches []watch
}

// watch is a watched value: a V register when reg >= 0, a memory
// address otherwise.
type watch struct {
	addr uint16
	reg  int
}

func newDebugView() *debugger {
	d := &debugger{
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 4, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := d.input.GetText()
		if cmd == "" {
			return
		}
		d.input.SetText("")
		if cmd == "exit" {
			d.app.Stop()
			return
		}
		if cmd, arg, ok := strings.Cut(cmd, " "); ok {
			switch cmd {
			case "b", "break":
				addr, err := parseAddr(arg)
				if err != nil {
					log.Printf("invalid addr %q", arg)
					return
				}
				d.run.Debug(cmd, addr)
				d.brk = addr
				log.Printf("set break %.3x", addr)
				return
			case "w", "watch":
				w, err := parseWatch(arg)
				if err != nil {
					log.Printf("invalid watch %q", arg)
					return
				}
				d.mu.Lock()
				d.watches = append(d.watches, w)
				d.mu.Unlock()
				log.Printf("watching %s", arg)
				return
			}
		}
		d.run.Debug(cmd, 0)
		if cmd[0] == 'b' {
			d.brk = 0
			log.Print("cleared break")
		}
	})
	return d
}

// parseAddr parses a hexadecimal address, with or without an 0x prefix.
func parseAddr(s string) (uint16, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 12)
	return uint16(n), err
}

// parseWatch parses a watch target: a register name like v5, or a
// memory address.
func parseWatch(s string) (watch, error) {
	if len(s) == 2 && (s[0] == 'v' || s[0] == 'V') {
		n, err := strconv.ParseUint(s[1:], 16, 4)
		if err != nil {
			return watch{}, err
		}
		return watch{reg: int(n)}, nil
	}
	addr, err := parseAddr(s)
	if err != nil {
		return watch{}, err
	}
	return watch{addr: addr, reg: -1}, nil
}

func (d *debugger) Run() error { return d.app.Run() }

func (d *debugger) StateFunc(m *chip8.Machine, k host.StateKind) {
	var (
		watch = d.watchContent(m)
		state string
	)
	if k != host.ClearState {
		state = stateMsg(m, k)
	}
	d.app.QueueUpdateDraw(func() {
		switch k {
		case host.ClearState, host.StepState:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case host.BreakState:
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case host.PauseState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case host.HaltState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.watch.SetText(watch)
		if k != host.ClearState {
			d.state.SetText(state)
		}
	})
}

func stateMsg(m *chip8.Machine, k host.StateKind) string {
	// A fault can leave PC at the last byte of memory; there is no
	// whole word there to decode.
	mnem := "??"
	if int(m.PC)+1 < len(m.Mem) {
		word := uint16(m.Mem[m.PC])<<8 | uint16(m.Mem[m.PC+1])
		mnem = fmt.Sprintf("dw %.4x", word)
		if in, ok := chip8.Decode(word); ok {
			mnem = in.String()
		}
	}
	kind := "       "
	switch k {
	case host.StepState:
		kind = "[step ]"
	case host.BreakState:
		kind = "[break]"
	case host.PauseState:
		kind = "[pause]"
	case host.HaltState:
		kind = "[HALT!]"
	}
	var regs strings.Builder
	for i, v := range m.V {
		if i == 8 {
			regs.WriteByte('\n')
		} else if i > 0 {
			regs.WriteByte(' ')
		}
		fmt.Fprintf(&regs, "V%X:%.2x", i, v)
	}
	return fmt.Sprintf("%.3x %s %- 16s I:%.3x DT:%.2x ST:%.2x %v\n%s\n",
		m.PC, kind, mnem, m.I, m.Delay, m.Sound, m.Stack, regs.String())
}

func (d *debugger) watchContent(m *chip8.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	if d.brk != 0 {
		fmt.Fprintf(&b, "[%.3x] brk!\n", d.brk)
	}
	for _, w := range d.watches {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if w.reg >= 0 {
			fmt.Fprintf(&b, "V%X %.2x", w.reg, m.V[w.reg])
		} else {
			fmt.Fprintf(&b, "[%.3x] %.2x", w.addr, m.Mem[w.addr])
		}
	}
	return b.String()
}
