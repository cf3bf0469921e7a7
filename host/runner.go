// Package host drives a chip8.Machine on behalf of a program: it owns
// the tick cadence, the window and keypad mapping, and the debugger
// control surface. The machine itself never blocks or sleeps; all
// pacing lives here.
package host

import (
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/dyatelok/chip8/chip8"
)

// TicksPerSecond is the nominal tick cadence. Each tick runs a batch of
// instructions and decays the machine timers exactly once, however
// large the batch is.
const TicksPerSecond = 60

// DefaultIPF is the default number of instructions executed per tick.
const DefaultIPF = 12

// StateKind describes why the Runner reported machine state.
type StateKind int

const (
	ClearState StateKind = iota // resumed; clear any stopped banner
	StepState                   // stopped after a single instruction
	PauseState                  // stopped by the pause command
	BreakState                  // stopped at a breakpoint
	HaltState                   // stopped by a fault
)

// A StateFunc receives machine state reports from the Runner. It is
// called on the Runner's goroutine and must not retain m.
type StateFunc func(m *chip8.Machine, k StateKind)

// Config carries the host parameters fixed for the life of a Runner.
type Config struct {
	GUI    bool
	Dev    bool // stay resident after a fault, awaiting a swap
	IPF    int
	Quirks chip8.Quirks
	State  StateFunc

	// Output receives the final display dump in headless mode.
	// If nil, os.Stdout is used.
	Output io.Writer
}

// Runner executes a machine until it faults or the host shuts it down.
type Runner struct {
	cfg Config
	rom []byte

	swap  chan []byte
	debug chan debugCmd
	quit  chan struct{}
	done  chan struct{}

	quitOnce sync.Once
}

type debugCmd struct {
	cmd  string
	addr uint16
}

func NewRunner(cfg Config) *Runner {
	if cfg.IPF <= 0 {
		cfg.IPF = DefaultIPF
	}
	return &Runner{
		cfg:   cfg,
		swap:  make(chan []byte),
		debug: make(chan debugCmd),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Swap replaces the running program with rom, resetting the machine.
func (r *Runner) Swap(rom []byte) {
	select {
	case r.swap <- rom:
	case <-r.done:
	}
}

// Debug executes a debugger command: "pause", "step", "cont", "reset",
// "break" (addr 0 clears the breakpoint), or "halt".
func (r *Runner) Debug(cmd string, addr uint16) {
	if cmd == "halt" || cmd == "exit" {
		r.quitOnce.Do(func() { close(r.quit) })
		return
	}
	select {
	case r.debug <- debugCmd{cmd, addr}:
	case <-r.done:
	}
}

// Run loads rom into a fresh machine and drives it until it halts, the
// window is closed, or the "halt" command arrives. With the GUI enabled
// it must be called from the main goroutine.
func (r *Runner) Run(rom []byte) error {
	m, err := chip8.NewMachine(rom, r.cfg.Quirks)
	if err != nil {
		return err
	}
	r.rom = rom
	if !r.cfg.GUI {
		return r.loop(m, nil)
	}

	g := newGUI(r)
	errc := make(chan error, 1)
	go func() { errc <- r.loop(m, g) }()

	ebiten.SetWindowSize(chip8.Width*windowScale, chip8.Height*windowScale)
	ebiten.SetWindowTitle("chip8")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	gerr := ebiten.RunGame(g)
	r.quitOnce.Do(func() { close(r.quit) })
	err = <-errc
	if gerr != nil && gerr != ebiten.Termination {
		return gerr
	}
	return err
}

// loop is the machine goroutine: the machine aggregate is owned here
// and mutated nowhere else. The GUI sees only frame snapshots; the
// debugger sees state only via synchronous StateFunc calls.
func (r *Runner) loop(m *chip8.Machine, g *gui) error {
	defer close(r.done)

	var (
		tick   <-chan time.Time
		events <-chan []chip8.KeyEvent
	)
	if g != nil {
		events = g.events
	} else {
		t := time.NewTicker(time.Second / TicksPerSecond)
		defer t.Stop()
		tick = t.C

		out := r.cfg.Output
		if out == nil {
			out = os.Stdout
		}
		defer func() { io.WriteString(out, Text(&m.Screen)) }()
	}

	var (
		paused  bool
		haltErr error
		brk     = -1
	)
	report := func(k StateKind) {
		if r.cfg.State != nil {
			r.cfg.State(m, k)
		}
	}
	halt := func(err error) {
		haltErr = err
		log.Printf("chip8: %v", err)
		report(HaltState)
	}
	runTick := func(ev []chip8.KeyEvent) {
		m.TickInput(ev)
		for i := 0; i < r.cfg.IPF; i++ {
			if brk >= 0 && int(m.PC) == brk {
				paused = true
				report(BreakState)
				return
			}
			if err := m.Exec(); err != nil {
				halt(err)
				return
			}
			if m.Waiting {
				break
			}
		}
		m.DecayTimers()
	}
	reset := func(rom []byte) {
		nm, err := chip8.NewMachine(rom, r.cfg.Quirks)
		if err != nil {
			log.Printf("reset: %v", err)
			return
		}
		m = nm
		r.rom = rom
		haltErr = nil
		paused = false
		report(ClearState)
	}

	for {
		select {
		case <-r.quit:
			return haltErr

		case rom := <-r.swap:
			reset(rom)

		case c := <-r.debug:
			switch c.cmd {
			case "pause", "p":
				paused = true
				report(PauseState)
			case "cont", "c":
				paused = false
				report(ClearState)
			case "step", "s":
				if haltErr != nil {
					break
				}
				paused = true
				if err := m.Exec(); err != nil {
					halt(err)
				} else {
					report(StepState)
				}
			case "break", "b":
				if c.addr == 0 {
					brk = -1
				} else {
					brk = int(c.addr)
				}
			case "reset", "r":
				reset(r.rom)
			default:
				log.Printf("unknown command %q", c.cmd)
			}

		case ev := <-events:
			fatal := false
			if !paused && haltErr == nil {
				runTick(ev)
				fatal = haltErr != nil && !r.cfg.Dev
			}
			g.frames <- render(&m.Screen)
			if fatal {
				return haltErr
			}

		case <-tick:
			if paused || haltErr != nil {
				break
			}
			runTick(nil)
			if haltErr != nil && !r.cfg.Dev {
				return haltErr
			}
		}
	}
}
