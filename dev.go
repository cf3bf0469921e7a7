package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/dyatelok/chip8/chip8"
	"github.com/dyatelok/chip8/host"
)

// devMode runs romFile and watches it for changes, hot-swapping the new
// image into the running machine. With debug enabled the tview debugger
// takes over the terminal and the runner stays resident across faults.
func devMode(gui, debug bool, romFile string, ipf int, quirks chip8.Quirks) error {
	romFile = filepath.Clean(romFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(romFile)); err != nil {
		return err
	}

	cfg := host.Config{GUI: gui, Dev: true, IPF: ipf, Quirks: quirks}
	var dbg *debugger
	if debug {
		dbg = newDebugView()
		cfg.State = dbg.StateFunc
	}
	runner := host.NewRunner(cfg)
	if debug {
		dbg.run = runner
		log.SetPrefix("")
		log.SetOutput(dbg.log)
		go func() {
			if err := dbg.Run(); err != nil {
				log.Fatalf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("chip8: ")
			runner.Debug("halt", 0)
		}()
	}

	romCh := make(chan []byte)
	go func() {
		started := false
		load := time.After(1 * time.Millisecond)
		for {
			select {
			case <-load:
				log.Printf("dev: load %s", filepath.Base(romFile))
				rom, err := os.ReadFile(romFile)
				if err != nil {
					log.Printf("dev: %v", err)
					break
				}
				if !started {
					log.Printf("dev: start")
					romCh <- rom
					started = true
				} else {
					log.Printf("dev: reset")
					runner.Swap(rom)
				}
			case ev := <-watcher.Event:
				if ev.Name == romFile && !ev.IsAttrib() {
					load = time.After(100 * time.Millisecond)
				}
			case err := <-watcher.Error:
				log.Printf("dev: watcher: %v", err)
			}
		}
	}()
	return runner.Run(<-romCh)
}
