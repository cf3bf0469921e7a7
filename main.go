// Command chip8 executes CHIP-8 ROMs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/dyatelok/chip8/chip8"
	"github.com/dyatelok/chip8/host"
)

func main() {
	log.SetPrefix("chip8: ")
	log.SetFlags(0)

	var (
		cliFlag   = flag.Bool("cli", false, "disable GUI features")
		devFlag   = flag.Bool("dev", false, "enable developer mode (watch and hot-reload the ROM file)")
		debugFlag = flag.Bool("debug", false, "enable debugger (implies -dev)")
		ipfFlag   = flag.Int("ipf", host.DefaultIPF, "instructions to execute per 60Hz tick")

		vfResetFlag   = flag.Bool("quirk_vf_reset", false, "OR/AND/XOR also reset VF (COSMAC VIP)")
		indexFlag     = flag.Bool("quirk_index_overflow", false, "add-to-index sets VF when I moves past 0x0fff (Amiga)")
		shiftFlag     = flag.Bool("quirk_modern_shift", false, "shift instructions read VX instead of VY")
		loadStoreFlag = flag.Bool("quirk_modern_load_store", false, "register dump/load leave I unchanged")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-cli] <program.ch8>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [-cli] <-dev | -debug> <program.ch8>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}

	quirks := chip8.Quirks{
		VFReset:         *vfResetFlag,
		IndexOverflow:   *indexFlag,
		ModernShift:     *shiftFlag,
		ModernLoadStore: *loadStoreFlag,
	}

	if *devFlag || *debugFlag {
		if err := devMode(!*cliFlag, *debugFlag, flag.Arg(0), *ipfFlag, quirks); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err := run(flag.Arg(0), !*cliFlag, *ipfFlag, quirks)

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

func run(romFile string, guiEnabled bool, ipf int, quirks chip8.Quirks) error {
	rom, err := os.ReadFile(romFile)
	if err != nil {
		return err
	}
	r := host.NewRunner(host.Config{
		GUI:    guiEnabled,
		IPF:    ipf,
		Quirks: quirks,
	})
	return r.Run(rom)
}
