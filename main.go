// main.go - thin demo entry point: boot one machine from a ROM image
// and drive it through HostLoop until it halts.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

// MachineConfig configures one machine run: which core to boot, what
// ROM/disk image to load, how fast to run it, and whether to expose a
// GDB listener.
type MachineConfig struct {
	Machine  string // "linc80", "n8vem2", "smallz80", "scelbi", "scmp2"
	ROMPath  string
	DiskPath string
	ClockHz  uint64
	SliceLen uint64
	GDBBind  string // empty disables the GDB listener
	Trace    bool
	Stats    bool
}

func parseFlags() MachineConfig {
	var cfg MachineConfig
	flag.StringVar(&cfg.Machine, "machine", "scelbi", "machine to run: linc80, n8vem2, smallz80, scelbi, scmp2")
	flag.StringVar(&cfg.ROMPath, "rom", "", "ROM/EEPROM image path (required for every machine but scelbi)")
	flag.StringVar(&cfg.DiskPath, "disk", "", "raw disk image path (n8vem2 IDE image, smallz80 floppy image)")
	flag.Uint64Var(&cfg.ClockHz, "clock", 4_000_000, "nominal clock rate in Hz, informational only")
	flag.Uint64Var(&cfg.SliceLen, "slice", 1000, "instructions (cycles, for 8008/NS8060) per host loop slice")
	flag.StringVar(&cfg.GDBBind, "gdb", "", "GDB remote bind address (host:port, bare port, or 0:port); empty disables the listener")
	flag.BoolVar(&cfg.Trace, "trace", false, "enable per-component Trace(true) tracing to stderr")
	flag.BoolVar(&cfg.Stats, "stats", false, "print live cycle-rate stats when stderr is a terminal")
	showVersion := flag.Bool("version", false, "print version and compiled features, then exit")
	flag.Parse()
	if *showVersion {
		printFeatures()
		os.Exit(0)
	}
	return cfg
}

func buildMachine(cfg MachineConfig) (Runner, error) {
	var rom []byte
	if cfg.ROMPath != "" {
		data, err := os.ReadFile(cfg.ROMPath)
		if err != nil {
			return nil, fmt.Errorf("reading ROM %q: %w", cfg.ROMPath, err)
		}
		rom = data
	}

	switch cfg.Machine {
	case "linc80":
		m := NewLinc80Machine(rom, nil)
		m.Trace(cfg.Trace)
		return m, nil

	case "n8vem2":
		var disk []byte
		if cfg.DiskPath != "" {
			d, err := os.ReadFile(cfg.DiskPath)
			if err != nil {
				return nil, fmt.Errorf("reading IDE image %q: %w", cfg.DiskPath, err)
			}
			disk = d
		}
		m := NewN8vem2Machine(rom, disk)
		m.Trace(cfg.Trace)
		return m, nil

	case "smallz80":
		var disk []WD1771Track
		if cfg.DiskPath != "" {
			d, err := loadWD1771Image(cfg.DiskPath)
			if err != nil {
				return nil, err
			}
			disk = d
		}
		m := NewSmallZ80Machine(rom, disk)
		m.Trace(cfg.Trace)
		return m, nil

	case "scelbi":
		m := NewScelbiMachine(rom)
		m.Trace(cfg.Trace)
		return m, nil

	case "scmp2":
		m := NewScmp2Machine(rom)
		m.Trace(cfg.Trace)
		return m, nil

	default:
		return nil, fmt.Errorf("unknown machine %q (want linc80, n8vem2, smallz80, scelbi, or scmp2)", cfg.Machine)
	}
}

// loadWD1771Image splits a raw disk image into fixed-size tracks,
// zero-padding a short final sector or track.
func loadWD1771Image(path string) ([]WD1771Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading floppy image %q: %w", path, err)
	}
	const trackBytes = wdSectorsPerTrack * wdSectorSize
	n := (len(data) + trackBytes - 1) / trackBytes
	tracks := make([]WD1771Track, n)
	for i := 0; i < n; i++ {
		var t WD1771Track
		for s := 0; s < wdSectorsPerTrack; s++ {
			lo := i*trackBytes + s*wdSectorSize
			if lo >= len(data) {
				break
			}
			hi := lo + wdSectorSize
			if hi > len(data) {
				hi = len(data)
			}
			copy(t[s][:], data[lo:hi])
		}
		tracks[i] = t
	}
	return tracks, nil
}

func defaultPacketHandler(body string) (string, bool) {
	return "", false // the command/response body is out of scope; every request is "unsupported"
}

func main() {
	cfg := parseFlags()

	machine, err := buildMachine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	loop := &HostLoop{Machine: machine, SliceSize: cfg.SliceLen, Stats: cfg.Stats}

	if cfg.GDBBind != "" {
		stub, err := NewGDBStub(cfg.GDBBind, defaultPacketHandler)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		stub.Trace(cfg.Trace)
		defer stub.Close()
		loop.GDB = stub
		fmt.Fprintf(os.Stderr, "ievm: GDB stub listening on %s\n", stub.Addr())
	}

	fmt.Fprintf(os.Stderr, "ievm: running %s at %d Hz, slice %d\n", cfg.Machine, cfg.ClockHz, cfg.SliceLen)
	if err := loop.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
