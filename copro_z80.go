// copro_z80.go - Z80 co-processor card: dual-latch host/slave protocol

package main

import "fmt"
import "os"

// Master (host-facing) latch bits, written by the host side.
const (
	coproCORESET = 0x01 // slave CPU held in reset while clear
	coproCONMI   = 0x02 // host asserts NMI to the slave
	coproCOIRQ   = 0x04 // host asserts IRQ to the slave
)

// Slave (co-processor-facing) latch bits, written by the slave side.
const (
	coproROMEN = 0x01 // EPROM visible below 0x8000
	coproMAINT = 0x02 // slave requests host attention (interrupt-to-host)
)

const coproRAMBankShift = 3
const coproRAMBankMask = 0x07 // slave latch bits [5:3] select one of eight 2K RAM banks

// defaultCoproTStates is the fixed per-call T-state budget given
// to the slave Z80 on every copro_z80.Run, matching z80copro.c's
// default of 37 T-states per host-side tick.
const defaultCoproTStates = 37

// Z80CoproCard models a Z80 co-processor daughter card communicating
// with its host through two independent 8-bit latches: masterbits
// (host -> card control/status) and latches (card -> host control,
// also selecting the visible RAM bank). Each latch holds only the data
// byte of a write; the address lines of the write are not captured.
// Both IRQ and NMI are injected
// as a level, not an edge: z80copro_run() re-asserts them on every
// call while the corresponding control bit remains set, which is
// coarser than the edge-triggered behavior of real hardware - this
// mirrors the original firmware's own simplification.
type Z80CoproCard struct {
	masterbits byte
	latches    byte

	rom []byte
	ram [8][2048]byte

	cpu    *CPU_Z80
	trace  bool
	tstate uint
}

func NewZ80CoproCard(rom []byte) *Z80CoproCard {
	card := &Z80CoproCard{rom: rom, tstate: defaultCoproTStates}
	card.cpu = NewCPU_Z80(card)
	return card
}

func (c *Z80CoproCard) Trace(on bool) { c.trace = on }

// SetTStates overrides the per-Run T-state budget; the default of
// 37 matches the reference firmware's tick granularity.
func (c *Z80CoproCard) SetTStates(n uint) { c.tstate = n }

func (c *Z80CoproCard) rambank() int {
	return int((c.latches >> coproRAMBankShift) & coproRAMBankMask)
}

// mdecode resolves a slave-side address: below 0x8000 with ROMEN set
// maps to the EPROM image (writes are rejected); everything else maps
// to the currently selected 2K RAM bank, mirrored across the 16-bit
// space.
func (c *Z80CoproCard) mdecode(addr uint16) (rom bool, bank int, offset int) {
	if addr < 0x8000 && c.latches&coproROMEN != 0 {
		return true, 0, int(addr) % len(c.rom)
	}
	return false, c.rambank(), int(addr) % len(c.ram[0])
}

// Read/Write/In/Out/Tick implement Z80Bus so the slave core can run
// against this card directly.
func (c *Z80CoproCard) Read(addr uint16) byte {
	isROM, bank, offset := c.mdecode(addr)
	if isROM {
		return c.rom[offset]
	}
	return c.ram[bank][offset]
}

func (c *Z80CoproCard) Write(addr uint16, value byte) {
	isROM, bank, offset := c.mdecode(addr)
	if isROM {
		if c.trace {
			fmt.Fprintf(os.Stderr, "copro: dropped write to EPROM at %04X\n", addr)
		}
		return
	}
	c.ram[bank][offset] = value
}

// In/Out on the slave side read the master latch and write the slave
// latch whatever the port number, mirroring z80copro.c's single-port
// protocol.
func (c *Z80CoproCard) In(port uint16) byte {
	return c.masterbits
}

func (c *Z80CoproCard) Out(port uint16, value byte) {
	c.latches = value
}

func (c *Z80CoproCard) Tick(cycles int) {}

// HostWrite is the host-side write to the master latch: it may hold
// the slave CPU in reset and asserts/deasserts NMI and IRQ lines.
func (c *Z80CoproCard) HostWrite(value byte) {
	c.masterbits = value
	if value&coproCORESET == 0 {
		c.cpu.Reset()
	}
	c.cpu.SetIRQLine(value&coproCOIRQ != 0)
	if value&coproCONMI != 0 {
		c.cpu.SetNMILine(true)
	} else {
		c.cpu.SetNMILine(false)
	}
}

// HostRead is the host-side read of the slave latch.
func (c *Z80CoproCard) HostRead() byte {
	return c.latches
}

// HostIntRaised reports whether the slave is asking for host
// attention via the MAINT bit.
func (c *Z80CoproCard) HostIntRaised() bool {
	return c.latches&coproMAINT != 0
}

// Run executes the slave CPU for the card's fixed T-state budget,
// unless it is held in reset.
func (c *Z80CoproCard) Run() {
	if c.masterbits&coproCORESET == 0 {
		return
	}
	if c.masterbits&coproCONMI != 0 {
		c.cpu.nmiPrev = false // present NMI as a fresh edge on every Run
	}
	budget := c.cpu.Cycles + uint64(c.tstate)
	for c.cpu.Running() && c.cpu.Cycles < budget {
		c.cpu.Step()
	}
}
