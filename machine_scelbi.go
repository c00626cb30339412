// machine_scelbi.go - SCELBI-8H/8B: 8008 CPU, 16K SRAM, bit-banged serial, AM9511 FPU

package main

import "fmt"

// ScelbiMachine wires an 8008 interpreter to a 16K flat RAM bus (the
// real SCELBI-8H/8B carries no ROM - firmware is toggled in via the
// front panel) with a bit-banged serial port on I/O 005/016 and, as a
// supplemented peripheral, an AMD 9511 FPU card on ports 006
// (status/command) and 027 (operand data).
type ScelbiMachine struct {
	CPU *CPU_8008
	Bus *Bus
	FPU *AM9511

	serialTx func(byte)
	serialIn func() byte
}

// Port numbers: the 8008's IN opcode only addresses 3 bits (ports 0-7),
// so every port read back via In() must fit that range, while the OUT
// opcodes address ports 8-31 (octal 010-037).
const (
	scelbiSerialOutPort = 0o16
	scelbiSerialInPort  = 0o5
	scelbiFPUCmdPort    = 0o6 // also doubles as the status read port
	scelbiFPUDataPort   = 0o27
)

func NewScelbiMachine(romless []byte) *ScelbiMachine {
	m := &ScelbiMachine{
		Bus: NewBus(),
		FPU: NewAM9511(),
	}
	ram := NewBank("ram", 0, 16384)
	if len(romless) > 0 {
		n := copy(ram.Backing, romless)
		_ = n
	}
	m.Bus.AddBank(ram)
	m.CPU = NewCPU_8008(&scelbiBusAdapter{m: m})
	return m
}

// SetSerial installs the host-facing transmit/receive hooks for the
// bit-banged serial port (tx is called per output byte; rx is polled
// for the next input byte, 0 meaning "nothing pending").
func (m *ScelbiMachine) SetSerial(tx func(byte), rx func() byte) {
	m.serialTx = tx
	m.serialIn = rx
}

func (m *ScelbiMachine) Trace(on bool) {
	m.Bus.Trace(on)
	m.CPU.Trace(on)
}

type scelbiBusAdapter struct{ m *ScelbiMachine }

func (a *scelbiBusAdapter) Read(addr uint16, kind AccessKind) byte {
	return a.m.Bus.Read(uint32(addr)&0x3FFF, kind)
}
func (a *scelbiBusAdapter) Write(addr uint16, value byte) {
	a.m.Bus.Write(uint32(addr)&0x3FFF, value)
}

func (a *scelbiBusAdapter) In(port byte) byte {
	switch port {
	case scelbiSerialInPort:
		if a.m.serialIn != nil {
			return a.m.serialIn()
		}
		return 0
	case scelbiFPUCmdPort:
		return a.m.FPU.ReadStatus()
	default:
		return floatingValue
	}
}

func (a *scelbiBusAdapter) Out(port byte, value byte) {
	switch port {
	case scelbiSerialOutPort:
		if a.m.serialTx != nil {
			a.m.serialTx(value)
		}
	case scelbiFPUCmdPort:
		a.m.FPU.WriteCommand(value)
	case scelbiFPUDataPort:
		a.m.FPU.PushOperand(float64(value))
	default:
		if a.m.Bus.trace {
			fmt.Printf("scelbi: unhandled OUT %02o <- %02X\n", port, value)
		}
	}
}

// Run executes 8008 instructions until at least n cycles have been
// consumed or the CPU halts, and returns the number of cycles consumed,
// matching the CPU's own Run semantics.
func (m *ScelbiMachine) Run(n uint64) uint64 { return m.CPU.Run(n) }

// RunSlice is Run under the name the host loop drives every machine by.
func (m *ScelbiMachine) RunSlice(n uint64) uint64 { return m.CPU.Run(n) }

func (m *ScelbiMachine) Halted() bool { return m.CPU.Halted() }
