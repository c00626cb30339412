// machine_scmp2.go - minimal NS8060 (SC/MP) machine: BASIC ROM + flat RAM

package main

// Scmp2Machine wires an NS8060 interpreter to a 64K flat address space
// with the low 4K write-protected (the NIBL BASIC/spare ROM region);
// writes there are a hard fault rather than a silent drop, matching
// the original's aggressive "ROM modify check" debugging aid.
type Scmp2Machine struct {
	CPU *CPU_NS8060
	Bus *Bus

	senseA, senseB bool
	flags          [4]bool // index 1-3 used, 0 unused
	serialBit      bool
	serialTx       func(bool)
}

const scmp2ROMSize = 0x1000

func NewScmp2Machine(rom []byte) *Scmp2Machine {
	m := &Scmp2Machine{Bus: NewBus()}
	m.Bus.SetROMWriteFatal(true)

	romBank := NewBank("rom", 0, scmp2ROMSize)
	n := copy(romBank.Backing, rom)
	_ = n
	romBank.SetPermission(true, false)
	m.Bus.AddBank(romBank)

	ram := NewBank("ram", scmp2ROMSize, 0x10000-scmp2ROMSize)
	m.Bus.AddBank(ram)

	m.CPU = NewCPU_NS8060(&scmp2BusAdapter{m: m})
	return m
}

func (m *Scmp2Machine) Trace(on bool) {
	m.Bus.Trace(on)
	m.CPU.Trace(on)
}

// SetSenseInputs pins the live level of the two sense lines (front
// panel switches on the real hardware).
func (m *Scmp2Machine) SetSenseInputs(a, b bool) {
	m.senseA, m.senseB = a, b
}

// SetSerialSink installs the host hook invoked every time firmware
// shifts a bit out through the single-bit SIO port.
func (m *Scmp2Machine) SetSerialSink(fn func(bool)) {
	m.serialTx = fn
}

type scmp2BusAdapter struct{ m *Scmp2Machine }

func (a *scmp2BusAdapter) Read(addr uint16, kind AccessKind) byte {
	return a.m.Bus.Read(uint32(addr), kind)
}
func (a *scmp2BusAdapter) Write(addr uint16, value byte) {
	a.m.Bus.Write(uint32(addr), value)
}
func (a *scmp2BusAdapter) SenseA() bool { return a.m.senseA }
func (a *scmp2BusAdapter) SenseB() bool { return a.m.senseB }
func (a *scmp2BusAdapter) SetFlag(n int, on bool) {
	if n >= 1 && n <= 3 {
		a.m.flags[n] = on
	}
}
func (a *scmp2BusAdapter) SerialOut(bit bool) {
	a.m.serialBit = bit
	if a.m.serialTx != nil {
		a.m.serialTx(bit)
	}
}
func (a *scmp2BusAdapter) SerialIn() bool { return a.m.serialBit }

// Run executes NS8060 instructions until at least n cycles have been
// consumed or the CPU halts, and returns cycles consumed.
func (m *Scmp2Machine) Run(n uint64) uint64 { return m.CPU.Run(n) }

// RunSlice is Run under the name the host loop drives every machine by.
func (m *Scmp2Machine) RunSlice(n uint64) uint64 { return m.CPU.Run(n) }

func (m *Scmp2Machine) Halted() bool { return m.CPU.Halted() }
