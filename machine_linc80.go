// machine_linc80.go - LincC80: Z80 with a full IM2 SIO/CTC/PIO daisy chain

package main

// Linc80Machine wires a Z80 interpreter to 64K of paged memory (a
// 16K ROM window bankable out via the memory-control port, mirroring
// romdis/romsel/ramsel in the original) plus the Zilog SIO/CTC/PIO
// trio on their documented ports, arbitrated through the IM2 daisy
// chain, and a co-processor card attached on a spare port.
type Linc80Machine struct {
	CPU  *CPU_Z80
	Bus  *Bus
	SIO  *SIOZ80
	CTC  *CTCZ80
	PIO  *PIOZ80
	IRQ  *IRQArbiter
	Copro *Z80CoproCard

	rom    []byte // fixed 16K boot ROM, overlaid on RAM below 0x4000
	romdis bool

	ctcAwaitingTC [4]bool
}

const (
	linc80SIOBase  = 0x00
	linc80CTCBase  = 0x08
	linc80PIOBase  = 0x18
	linc80MemCtrl  = 0x38
	linc80CoproLat = 0x40
)

func NewLinc80Machine(rom []byte, coproROM []byte) *Linc80Machine {
	m := &Linc80Machine{
		Bus: NewBus(),
		SIO: NewSIOZ80(),
		CTC: NewCTCZ80(),
		PIO: NewPIOZ80(),
	}

	m.rom = make([]byte, 0x4000)
	copy(m.rom, rom)
	ram := NewBank("ram", 0, 0x10000)
	m.Bus.AddBank(ram)

	m.CPU = NewCPU_Z80(&linc80BusAdapter{m: m})
	m.IRQ = NewIRQArbiter(m.CPU)
	m.IRQ.Attach(SourceSIOA, m.SIO.A)
	m.IRQ.Attach(SourceSIOB, m.SIO.B)
	m.IRQ.Attach(SourceCTC0, m.CTC.Source(0))
	m.IRQ.Attach(SourceCTC1, m.CTC.Source(1))
	m.IRQ.Attach(SourceCTC2, m.CTC.Source(2))
	m.IRQ.Attach(SourceCTC3, m.CTC.Source(3))
	m.IRQ.Attach(SourcePIO, m.PIO.A)

	if len(coproROM) > 0 {
		m.Copro = NewZ80CoproCard(coproROM)
	}
	return m
}

func (m *Linc80Machine) Trace(on bool) {
	m.Bus.Trace(on)
	m.IRQ.Trace(on)
}

// setMemControl implements the romdis/ramsel toggle: bit 0 disables
// the boot ROM overlay, exposing RAM underneath at address 0.
func (m *Linc80Machine) setMemControl(value byte) {
	m.romdis = value&0x01 != 0
}

type linc80BusAdapter struct{ m *Linc80Machine }

func (a *linc80BusAdapter) Read(addr uint16) byte {
	m := a.m
	if !m.romdis && addr < 0x4000 {
		return m.rom[addr]
	}
	return m.Bus.Read(uint32(addr), AccessData)
}
func (a *linc80BusAdapter) Write(addr uint16, value byte) {
	m := a.m
	if !m.romdis && addr < 0x4000 {
		return // ROM overlay: writes to the shadowed RAM below are dropped
	}
	m.Bus.Write(uint32(addr), value)
}

func (a *linc80BusAdapter) In(port uint16) byte {
	m := a.m
	lo := byte(port) & 0xFF
	switch {
	case lo >= linc80SIOBase && lo < linc80SIOBase+4:
		sel := lo - linc80SIOBase
		if sel&1 == 0 {
			return m.SIO.IOReadData(sel&2 == 0)
		}
		return m.SIO.IOReadControl(sel&2 == 0)
	case lo >= linc80CTCBase && lo < linc80CTCBase+4:
		return 0 // CTC has no documented data read path used here
	case lo >= linc80PIOBase && lo < linc80PIOBase+4:
		if lo-linc80PIOBase < 2 {
			return m.PIO.A.ReadData()
		}
		return m.PIO.B.ReadData()
	case lo == linc80CoproLat && m.Copro != nil:
		return m.Copro.HostRead()
	default:
		return floatingValue
	}
}

func (a *linc80BusAdapter) Out(port uint16, value byte) {
	m := a.m
	lo := byte(port) & 0xFF
	switch {
	case lo >= linc80SIOBase && lo < linc80SIOBase+4:
		sel := lo - linc80SIOBase
		if sel&1 == 0 {
			m.SIO.IOWriteData(sel&2 == 0, value)
		} else {
			m.SIO.IOWriteControl(sel&2 == 0, value)
		}
		m.IRQ.Raise()
	case lo >= linc80CTCBase && lo < linc80CTCBase+4:
		idx := int(lo - linc80CTCBase)
		c := m.CTC.Ch[idx]
		switch {
		case m.ctcAwaitingTC[idx]:
			c.WriteTimeConstant(value)
			m.ctcAwaitingTC[idx] = false
		case value&ctcControl != 0:
			c.WriteControlOrVector(value, idx == 0)
			if value&ctcTimeConstantFollows != 0 {
				m.ctcAwaitingTC[idx] = true
			}
		default:
			c.WriteControlOrVector(value, idx == 0)
		}
		m.IRQ.Raise()
	case lo >= linc80PIOBase && lo < linc80PIOBase+4:
		sel := lo - linc80PIOBase
		if sel < 2 {
			if sel == 0 {
				m.PIO.A.WriteData(value)
			} else {
				m.PIO.A.WriteControl(value)
			}
		} else {
			if sel == 2 {
				m.PIO.B.WriteData(value)
			} else {
				m.PIO.B.WriteControl(value)
			}
		}
		m.IRQ.Raise()
	case lo == linc80MemCtrl:
		m.setMemControl(value)
	case lo == linc80CoproLat && m.Copro != nil:
		m.Copro.HostWrite(value)
	}
}

func (a *linc80BusAdapter) Tick(cycles int) {
	a.m.CTC.Tick(cycles)
	a.m.IRQ.Raise()
	if a.m.Copro != nil {
		a.m.Copro.Run()
	}
}

// Run executes up to n instructions, stopping early if the CPU halts.
func (m *Linc80Machine) Run(n int) {
	for i := 0; i < n && m.CPU.Running(); i++ {
		m.CPU.Step()
	}
}

// RunSlice executes up to n instructions and reports how many actually
// ran, for the host loop to drive any machine through one interface.
func (m *Linc80Machine) RunSlice(n uint64) uint64 {
	var ran uint64
	for ; ran < n && m.CPU.Running(); ran++ {
		m.CPU.Step()
	}
	return ran
}

func (m *Linc80Machine) Halted() bool { return !m.CPU.Running() }
