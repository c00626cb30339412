// machine_smallz80.go - SmallZ80: Z80 with 32K banked RAM and a Tarbell WD1771 floppy

package main

// SmallZ80Machine wires a Z80 interpreter to a fixed 16K EEPROM
// (visible below 0x4000 unless the general-purpose register's top bit
// is set, mirroring gpreg's ROM-disable bit), a fixed 32K common RAM
// window at 0x8000-0xFFFF, a 16K RAM window at 0x4000-0x7FFF banked by
// the low nibble of gpreg, and (as a supplemented feature) a
// Tarbell-style WD1771 floppy controller on ports 0xF8-0xFB.
type SmallZ80Machine struct {
	CPU *CPU_Z80
	Bus *Bus
	FDC *WD1771

	eeprom    *Bank
	fixedRAM  *Bank
	banked    [16]*Bank
	gpreg     byte
}

const (
	smallZ80GPRegPort = 0xFE
	smallZ80FDCBase   = 0xF8
)

func NewSmallZ80Machine(eeprom []byte, disk []WD1771Track) *SmallZ80Machine {
	m := &SmallZ80Machine{Bus: NewBus()}

	back := make([]byte, 0x4000)
	copy(back, eeprom)
	m.eeprom = NewROMBank("eeprom", back, 0)

	m.fixedRAM = NewBankBacking("fixedram", make([]byte, 0x8000), 0x8000, 0x8000)

	for i := range m.banked {
		m.banked[i] = NewBankBacking("bankedram", make([]byte, 0x4000), 0x4000, 0x4000)
	}

	if disk != nil {
		m.FDC = NewWD1771(disk)
	}

	m.CPU = NewCPU_Z80(&smallZ80BusAdapter{m: m})
	return m
}

func (m *SmallZ80Machine) Trace(on bool) {
	m.Bus.Trace(on)
	if m.FDC != nil {
		m.FDC.Trace(on)
	}
}

func (m *SmallZ80Machine) romVisible() bool { return m.gpreg&0x80 == 0 }
func (m *SmallZ80Machine) curBank() *Bank   { return m.banked[m.gpreg&0x0F] }

type smallZ80BusAdapter struct{ m *SmallZ80Machine }

func (a *smallZ80BusAdapter) Read(addr uint16) byte {
	m := a.m
	switch {
	case m.romVisible() && addr < 0x4000:
		return m.eeprom.Backing[addr]
	case addr < 0x4000:
		return m.curBank().Backing[addr]
	case addr < 0x8000:
		return m.curBank().Backing[addr-0x4000]
	default:
		return m.fixedRAM.Backing[addr-0x8000]
	}
}

func (a *smallZ80BusAdapter) Write(addr uint16, value byte) {
	m := a.m
	switch {
	case m.romVisible() && addr < 0x4000:
		return // EEPROM write is out of scope; dropped like unwritable ROM
	case addr < 0x4000:
		m.curBank().Backing[addr] = value
	case addr < 0x8000:
		m.curBank().Backing[addr-0x4000] = value
	default:
		m.fixedRAM.Backing[addr-0x8000] = value
	}
}

func (a *smallZ80BusAdapter) In(port uint16) byte {
	m := a.m
	p := byte(port)
	if m.FDC != nil && p >= smallZ80FDCBase && p < smallZ80FDCBase+4 {
		switch p - smallZ80FDCBase {
		case 0:
			return m.FDC.ReadStatus()
		case 1:
			return m.FDC.ReadTrack()
		case 2:
			return m.FDC.ReadSector()
		case 3:
			return m.FDC.ReadData()
		}
	}
	if p == smallZ80GPRegPort {
		return m.gpreg
	}
	return floatingValue
}

func (a *smallZ80BusAdapter) Out(port uint16, value byte) {
	m := a.m
	p := byte(port)
	if m.FDC != nil && p >= smallZ80FDCBase && p < smallZ80FDCBase+4 {
		switch p - smallZ80FDCBase {
		case 0:
			m.FDC.WriteCommand(value)
		case 1:
			m.FDC.WriteTrack(value)
		case 2:
			m.FDC.WriteSector(value)
		case 3:
			m.FDC.WriteData(value)
		}
		return
	}
	if p == smallZ80GPRegPort {
		m.gpreg = value
	}
}

func (a *smallZ80BusAdapter) Tick(cycles int) {}

func (m *SmallZ80Machine) Run(n int) {
	for i := 0; i < n && m.CPU.Running(); i++ {
		m.CPU.Step()
	}
}

// RunSlice executes up to n instructions and reports how many actually
// ran, for the host loop to drive any machine through one interface.
func (m *SmallZ80Machine) RunSlice(n uint64) uint64 {
	var ran uint64
	for ; ran < n && m.CPU.Running(); ran++ {
		m.CPU.Step()
	}
	return ran
}

func (m *SmallZ80Machine) Halted() bool { return !m.CPU.Running() }
