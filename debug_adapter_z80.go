// debug_adapter_z80.go - DebuggableCPU adapter for the Z80-family machines

package main

// z80Memory is the subset of Z80Bus a debug adapter needs to peek and
// poke guest memory without caring which machine's bank-switching
// scheme is behind it - every machine's bus adapter (linc80, n8vem2,
// smallz80) already satisfies this.
type z80Memory interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// Z80DebugAdapter exposes a CPU_Z80 plus its memory through the
// DebuggableCPU interface, giving the monitor a uniform way to inspect
// registers, set breakpoints/watchpoints, and single-step regardless of
// which machine the core is wired into.
type Z80DebugAdapter struct {
	cpu *CPU_Z80
	mem z80Memory

	breakpoints map[uint64]*ConditionalBreakpoint
	watchpoints map[uint64]*Watchpoint

	bpChan chan<- BreakpointEvent
	cpuID  int
}

func NewZ80DebugAdapter(cpu *CPU_Z80, mem z80Memory) *Z80DebugAdapter {
	return &Z80DebugAdapter{
		cpu:         cpu,
		mem:         mem,
		breakpoints: make(map[uint64]*ConditionalBreakpoint),
		watchpoints: make(map[uint64]*Watchpoint),
	}
}

func (a *Z80DebugAdapter) CPUName() string  { return "Z80" }
func (a *Z80DebugAdapter) AddressWidth() int { return 16 }

func (a *Z80DebugAdapter) GetRegisters() []RegisterInfo {
	c := a.cpu
	return []RegisterInfo{
		{Name: "A", BitWidth: 8, Value: uint64(c.A), Group: "general"},
		{Name: "F", BitWidth: 8, Value: uint64(c.F), Group: "flags"},
		{Name: "B", BitWidth: 8, Value: uint64(c.B), Group: "general"},
		{Name: "C", BitWidth: 8, Value: uint64(c.C), Group: "general"},
		{Name: "D", BitWidth: 8, Value: uint64(c.D), Group: "general"},
		{Name: "E", BitWidth: 8, Value: uint64(c.E), Group: "general"},
		{Name: "H", BitWidth: 8, Value: uint64(c.H), Group: "general"},
		{Name: "L", BitWidth: 8, Value: uint64(c.L), Group: "general"},
		{Name: "A'", BitWidth: 8, Value: uint64(c.A2), Group: "shadow"},
		{Name: "F'", BitWidth: 8, Value: uint64(c.F2), Group: "shadow"},
		{Name: "B'", BitWidth: 8, Value: uint64(c.B2), Group: "shadow"},
		{Name: "C'", BitWidth: 8, Value: uint64(c.C2), Group: "shadow"},
		{Name: "D'", BitWidth: 8, Value: uint64(c.D2), Group: "shadow"},
		{Name: "E'", BitWidth: 8, Value: uint64(c.E2), Group: "shadow"},
		{Name: "H'", BitWidth: 8, Value: uint64(c.H2), Group: "shadow"},
		{Name: "L'", BitWidth: 8, Value: uint64(c.L2), Group: "shadow"},
		{Name: "IX", BitWidth: 16, Value: uint64(c.IX), Group: "index"},
		{Name: "IY", BitWidth: 16, Value: uint64(c.IY), Group: "index"},
		{Name: "SP", BitWidth: 16, Value: uint64(c.SP), Group: "index"},
		{Name: "PC", BitWidth: 16, Value: uint64(c.PC), Group: "index"},
		{Name: "I", BitWidth: 8, Value: uint64(c.I), Group: "status"},
		{Name: "R", BitWidth: 8, Value: uint64(c.R), Group: "status"},
		{Name: "IM", BitWidth: 8, Value: uint64(c.IM), Group: "status"},
	}
}

func (a *Z80DebugAdapter) GetRegister(name string) (uint64, bool) {
	for _, r := range a.GetRegisters() {
		if r.Name == name {
			return r.Value, true
		}
	}
	return 0, false
}

func (a *Z80DebugAdapter) SetRegister(name string, value uint64) bool {
	c := a.cpu
	switch name {
	case "A":
		c.A = byte(value)
	case "F":
		c.F = byte(value)
	case "B":
		c.B = byte(value)
	case "C":
		c.C = byte(value)
	case "D":
		c.D = byte(value)
	case "E":
		c.E = byte(value)
	case "H":
		c.H = byte(value)
	case "L":
		c.L = byte(value)
	case "IX":
		c.IX = uint16(value)
	case "IY":
		c.IY = uint16(value)
	case "SP":
		c.SP = uint16(value)
	case "PC":
		c.PC = uint16(value)
	default:
		return false
	}
	return true
}

func (a *Z80DebugAdapter) GetPC() uint64    { return uint64(a.cpu.PC) }
func (a *Z80DebugAdapter) SetPC(addr uint64) { a.cpu.PC = uint16(addr) }

func (a *Z80DebugAdapter) IsRunning() bool { return a.cpu.Running() }
func (a *Z80DebugAdapter) Freeze()         { a.cpu.SetRunning(false) }
func (a *Z80DebugAdapter) Resume()         { a.cpu.SetRunning(true) }

// Step executes one instruction and reports the cycles it consumed,
// then fires any breakpoint whose address and condition now match.
func (a *Z80DebugAdapter) Step() int {
	before := a.cpu.Cycles
	a.cpu.Step()
	consumed := int(a.cpu.Cycles - before)

	if bp, ok := a.breakpoints[uint64(a.cpu.PC)]; ok {
		if bp.Condition == nil || evaluateConditionWithHitCount(bp.Condition, a, bp.HitCount) {
			bp.HitCount++
			if a.bpChan != nil {
				a.bpChan <- BreakpointEvent{CPUID: a.cpuID, Address: uint64(a.cpu.PC)}
			}
		}
	}
	return consumed
}

func (a *Z80DebugAdapter) readMem(addr uint64, size int) []byte {
	buf := make([]byte, size)
	for i := 0; i < size; i++ {
		buf[i] = a.mem.Read(uint16(addr) + uint16(i))
	}
	return buf
}

func (a *Z80DebugAdapter) Disassemble(addr uint64, count int) []DisassembledLine {
	return disassembleZ80(a.readMem, addr, count)
}

func (a *Z80DebugAdapter) SetBreakpoint(addr uint64) bool {
	return a.SetConditionalBreakpoint(addr, nil)
}

func (a *Z80DebugAdapter) SetConditionalBreakpoint(addr uint64, cond *BreakpointCondition) bool {
	a.breakpoints[addr] = &ConditionalBreakpoint{Address: addr, Condition: cond}
	return true
}

func (a *Z80DebugAdapter) ClearBreakpoint(addr uint64) bool {
	if _, ok := a.breakpoints[addr]; !ok {
		return false
	}
	delete(a.breakpoints, addr)
	return true
}

func (a *Z80DebugAdapter) ClearAllBreakpoints() {
	a.breakpoints = make(map[uint64]*ConditionalBreakpoint)
}

func (a *Z80DebugAdapter) ListBreakpoints() []uint64 {
	addrs := make([]uint64, 0, len(a.breakpoints))
	for addr := range a.breakpoints {
		addrs = append(addrs, addr)
	}
	return addrs
}

func (a *Z80DebugAdapter) ListConditionalBreakpoints() []*ConditionalBreakpoint {
	bps := make([]*ConditionalBreakpoint, 0, len(a.breakpoints))
	for _, bp := range a.breakpoints {
		bps = append(bps, bp)
	}
	return bps
}

func (a *Z80DebugAdapter) HasBreakpoint(addr uint64) bool {
	_, ok := a.breakpoints[addr]
	return ok
}

func (a *Z80DebugAdapter) GetConditionalBreakpoint(addr uint64) *ConditionalBreakpoint {
	return a.breakpoints[addr]
}

func (a *Z80DebugAdapter) SetWatchpoint(addr uint64) bool {
	a.watchpoints[addr] = &Watchpoint{Type: WatchWrite, Address: addr, LastValue: a.mem.Read(uint16(addr))}
	return true
}

func (a *Z80DebugAdapter) ClearWatchpoint(addr uint64) bool {
	if _, ok := a.watchpoints[addr]; !ok {
		return false
	}
	delete(a.watchpoints, addr)
	return true
}

func (a *Z80DebugAdapter) ClearAllWatchpoints() {
	a.watchpoints = make(map[uint64]*Watchpoint)
}

func (a *Z80DebugAdapter) ListWatchpoints() []uint64 {
	addrs := make([]uint64, 0, len(a.watchpoints))
	for addr := range a.watchpoints {
		addrs = append(addrs, addr)
	}
	return addrs
}

func (a *Z80DebugAdapter) ReadMemory(addr uint64, size int) []byte {
	return a.readMem(addr, size)
}

func (a *Z80DebugAdapter) WriteMemory(addr uint64, data []byte) {
	for i, b := range data {
		a.mem.Write(uint16(addr)+uint16(i), b)
	}
}

func (a *Z80DebugAdapter) SetBreakpointChannel(ch chan<- BreakpointEvent, cpuID int) {
	a.bpChan = ch
	a.cpuID = cpuID
}
