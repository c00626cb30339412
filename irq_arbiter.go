// irq_arbiter.go - Z80 IM2 daisy-chain interrupt arbiter

package main

import (
	"fmt"
	"os"
)

// IRQSourceID names a position in the hardware daisy chain. Order
// matters: it is also priority order, highest first.
type IRQSourceID int

const (
	SourceSIOA IRQSourceID = iota
	SourceSIOB
	SourceCTC0
	SourceCTC1
	SourceCTC2
	SourceCTC3
	SourcePIO
	irqSourceCount
)

// IRQSource is implemented by any peripheral wired into the daisy
// chain. Pending/Enabled are queried during arbitration; Vector is
// read once, when the source is elected live; Ack runs when the
// source's outstanding interrupt is unwound by RETI.
type IRQSource interface {
	Enabled() bool
	Pending() bool
	Vector() byte
	Ack()
}

// IRQArbiter tracks pending sources across the SIO/CTC/PIO daisy
// chain and delivers IM2 vectors to a single Z80 core. At most one
// source is "live" - acknowledged by the CPU but not yet unwound by
// RETI - at a time, matching the real hardware's priority-encoded
// interrupt acknowledge daisy chain.
type IRQArbiter struct {
	sources [irqSourceCount]IRQSource
	liveIdx int // -1 when no source is currently live

	cpu   *CPU_Z80
	trace bool
}

// NewIRQArbiter installs itself as the Z80 core's RETI hook so it can
// re-arbitrate the chain the moment an interrupt handler returns - the
// sanctioned fallback for RETI detection when the bus cannot expose a
// true M1 signal.
func NewIRQArbiter(cpu *CPU_Z80) *IRQArbiter {
	a := &IRQArbiter{liveIdx: -1, cpu: cpu}
	cpu.SetRETIHook(a.onRETI)
	return a
}

func (a *IRQArbiter) Trace(on bool) { a.trace = on }

// Attach wires a peripheral into the chain at the given priority slot.
func (a *IRQArbiter) Attach(id IRQSourceID, src IRQSource) {
	a.sources[id] = src
}

// Raise re-runs arbitration; peripherals call it after setting their
// own pending flag under an enabled cause mask. It is a no-op while a
// source is already live, since IM2 only accepts one outstanding
// interrupt at a time per the daisy chain's priority-acknowledge wiring.
func (a *IRQArbiter) Raise() {
	a.arbitrate()
}

func (a *IRQArbiter) arbitrate() {
	if a.liveIdx != -1 {
		return
	}
	for i := IRQSourceID(0); i < irqSourceCount; i++ {
		src := a.sources[i]
		if src == nil || !src.Enabled() || !src.Pending() {
			continue
		}
		a.liveIdx = int(i)
		vector := src.Vector()
		a.cpu.SetIRQVector(vector)
		a.cpu.SetIRQLine(true)
		if a.trace {
			fmt.Fprintf(os.Stderr, "irq: source %d elected, vector %02X\n", i, vector)
		}
		return
	}
	a.cpu.SetIRQLine(false)
}

// onRETI is invoked from CPU_Z80.opRETI after the return executes. It
// acknowledges the live source, clears the live slot, and re-arbitrates
// so the next pending source (if any) is delivered immediately.
func (a *IRQArbiter) onRETI() {
	if a.liveIdx == -1 {
		if a.trace {
			fmt.Fprintln(os.Stderr, "irq: RETI observed with no live source")
		}
		return
	}
	src := a.sources[a.liveIdx]
	a.liveIdx = -1
	src.Ack()
	a.cpu.SetIRQLine(false)
	a.arbitrate()
}

// LiveSource reports which source, if any, currently holds the live
// slot - used by tests and debug tooling.
func (a *IRQArbiter) LiveSource() (IRQSourceID, bool) {
	if a.liveIdx == -1 {
		return 0, false
	}
	return IRQSourceID(a.liveIdx), true
}
