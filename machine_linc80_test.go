package main

import "testing"

func TestLinc80MemControlTogglesROMVisibility(t *testing.T) {
	rom := make([]byte, 0x4000)
	rom[0] = 0xAA
	m := NewLinc80Machine(rom, nil)
	adapter := &linc80BusAdapter{m: m}

	if got := adapter.Read(0); got != 0xAA {
		t.Fatalf("ROM not visible at reset: got %02X", got)
	}

	adapter.Write(0, 0x55) // dropped: ROM overlay shadows the RAM beneath
	if got := adapter.Read(0); got != 0xAA {
		t.Fatalf("write while ROM overlaid should be dropped, got %02X", got)
	}

	adapter.Out(linc80MemCtrl, 0x01) // romdis
	adapter.Write(0, 0x55)
	if got := adapter.Read(0); got != 0x55 {
		t.Fatalf("RAM should be writable once ROM disabled, got %02X", got)
	}
}

func TestLinc80SIOWriteRaisesArbitratedIRQ(t *testing.T) {
	m := NewLinc80Machine(make([]byte, 0x4000), nil)
	adapter := &linc80BusAdapter{m: m}

	adapter.Out(linc80SIOBase+1, 0x01) // WR0: select WR1
	adapter.Out(linc80SIOBase+1, 0x18) // WR1: enable RX interrupt on all chars
	m.SIO.A.Receive('x')
	m.IRQ.Raise()

	if _, ok := m.IRQ.LiveSource(); !ok {
		t.Fatalf("SIO channel A pending interrupt should be live after Raise")
	}
}

func TestLinc80CTCTimeConstantSequencing(t *testing.T) {
	m := NewLinc80Machine(make([]byte, 0x4000), nil)
	adapter := &linc80BusAdapter{m: m}

	adapter.Out(linc80CTCBase, 0x87) // control word: interrupt, timer mode, TC follows, reset, control
	adapter.Out(linc80CTCBase, 0x01) // time constant
	if !m.CTC.Ch[0].started {
		t.Fatalf("channel 0 should be started after its time constant arrives")
	}
}
