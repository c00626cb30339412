package main

import "testing"

func TestN8vem2ROMVisibleAtReset(t *testing.T) {
	rom := make([]byte, n8vem2BankSize)
	rom[0] = 0x76 // HALT
	m := NewN8vem2Machine(rom, nil)
	adapter := &n8vem2BusAdapter{m: m}

	if got := adapter.Read(0); got != 0x76 {
		t.Fatalf("ROM bank 0 not visible at reset: got %02X", got)
	}
}

func TestN8vem2RAMBankSubstitutionEscape(t *testing.T) {
	m := NewN8vem2Machine(make([]byte, n8vem2BankSize), nil)
	adapter := &n8vem2BusAdapter{m: m}

	adapter.Out(n8vem2ROMBankLo, 0x80) // bit 7 set: substitute RAM page 0 for the low window
	adapter.Write(0, 0xAB)
	if got := adapter.Read(0); got != 0xAB {
		t.Fatalf("RAM-substituted low window should be writable, got %02X", got)
	}

	adapter.Out(n8vem2ROMBankLo, 0x00) // back to ROM
	if got := adapter.Read(0); got == 0xAB {
		t.Fatalf("ROM should be visible again once substitution bit clears")
	}
}

func TestN8vem2HighBankSelection(t *testing.T) {
	m := NewN8vem2Machine(make([]byte, n8vem2BankSize), nil)
	adapter := &n8vem2BusAdapter{m: m}

	adapter.Out(n8vem2RAMBankLo, 0x02)
	adapter.Write(0x8000, 0x11)
	adapter.Out(n8vem2RAMBankLo, 0x03)
	adapter.Write(0x8000, 0x22)
	adapter.Out(n8vem2RAMBankLo, 0x02)
	if got := adapter.Read(0x8000); got != 0x11 {
		t.Fatalf("high window bank 2 should retain its own byte, got %02X", got)
	}
}

func TestN8vem2UARTRoundTrip(t *testing.T) {
	m := NewN8vem2Machine(make([]byte, n8vem2BankSize), nil)
	adapter := &n8vem2BusAdapter{m: m}

	var sent byte
	m.UART = NewUART16550(func(b byte) { sent = b })

	adapter.Out(n8vem2UARTBase+uartRegData, 0x58)
	if sent != 0x58 {
		t.Fatalf("UART tx byte = %02X, want 58", sent)
	}

	m.UART.Receive('Q')
	if got := adapter.In(n8vem2UARTBase + uartRegData); got != 'Q' {
		t.Fatalf("UART rx byte = %c, want Q", got)
	}
}

func TestN8vem2IDEAbsentReturnsFloating(t *testing.T) {
	m := NewN8vem2Machine(make([]byte, n8vem2BankSize), nil)
	adapter := &n8vem2BusAdapter{m: m}
	if got := adapter.In(n8vem2IDEBase); got != floatingValue {
		t.Fatalf("IDE-absent read = %02X, want floating %02X", got, floatingValue)
	}
}
