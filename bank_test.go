package main

import "testing"

func TestBankWriteDisabledIsIdempotent(t *testing.T) {
	backing := []byte{0xAA}
	bank := NewROMBank("rom", backing, 0)
	bus := NewBus()
	bus.AddBank(bank)

	before := bus.Read(0, AccessData)
	bus.Write(0, 0x55)
	after := bus.Read(0, AccessData)

	if before != after {
		t.Fatalf("read-after-write to ROM changed value: %02X -> %02X", before, after)
	}
	if after != 0xAA {
		t.Fatalf("got %02X, want 0xAA", after)
	}
}

func TestBankMostSpecificWins(t *testing.T) {
	wide := NewBank("ram", 0, 0x10000)
	narrow := NewBank("window", 0x2000, 0x100)
	bus := NewBus()
	bus.AddBank(wide)
	bus.AddBank(narrow)

	bus.Write(0x2000, 0x42)
	if got := narrow.Backing[0]; got != 0x42 {
		t.Fatalf("narrow bank did not receive the write: %02X", got)
	}
	if got := wide.Backing[0x2000]; got != 0 {
		t.Fatalf("wide bank should not have been written, got %02X", got)
	}
}

func TestBankPagePermissionGranularity(t *testing.T) {
	bank := NewBank("paged", 0, 0x400)
	bank.SetPagePermission(0x100, 0x100, true, false)

	bus := NewBus()
	bus.AddBank(bank)

	bus.Write(0x100, 0x11)
	if bus.Read(0x100, AccessData) != 0 {
		t.Fatalf("write-protected page accepted a write")
	}
	bus.Write(0x300, 0x22)
	if bus.Read(0x300, AccessData) != 0x22 {
		t.Fatalf("writable page rejected a write")
	}
}

func TestBusFloatingRead(t *testing.T) {
	bus := NewBus()
	if got := bus.Read(0x1234, AccessData); got != floatingValue {
		t.Fatalf("unmapped read = %02X, want %02X", got, floatingValue)
	}
}

func TestBusDeviceBeforeBank(t *testing.T) {
	bus := NewBus()
	bus.AddBank(NewBank("ram", 0, 0x10000))
	dev := &fakeMemDevice{value: 0x99}
	bus.MapDevice(0x8000, 0x10, dev)

	if got := bus.Read(0x8000, AccessData); got != 0x99 {
		t.Fatalf("device handler was not consulted first: %02X", got)
	}
}

type fakeMemDevice struct{ value byte }

func (d *fakeMemDevice) MemRead(addr uint32, kind AccessKind) byte { return d.value }
func (d *fakeMemDevice) MemWrite(addr uint32, value byte)          { d.value = value }

func TestBusIOUnaffectedByBankPermission(t *testing.T) {
	bus := NewBus()
	bus.AddBank(NewROMBank("rom", []byte{0}, 0))
	port := &fakePortDevice{}
	bus.MapPort(0x10, port)

	bus.IOWrite(0x10, 0x7)
	if bus.IORead(0x10) != 0x7 {
		t.Fatalf("port write/read roundtrip failed")
	}
}

type fakePortDevice struct{ v byte }

func (p *fakePortDevice) IORead(port uint16) byte   { return p.v }
func (p *fakePortDevice) IOWrite(port uint16, v byte) { p.v = v }
