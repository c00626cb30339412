package main

import "testing"

func TestCoproHeldInResetUntilCORESET(t *testing.T) {
	rom := []byte{0x00, 0x00}
	card := NewZ80CoproCard(rom)
	card.HostWrite(0) // CORESET clear
	before := card.cpu.Cycles
	card.Run()
	if card.cpu.Cycles != before {
		t.Fatalf("slave CPU ran while held in reset")
	}
}

func TestCoproRunsOnceCORESETAsserted(t *testing.T) {
	rom := []byte{0x00, 0x00, 0x00, 0x00}
	card := NewZ80CoproCard(rom)
	card.HostWrite(coproCORESET)
	card.Run()
	if card.cpu.Cycles == 0 {
		t.Fatalf("slave CPU did not run once released from reset")
	}
}

func TestCoproROMVisibleBelow0x8000WhenEnabled(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x10] = 0xAB
	card := NewZ80CoproCard(rom)
	card.latches = coproROMEN
	if got := card.Read(0x10); got != 0xAB {
		t.Fatalf("ROM read = %02X, want AB", got)
	}
	card.Write(0x10, 0xFF) // should be dropped
	if got := card.Read(0x10); got != 0xAB {
		t.Fatalf("write to EPROM was not dropped: now reads %02X", got)
	}
}

func TestCoproRAMBankSelection(t *testing.T) {
	rom := []byte{0}
	card := NewZ80CoproCard(rom)
	card.latches = 0 // ROMEN clear -> RAM everywhere
	card.latches |= byte(3) << coproRAMBankShift
	card.Write(0x1000, 0x42)
	if card.ram[3][0x1000%len(card.ram[3])] != 0x42 {
		t.Fatalf("write did not land in selected RAM bank 3")
	}
	card.latches = byte(4) << coproRAMBankShift
	if card.Read(0x1000) == 0x42 {
		t.Fatalf("bank switch should isolate the previous bank's data")
	}
}

func TestCoproHostWriteGatesNMIAndIRQ(t *testing.T) {
	card := NewZ80CoproCard([]byte{0})
	card.HostWrite(coproCORESET | coproCONMI | coproCOIRQ)
	if !card.cpu.nmiLine {
		t.Fatalf("CONMI should assert the slave's NMI line")
	}
	if !card.cpu.irqLine {
		t.Fatalf("COIRQ should assert the slave's IRQ line")
	}
	card.HostWrite(coproCORESET)
	if card.cpu.nmiLine || card.cpu.irqLine {
		t.Fatalf("clearing CONMI/COIRQ should deassert both lines")
	}
}

func TestCoproMAINTRaisesHostInterrupt(t *testing.T) {
	card := NewZ80CoproCard([]byte{0})
	if card.HostIntRaised() {
		t.Fatalf("MAINT should be clear initially")
	}
	card.latches = coproMAINT
	if !card.HostIntRaised() {
		t.Fatalf("MAINT bit should raise host interrupt")
	}
}
