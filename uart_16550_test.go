package main

import "testing"

func TestUARTDLABGatesDivisorVsData(t *testing.T) {
	var sent []byte
	u := NewUART16550(func(b byte) { sent = append(sent, b) })

	u.IOWrite(uartRegLCR, uartLCRDLAB)
	u.IOWrite(uartRegData, 0x0C) // DLL
	u.IOWrite(uartRegIER, 0x00)  // DLM

	u.IOWrite(uartRegLCR, 0) // clear DLAB
	u.IOWrite(uartRegData, 'A')

	if len(sent) != 1 || sent[0] != 'A' {
		t.Fatalf("transmitted bytes = %v, want ['A']", sent)
	}
	if u.dll != 0x0C {
		t.Fatalf("DLL = %02X, want 0C", u.dll)
	}
}

func TestUARTReceiveFIFOAndLSR(t *testing.T) {
	u := NewUART16550(nil)
	if u.IORead(uartRegLSR)&uartLSRDataReady != 0 {
		t.Fatalf("data-ready should be clear with an empty RX FIFO")
	}
	u.Receive('X')
	if u.IORead(uartRegLSR)&uartLSRDataReady == 0 {
		t.Fatalf("data-ready should be set after Receive")
	}
	if got := u.IORead(uartRegData); got != 'X' {
		t.Fatalf("RBR read = %c, want X", got)
	}
	if u.IORead(uartRegLSR)&uartLSRDataReady != 0 {
		t.Fatalf("data-ready should clear once the FIFO is drained")
	}
}

func TestUARTTransmitterAlwaysReady(t *testing.T) {
	u := NewUART16550(func(byte) {})
	lsr := u.IORead(uartRegLSR)
	if lsr&uartLSRTHRE == 0 || lsr&uartLSRTEMT == 0 {
		t.Fatalf("LSR = %02X, want THRE and TEMT set", lsr)
	}
}
