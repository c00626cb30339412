package main

import (
	"context"
	"testing"
	"time"
)

// countingRunner halts after a fixed number of instructions, tracking
// how many slices it took to get there.
type countingRunner struct {
	remaining uint64
	slices    int
}

func (r *countingRunner) RunSlice(n uint64) uint64 {
	r.slices++
	if n > r.remaining {
		n = r.remaining
	}
	r.remaining -= n
	return n
}

func (r *countingRunner) Halted() bool { return r.remaining == 0 }

func TestHostLoopRunsUntilHalted(t *testing.T) {
	machine := &countingRunner{remaining: 100}
	loop := &HostLoop{Machine: machine, SliceSize: 10}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := loop.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if machine.remaining != 0 {
		t.Fatalf("remaining = %d, want 0", machine.remaining)
	}
	if machine.slices != 10 {
		t.Fatalf("slices = %d, want 10", machine.slices)
	}
}

func TestHostLoopPollsGDBBetweenSlices(t *testing.T) {
	stub, err := NewGDBStub("127.0.0.1:0", func(body string) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("NewGDBStub: %v", err)
	}
	defer stub.Close()

	machine := &countingRunner{remaining: 20}
	loop := &HostLoop{Machine: machine, SliceSize: 5, GDB: stub}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := loop.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !machine.Halted() {
		t.Fatalf("machine should have halted")
	}
}
