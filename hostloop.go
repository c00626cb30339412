// hostloop.go - outer execution loop main.go drives every machine through.
//
// Drives a machine in fixed-length instruction slices, servicing the
// GDB listener between slices and optionally printing a live
// cycle-rate line when standard error is an interactive terminal.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// Runner is satisfied by every machine this module builds: it executes
// up to n instructions (or, for the 8008/NS8060 machines, n cycles)
// per slice and reports how many it actually ran and whether the core
// has since halted.
type Runner interface {
	RunSlice(n uint64) uint64
	Halted() bool
}

// HostLoop drives a Runner in fixed-length slices. GDB is nil when no
// debug listener was configured.
type HostLoop struct {
	Machine   Runner
	SliceSize uint64
	Stats     bool
	GDB       *GDBStub
}

// Run drives the machine to completion or until ctx is cancelled.
func (h *HostLoop) Run(ctx context.Context) error {
	statsOK := h.Stats && term.IsTerminal(int(os.Stderr.Fd()))
	var total uint64
	start := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		ran, err := h.runSlice(ctx)
		if err != nil {
			return fmt.Errorf("host loop: %w", err)
		}
		total += ran

		if statsOK {
			if elapsed := time.Since(start).Seconds(); elapsed > 0 {
				fmt.Fprintf(os.Stderr, "\r%.3f Mcycles/s", float64(total)/elapsed/1e6)
			}
		}

		if h.Machine.Halted() {
			if statsOK {
				fmt.Fprintln(os.Stderr)
			}
			return nil
		}
	}
}

// runSlice runs the CPU-slice stage and the GDB-poll stage as two
// explicitly ordered stages of one errgroup.Group: the poll stage
// waits for the slice to finish before touching the socket, and an
// error from either stage cancels ctx for the other.
func (h *HostLoop) runSlice(ctx context.Context) (uint64, error) {
	g, ctx := errgroup.WithContext(ctx)
	sliceDone := make(chan uint64, 1)

	g.Go(func() error {
		sliceDone <- h.Machine.RunSlice(h.SliceSize)
		return nil
	})

	var ran uint64
	g.Go(func() error {
		select {
		case ran = <-sliceDone:
		case <-ctx.Done():
			return ctx.Err()
		}
		if h.GDB == nil {
			return nil
		}
		return h.GDB.PollOnce(h.pollTimeout())
	})

	err := g.Wait()
	return ran, err
}

// pollTimeout waits longer for a GDB packet once the target has
// stopped, matching spec's "zero timeout when running, 100ms when
// stopped" poll discipline.
func (h *HostLoop) pollTimeout() time.Duration {
	if h.Machine.Halted() {
		return 100 * time.Millisecond
	}
	return 0
}
