// bank.go - Memory bank descriptors with per-page permission bits

package main

// AccessKind distinguishes why a memory read is being performed, so
// devices and banks can tell an opcode fetch apart from an ordinary
// data read or a side-effect-free debug peek.
type AccessKind int

const (
	AccessFetch AccessKind = iota
	AccessData
	AccessDebug
)

// pageSize is the granularity at which 8008-style machines gate
// read/write permission; Z80 machines configure banks in coarser
// 16K/32K chunks by simply using a bank Size that is a multiple of it.
const pageSize = 0x100

// Bank is a fixed-size region of backing memory with a base address
// and per-page read/write permission. Several banks may cover the
// same guest address range; the bus picks the most specifically
// configured one (smallest Size) when more than one matches.
type Bank struct {
	Name     string
	Backing  []byte
	Base     uint32
	Size     uint32
	readable []bool // per pageSize page within this bank
	writable []bool
}

// NewBank creates a bank backed by a freshly allocated array of Size
// bytes, all pages readable and writable.
func NewBank(name string, base, size uint32) *Bank {
	return NewBankBacking(name, make([]byte, size), base, size)
}

// NewBankBacking creates a bank over caller-supplied backing storage,
// e.g. a loaded ROM image.
func NewBankBacking(name string, backing []byte, base, size uint32) *Bank {
	pages := (size + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	b := &Bank{
		Name:     name,
		Backing:  backing,
		Base:     base,
		Size:     size,
		readable: make([]bool, pages),
		writable: make([]bool, pages),
	}
	for i := range b.readable {
		b.readable[i] = true
		b.writable[i] = true
	}
	return b
}

// NewROMBank creates a bank whose pages are readable but never
// writable; writes are silently dropped by the bus.
func NewROMBank(name string, backing []byte, base uint32) *Bank {
	b := NewBankBacking(name, backing, base, uint32(len(backing)))
	for i := range b.writable {
		b.writable[i] = false
	}
	return b
}

// Contains reports whether addr falls within this bank's span.
func (b *Bank) Contains(addr uint32) bool {
	return addr >= b.Base && addr < b.Base+b.Size
}

func (b *Bank) pageOf(addr uint32) uint32 {
	return (addr - b.Base) / pageSize
}

// Readable/Writable report the permission of the page containing addr.
// Callers must have already checked Contains.
func (b *Bank) Readable(addr uint32) bool { return b.readable[b.pageOf(addr)] }
func (b *Bank) Writable(addr uint32) bool { return b.writable[b.pageOf(addr)] }

// SetPagePermission sets read/write permission for every page overlapping
// [addr, addr+size). Used by the Z80 "memory control" ports and the
// n8vem2/SmallZ80 ROM/RAM visibility swap.
func (b *Bank) SetPagePermission(addr, size uint32, readable, writable bool) {
	start := b.pageOf(addr)
	end := b.pageOf(addr + size - 1)
	for p := start; p <= end && int(p) < len(b.readable); p++ {
		b.readable[p] = readable
		b.writable[p] = writable
	}
}

// SetPermission sets read/write permission for the whole bank, the
// common case for a single ROM/RAM-visibility toggle port.
func (b *Bank) SetPermission(readable, writable bool) {
	for i := range b.readable {
		b.readable[i] = readable
		b.writable[i] = writable
	}
}

func (b *Bank) read(addr uint32) byte {
	return b.Backing[addr-b.Base]
}

func (b *Bank) write(addr uint32, value byte) {
	b.Backing[addr-b.Base] = value
}
