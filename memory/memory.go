// Package memory provides typed, byte-order aware access to any
// byte-addressable storage.
//
// A storage implements Memory. The generic codec functions (TryRead,
// TryWrite, Read, Write and their big-endian forms) assemble fixed-width
// values out of single-byte accesses, or out of a contiguous view when the
// storage also implements Slicer.
package memory

import "math"

// Memory is a byte-addressable storage.
//
// TryReadByte and TryWriteByte fail for any address the storage cannot
// serve and must leave the storage unchanged on failure. CheckRange
// validates a whole range for the given access without touching it; the
// codec calls it before committing any multi-byte write, so writes through
// this package are all-or-nothing.
type Memory interface {
	TryReadByte(addr uint64) (byte, error)
	TryWriteByte(addr uint64, b byte) error
	CheckRange(addr, size uint64, prot MemProt) error
}

// Slicer is implemented by storages that can expose a contiguous range.
// The returned slice aliases the storage. The codec prefers it over
// byte-wise access; both paths must agree.
type Slicer interface {
	Memory
	Slice(addr, size uint64, prot MemProt) ([]byte, error)
}

// rangeValid reports whether addr..addr+size-1 does not wrap around.
func rangeValid(addr, size uint64) bool {
	return size == 0 || addr <= math.MaxUint64-(size-1)
}
