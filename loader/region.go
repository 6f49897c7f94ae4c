package loader

import (
	"io"

	"github.com/wnxd/memstorage/memory"
)

// Region is a loadable segment: Length bytes read from the ReaderAt,
// zero-filled up to Size (rounded up to Align when set).
type Region struct {
	Addr, Size    uint64
	Length, Align uint64
	Prot          memory.MemProt
	io.ReaderAt
}

func (r Region) MemSize() uint64 {
	if r.Align > 1 {
		return memory.Align(r.Size, r.Align)
	}
	return r.Size
}
