//go:build unix

// Package mapped provides a Memory backed by a memory-mapped file.
//
// Slices returned by File.Slice alias the mapping and must not be used
// after Close.
package mapped

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/wnxd/memstorage/memory"
)

var ErrClosed = errors.New("mapping closed")

type File struct {
	data memory.Buffer
	prot memory.MemProt
}

var _ memory.Slicer = (*File)(nil)

// Open maps size bytes of the file at path. With MEM_PROT_WRITE the file
// is created if needed and grown to size, and stores reach the file as a
// shared mapping. Without it the file must already hold size bytes.
func Open(path string, size int, prot memory.MemProt) (*File, error) {
	if size <= 0 || prot&memory.MEM_PROT_READ == 0 {
		return nil, memory.ErrArgumentInvalid
	}
	flag, mmapProt := os.O_RDONLY, unix.PROT_READ
	if prot&memory.MEM_PROT_WRITE != 0 {
		flag, mmapProt = os.O_RDWR|os.O_CREATE, unix.PROT_READ|unix.PROT_WRITE
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < int64(size) {
		if flag == os.O_RDONLY {
			return nil, memory.NewAccessError(prot, 0, uint64(size), memory.ErrOutOfBounds)
		}
		if err = f.Truncate(int64(size)); err != nil {
			return nil, err
		}
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, mmapProt, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &File{data: data, prot: prot &^ memory.MEM_PROT_EXEC}, nil
}

func (f *File) Len() int {
	return f.data.Len()
}

func (f *File) Prot() memory.MemProt {
	return f.prot
}

func (f *File) Sync() error {
	if f.data == nil {
		return ErrClosed
	}
	return unix.Msync(f.data, unix.MS_SYNC)
}

func (f *File) Close() error {
	if f.data == nil {
		return ErrClosed
	}
	err := unix.Munmap(f.data)
	f.data = nil
	return err
}

func (f *File) TryReadByte(addr uint64) (byte, error) {
	if f.data == nil {
		return 0, memory.NewAccessError(memory.MEM_PROT_READ, addr, 1, ErrClosed)
	}
	return f.data.TryReadByte(addr)
}

func (f *File) TryWriteByte(addr uint64, b byte) error {
	if err := f.CheckRange(addr, 1, memory.MEM_PROT_WRITE); err != nil {
		return err
	}
	return f.data.TryWriteByte(addr, b)
}

// CheckRange fails with ErrClosed once the mapping is closed.
func (f *File) CheckRange(addr, size uint64, prot memory.MemProt) error {
	if f.data == nil {
		return memory.NewAccessError(prot, addr, size, ErrClosed)
	}
	if prot&memory.MEM_PROT_WRITE != 0 && f.prot&memory.MEM_PROT_WRITE == 0 {
		return memory.NewAccessError(prot, addr, size, memory.ErrReadOnly)
	}
	return f.data.CheckRange(addr, size, prot)
}

func (f *File) Slice(addr, size uint64, prot memory.MemProt) ([]byte, error) {
	if err := f.CheckRange(addr, size, prot); err != nil {
		return nil, err
	}
	return f.data.Slice(addr, size, prot)
}
