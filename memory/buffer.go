package memory

import (
	"io"
)

// Buffer is a heap-backed Memory. Valid addresses are 0 <= addr < Len().
type Buffer []byte

var _ Slicer = (*Buffer)(nil)

func NewBuffer(size int) *Buffer {
	buf := make(Buffer, size)
	return &buf
}

// BufferOf wraps b without copying it.
func BufferOf(b []byte) *Buffer {
	buf := Buffer(b)
	return &buf
}

func (buf *Buffer) Len() int {
	return len(*buf)
}

func (buf *Buffer) Bytes() []byte {
	return *buf
}

// Resize grows the buffer with zero bytes or truncates it.
func (buf *Buffer) Resize(size int) {
	if size <= len(*buf) {
		*buf = (*buf)[:size]
		return
	}
	*buf = append(*buf, make([]byte, size-len(*buf))...)
}

func (buf *Buffer) TryReadByte(addr uint64) (byte, error) {
	if addr >= uint64(len(*buf)) {
		return 0, NewAccessError(MEM_PROT_READ, addr, 1, ErrOutOfBounds)
	}
	return (*buf)[addr], nil
}

func (buf *Buffer) TryWriteByte(addr uint64, b byte) error {
	if addr >= uint64(len(*buf)) {
		return NewAccessError(MEM_PROT_WRITE, addr, 1, ErrOutOfBounds)
	}
	(*buf)[addr] = b
	return nil
}

func (buf *Buffer) CheckRange(addr, size uint64, prot MemProt) error {
	if n := uint64(len(*buf)); addr > n || size > n-addr {
		return NewAccessError(prot, addr, size, ErrOutOfBounds)
	}
	return nil
}

func (buf *Buffer) Slice(addr, size uint64, prot MemProt) ([]byte, error) {
	if err := buf.CheckRange(addr, size, prot); err != nil {
		return nil, err
	}
	return (*buf)[addr : addr+size : addr+size], nil
}

func (buf *Buffer) ReadAt(b []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, ErrArgumentInvalid
	} else if off >= int64(len(*buf)) {
		return 0, io.EOF
	}
	n = copy(b, (*buf)[off:])
	if n < len(b) {
		err = io.EOF
	}
	return
}

// WriteAt never grows the buffer; a write that does not fit writes nothing.
func (buf *Buffer) WriteAt(b []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, ErrArgumentInvalid
	}
	dst, err := buf.Slice(uint64(off), uint64(len(b)), MEM_PROT_WRITE)
	if err != nil {
		return 0, err
	}
	return copy(dst, b), nil
}
