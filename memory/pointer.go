package memory

import (
	"slices"
)

// Pointer is an address bound to a Memory and a byte order.
type Pointer struct {
	mem   Memory
	addr  uint64
	order ByteOrder
}

func ToPointer(mem Memory, addr uint64, order ByteOrder) Pointer {
	return Pointer{mem, addr, order}
}

func (p Pointer) IsNil() bool {
	return p.addr == 0
}

func (p Pointer) Address() uint64 {
	return p.addr
}

func (p Pointer) Order() ByteOrder {
	return p.order
}

func (p Pointer) Memory() Memory {
	return p.mem
}

func (p Pointer) Add(offset uint64) Pointer {
	return Pointer{p.mem, p.addr + offset, p.order}
}

func (p Pointer) Sub(offset uint64) Pointer {
	return Pointer{p.mem, p.addr - offset, p.order}
}

func (p Pointer) MemRead(size uint64) ([]byte, error) {
	data := make([]byte, size)
	if err := TryReadBytes(p.mem, p.addr, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (p Pointer) MemWrite(data []byte) error {
	return TryWriteBytes(p.mem, p.addr, data)
}

// MemReadString reads a NUL-terminated string.
func (p Pointer) MemReadString() (string, error) {
	var data []byte
	var buf [0x10]byte
	for begin := p.addr; ; begin += uint64(len(buf)) {
		chunk := buf[:]
		if err := TryReadBytes(p.mem, begin, chunk); err != nil {
			// the string may end before the last readable byte
			n, err := p.readTail(begin, chunk)
			if err != nil {
				return "", err
			}
			chunk = chunk[:n]
		}
		if i := slices.Index(chunk, 0); i != -1 {
			data = append(data, chunk[:i]...)
			break
		}
		data = append(data, chunk...)
	}
	return string(data), nil
}

func (p Pointer) readTail(begin uint64, chunk []byte) (int, error) {
	for i := range chunk {
		c, err := p.mem.TryReadByte(begin + uint64(i))
		if err != nil {
			return 0, err
		}
		chunk[i] = c
		if c == 0 {
			return i + 1, nil
		}
	}
	return len(chunk), nil
}

// MemWriteString writes str followed by a NUL byte.
func (p Pointer) MemWriteString(str string) error {
	data := make([]byte, len(str)+1)
	copy(data, str)
	return TryWriteBytes(p.mem, p.addr, data)
}

// MemReadPointer loads a size-byte address (2, 4 or 8) in the pointer's
// byte order and returns it bound to the same Memory.
func (p Pointer) MemReadPointer(size uint64) (ptr Pointer, err error) {
	var addr uint64
	switch size {
	case 2:
		var v uint16
		v, err = TryReadOrder[uint16](p.mem, p.addr, p.order)
		addr = uint64(v)
	case 4:
		var v uint32
		v, err = TryReadOrder[uint32](p.mem, p.addr, p.order)
		addr = uint64(v)
	case 8:
		addr, err = TryReadOrder[uint64](p.mem, p.addr, p.order)
	default:
		err = ErrArgumentInvalid
	}
	if err != nil {
		return
	}
	return Pointer{p.mem, addr, p.order}, nil
}

func (p Pointer) ReadAt(b []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, ErrArgumentInvalid
	}
	if err = TryReadBytes(p.mem, p.addr+uint64(off), b); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (p Pointer) WriteAt(b []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, ErrArgumentInvalid
	}
	if err = TryWriteBytes(p.mem, p.addr+uint64(off), b); err != nil {
		return 0, err
	}
	return len(b), nil
}

func Load[V Value](p Pointer) (V, error) {
	return TryReadOrder[V](p.mem, p.addr, p.order)
}

func Store[V Value](p Pointer, val V) error {
	return TryWriteOrder(p.mem, p.addr, val, p.order)
}
