package memory

import "unsafe"

// TryRead reads a little-endian V at addr.
func TryRead[V Value](mem Memory, addr uint64) (V, error) {
	return TryReadOrder[V](mem, addr, BO_LITTLE_ENDIAN)
}

// TryReadBE reads a big-endian V at addr.
func TryReadBE[V Value](mem Memory, addr uint64) (V, error) {
	return TryReadOrder[V](mem, addr, BO_BIG_ENDIAN)
}

// TryWrite writes val at addr in little-endian order.
func TryWrite[V Value](mem Memory, addr uint64, val V) error {
	return TryWriteOrder(mem, addr, val, BO_LITTLE_ENDIAN)
}

// TryWriteBE writes val at addr in big-endian order.
func TryWriteBE[V Value](mem Memory, addr uint64, val V) error {
	return TryWriteOrder(mem, addr, val, BO_BIG_ENDIAN)
}

// TryReadOrder reads SizeOf[V]() bytes starting at addr and assembles them
// in the given order. On failure the zero value and the first storage
// error are returned.
func TryReadOrder[V Value](mem Memory, addr uint64, order ByteOrder) (val V, err error) {
	var buf [16]byte
	size := int(unsafe.Sizeof(val))
	if err = TryReadBytes(mem, addr, buf[:size]); err != nil {
		return
	}
	getRaw(buf[:size], unsafe.Pointer(&val), size, order)
	return
}

// TryWriteOrder validates the destination range and then writes val in
// the given order. Nothing is written when validation fails.
func TryWriteOrder[V Value](mem Memory, addr uint64, val V, order ByteOrder) error {
	var buf [16]byte
	size := int(unsafe.Sizeof(val))
	putRaw(buf[:size], unsafe.Pointer(&val), size, order)
	return TryWriteBytes(mem, addr, buf[:size])
}

func Read[V Value](mem Memory, addr uint64) V {
	val, err := TryRead[V](mem, addr)
	if err != nil {
		fault("read", addr, err)
	}
	return val
}

func ReadBE[V Value](mem Memory, addr uint64) V {
	val, err := TryReadBE[V](mem, addr)
	if err != nil {
		fault("read", addr, err)
	}
	return val
}

func Write[V Value](mem Memory, addr uint64, val V) {
	if err := TryWrite(mem, addr, val); err != nil {
		fault("write", addr, err)
	}
}

func WriteBE[V Value](mem Memory, addr uint64, val V) {
	if err := TryWriteBE(mem, addr, val); err != nil {
		fault("write", addr, err)
	}
}

func ReadByte(mem Memory, addr uint64) byte {
	b, err := mem.TryReadByte(addr)
	if err != nil {
		fault("read", addr, err)
	}
	return b
}

func WriteByte(mem Memory, addr uint64, b byte) {
	if err := mem.TryWriteByte(addr, b); err != nil {
		fault("write", addr, err)
	}
}

// TryReadBytes fills b from addr. It stops at the first failing access.
func TryReadBytes(mem Memory, addr uint64, b []byte) error {
	size := uint64(len(b))
	if !rangeValid(addr, size) {
		return NewAccessError(MEM_PROT_READ, addr, size, ErrOutOfBounds)
	}
	if s, ok := mem.(Slicer); ok {
		src, err := s.Slice(addr, size, MEM_PROT_READ)
		if err != nil {
			return err
		}
		copy(b, src)
		return nil
	}
	for i := range b {
		c, err := mem.TryReadByte(addr + uint64(i))
		if err != nil {
			return err
		}
		b[i] = c
	}
	return nil
}

// TryWriteBytes writes b at addr after CheckRange accepted the whole range.
func TryWriteBytes(mem Memory, addr uint64, b []byte) error {
	size := uint64(len(b))
	if !rangeValid(addr, size) {
		return NewAccessError(MEM_PROT_WRITE, addr, size, ErrOutOfBounds)
	}
	if err := mem.CheckRange(addr, size, MEM_PROT_WRITE); err != nil {
		return err
	}
	if s, ok := mem.(Slicer); ok {
		dst, err := s.Slice(addr, size, MEM_PROT_WRITE)
		if err != nil {
			return err
		}
		copy(dst, b)
		return nil
	}
	for i, c := range b {
		if err := mem.TryWriteByte(addr+uint64(i), c); err != nil {
			return err
		}
	}
	return nil
}
