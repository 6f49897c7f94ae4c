package memory

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func storages(size int) map[string]func() Memory {
	return map[string]func() Memory{
		"buffer": func() Memory { return NewBuffer(size) },
		"bytes":  func() Memory { return newByteMemory(make([]byte, size)...) },
	}
}

func roundTrip[V Value](t *testing.T, mem Memory, addr uint64, vals ...V) {
	t.Helper()
	for _, v := range vals {
		if err := TryWrite(mem, addr, v); err != nil {
			t.Fatalf("TryWrite(%v): %v", v, err)
		}
		if got := Read[V](mem, addr); got != v {
			t.Fatalf("little-endian round trip: got %v want %v", got, v)
		}
		if err := TryWriteBE(mem, addr, v); err != nil {
			t.Fatalf("TryWriteBE(%v): %v", v, err)
		}
		if got := ReadBE[V](mem, addr); got != v {
			t.Fatalf("big-endian round trip: got %v want %v", got, v)
		}
	}
}

func TestRoundTripAllTypes(t *testing.T) {
	for name, ctor := range storages(40) {
		t.Run(name, func(t *testing.T) {
			mem := ctor()
			for _, addr := range []uint64{0, 3, 24} {
				roundTrip[uint8](t, mem, addr, 0, 1, 0x7F, math.MaxUint8)
				roundTrip[int8](t, mem, addr, 0, -1, math.MinInt8, math.MaxInt8)
				roundTrip[uint16](t, mem, addr, 0, 0x0102, math.MaxUint16)
				roundTrip[int16](t, mem, addr, 0, -2, math.MinInt16, math.MaxInt16)
				roundTrip[uint32](t, mem, addr, 0, 0xDEADBEEF, math.MaxUint32)
				roundTrip[int32](t, mem, addr, 0, -123456, math.MinInt32, math.MaxInt32)
				roundTrip[uint64](t, mem, addr, 0, 0x0102030405060708, math.MaxUint64)
				roundTrip[int64](t, mem, addr, 0, -1, math.MinInt64, math.MaxInt64)
				roundTrip[float32](t, mem, addr, 0, 1.5, -math.MaxFloat32, math.SmallestNonzeroFloat32)
				roundTrip[float64](t, mem, addr, 0, math.Pi, -math.MaxFloat64, math.Inf(1))
				roundTrip(t, mem, addr, Uint128{}, Uint128{Lo: 0x1122334455667788, Hi: 0x99AABBCCDDEEFF00}, Uint128{Lo: math.MaxUint64, Hi: math.MaxUint64})
				roundTrip(t, mem, addr, Int128{}, Int128From64(-1), Int128From64(math.MinInt64), Int128{Lo: 0, Hi: 1 << 63})
			}
		})
	}
}

type reg16 uint16

func TestNamedValueType(t *testing.T) {
	mem := NewBuffer(2)
	Write(mem, 0, reg16(0xA55A))
	if got := mem.Bytes(); !bytes.Equal(got, []byte{0x5A, 0xA5}) {
		t.Fatalf("bytes=%x", got)
	}
	if got := Read[reg16](mem, 0); got != 0xA55A {
		t.Fatalf("got %x", got)
	}
}

func TestEndiannessLayout(t *testing.T) {
	for name, ctor := range storages(4) {
		t.Run(name, func(t *testing.T) {
			mem := ctor()
			Write[uint16](mem, 1, 0x0102)
			if b0, b1 := ReadByte(mem, 1), ReadByte(mem, 2); b0 != 0x02 || b1 != 0x01 {
				t.Fatalf("little-endian layout: %02x %02x", b0, b1)
			}
			WriteBE[uint16](mem, 1, 0x0102)
			if b0, b1 := ReadByte(mem, 1), ReadByte(mem, 2); b0 != 0x01 || b1 != 0x02 {
				t.Fatalf("big-endian layout: %02x %02x", b0, b1)
			}
		})
	}
}

func TestFloatBitPattern(t *testing.T) {
	mem := NewBuffer(8)
	WriteBE[float32](mem, 0, 1.0)
	if got := mem.Bytes()[:4]; !bytes.Equal(got, []byte{0x3F, 0x80, 0x00, 0x00}) {
		t.Fatalf("float32 big-endian bytes=%x", got)
	}
	Write[float64](mem, 0, -2.0)
	if got := mem.Bytes(); !bytes.Equal(got, []byte{0, 0, 0, 0, 0, 0, 0, 0xC0}) {
		t.Fatalf("float64 little-endian bytes=%x", got)
	}
}

func TestUint128Layout(t *testing.T) {
	mem := NewBuffer(16)
	v := Uint128{Lo: 0x0706050403020100, Hi: 0x0F0E0D0C0B0A0908}
	Write(mem, 0, v)
	for i := 0; i < 16; i++ {
		if got := ReadByte(mem, uint64(i)); got != byte(i) {
			t.Fatalf("little-endian byte %d = %02x", i, got)
		}
	}
	WriteBE(mem, 0, v)
	for i := 0; i < 16; i++ {
		if got := ReadByte(mem, uint64(i)); got != byte(15-i) {
			t.Fatalf("big-endian byte %d = %02x", i, got)
		}
	}
}

func TestScenarioBigEndianWriteLittleEndianRead(t *testing.T) {
	for name, ctor := range storages(4) {
		t.Run(name, func(t *testing.T) {
			mem := ctor()
			WriteBE[uint32](mem, 0, 0x12345678)
			want := []byte{0x12, 0x34, 0x56, 0x78}
			for i, w := range want {
				b, err := mem.TryReadByte(uint64(i))
				if err != nil {
					t.Fatalf("TryReadByte(%d): %v", i, err)
				}
				if b != w {
					t.Fatalf("byte %d = %02x want %02x", i, b, w)
				}
			}
			if got := Read[uint32](mem, 0); got != 0x78563412 {
				t.Fatalf("Read = %08x", got)
			}
		})
	}
}

func TestScenarioWriteTooWide(t *testing.T) {
	for name, ctor := range storages(1) {
		t.Run(name, func(t *testing.T) {
			mem := ctor()
			WriteByte(mem, 0, 0x42)
			if err := TryWrite[uint16](mem, 0, 0xBEEF); err == nil {
				t.Fatalf("expected error writing 2 bytes into 1-byte storage")
			}
			if err := TryWriteBE[uint16](mem, 0, 0xBEEF); err == nil {
				t.Fatalf("expected error writing 2 bytes into 1-byte storage")
			}
			if got := ReadByte(mem, 0); got != 0x42 {
				t.Fatalf("byte 0 changed to %02x", got)
			}
		})
	}
}

func TestBoundsRejectionLeavesOtherBytes(t *testing.T) {
	const size = 8
	for name, ctor := range storages(size) {
		t.Run(name, func(t *testing.T) {
			mem := ctor()
			for i := 0; i < size; i++ {
				WriteByte(mem, uint64(i), byte(0xA0+i))
			}
			for addr := uint64(size - 7); addr <= size+2; addr++ {
				if err := TryWrite[uint64](mem, addr, math.MaxUint64); err == nil {
					t.Fatalf("TryWrite[uint64] at %d succeeded", addr)
				}
				if _, err := TryRead[uint64](mem, addr); err == nil {
					t.Fatalf("TryRead[uint64] at %d succeeded", addr)
				}
				if _, err := TryReadBE[uint32](mem, addr+4); err == nil {
					t.Fatalf("TryReadBE[uint32] at %d succeeded", addr+4)
				}
			}
			for i := 0; i < size; i++ {
				if got := ReadByte(mem, uint64(i)); got != byte(0xA0+i) {
					t.Fatalf("byte %d = %02x", i, got)
				}
			}
		})
	}
}

func TestAddressWrapIsRejected(t *testing.T) {
	mem := NewBuffer(16)
	_, err := TryRead[uint32](mem, math.MaxUint64-1)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err=%v want ErrOutOfBounds", err)
	}
	if err := TryWrite[uint32](mem, math.MaxUint64-1, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err=%v want ErrOutOfBounds", err)
	}
}

func TestPartialReadReturnsOnlyError(t *testing.T) {
	mem := &holeMemory{byteMemory: byteMemory{ram: []byte{1, 2, 3, 4, 5, 6, 7, 8}}, hole: 2}
	v, err := TryRead[uint32](mem, 0)
	if !errors.Is(err, errByteFault) {
		t.Fatalf("err=%v want errByteFault", err)
	}
	if v != 0 {
		t.Fatalf("partial value leaked: %x", v)
	}
	// fail fast: bytes 0, 1 and the hole, nothing after it
	if mem.reads != 3 {
		t.Fatalf("reads=%d want 3", mem.reads)
	}
}

func TestStorageErrorIsPropagatedUnchanged(t *testing.T) {
	mem := newByteMemory(0)
	if _, err := TryRead[uint16](mem, 0); err != errByteFault {
		t.Fatalf("err=%v want errByteFault unchanged", err)
	}
	if err := TryWrite[uint16](mem, 0, 1); err != errByteFault {
		t.Fatalf("err=%v want errByteFault unchanged", err)
	}
	if mem.writes != 0 {
		t.Fatalf("writes=%d after rejected range", mem.writes)
	}
}

func TestBufferErrorDetail(t *testing.T) {
	mem := NewBuffer(4)
	err := TryWrite[uint32](mem, 2, 0)
	var ae *AccessError
	if !errors.As(err, &ae) {
		t.Fatalf("err=%T %v want *AccessError", err, err)
	}
	if ae.Address() != 2 || ae.Size() != 4 || ae.Prot() != MEM_PROT_WRITE {
		t.Fatalf("detail: addr=%d size=%d prot=%s", ae.Address(), ae.Size(), ae.Prot())
	}
}

func expectFault(t *testing.T, addr uint64, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected fault")
		}
		f, ok := r.(*Fault)
		if !ok {
			t.Fatalf("panic value %T, want *Fault", r)
		}
		if f.Address() != addr || !errors.Is(f, ErrOutOfBounds) {
			t.Fatalf("fault=%v", f)
		}
	}()
	fn()
}

func TestTrustedPathFaults(t *testing.T) {
	mem := NewBuffer(4)
	expectFault(t, 2, func() { Read[uint32](mem, 2) })
	expectFault(t, 1, func() { ReadBE[uint64](mem, 1) })
	expectFault(t, 3, func() { Write[uint16](mem, 3, 0xFFFF) })
	expectFault(t, 4, func() { WriteBE[uint8](mem, 4, 1) })
	expectFault(t, 9, func() { ReadByte(mem, 9) })
	expectFault(t, 4, func() { WriteByte(mem, 4, 1) })
	if !bytes.Equal(mem.Bytes(), []byte{0, 0, 0, 0}) {
		t.Fatalf("faulting writes corrupted memory: %x", mem.Bytes())
	}
}

func TestSizeOf(t *testing.T) {
	cases := map[string][2]int{
		"u8":   {SizeOf[uint8](), 1},
		"i16":  {SizeOf[int16](), 2},
		"f32":  {SizeOf[float32](), 4},
		"u64":  {SizeOf[uint64](), 8},
		"u128": {SizeOf[Uint128](), 16},
		"i128": {SizeOf[Int128](), 16},
	}
	for name, c := range cases {
		if c[0] != c[1] {
			t.Fatalf("%s: got %d want %d", name, c[0], c[1])
		}
	}
}

func TestInt128(t *testing.T) {
	if v := Int128From64(-5); !v.IsNeg() || v.String() != "-5" {
		t.Fatalf("Int128From64(-5) = %v neg=%v", v, v.IsNeg())
	}
	if v := Int128From64(7); v.IsNeg() || v.Lo != 7 || v.Hi != 0 {
		t.Fatalf("Int128From64(7) = %+v", v)
	}
	mem := NewBuffer(16)
	WriteBE(mem, 0, Int128From64(-2))
	want := bytes.Repeat([]byte{0xFF}, 16)
	want[15] = 0xFE
	if !bytes.Equal(mem.Bytes(), want) {
		t.Fatalf("bytes=%x", mem.Bytes())
	}
}
