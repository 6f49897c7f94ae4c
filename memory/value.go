package memory

import (
	"math/big"
	"unsafe"

	"lukechampine.com/uint128"
)

type Uint128 = uint128.Uint128

// Int128 is a two's-complement signed 128-bit integer.
type Int128 struct {
	Lo, Hi uint64
}

func Int128From64(v int64) Int128 {
	return Int128{uint64(v), uint64(v >> 63)}
}

func (i Int128) IsNeg() bool {
	return int64(i.Hi) < 0
}

func (i Int128) Big() *big.Int {
	u := uint128.New(i.Lo, i.Hi).Big()
	if i.IsNeg() {
		u.Sub(u, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return u
}

func (i Int128) String() string {
	return i.Big().String()
}

// Value is the closed set of fixed-width types the codec can move.
type Value interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64 | Uint128 | Int128
}

func SizeOf[V Value]() int {
	var v V
	return int(unsafe.Sizeof(v))
}

// putRaw stores the size-byte value at ptr into b in the given order.
// Floats are moved by their IEEE-754 bit pattern.
func putRaw(b []byte, ptr unsafe.Pointer, size int, order ByteOrder) {
	bo := order.binary()
	switch size {
	case 1:
		b[0] = *(*uint8)(ptr)
	case 2:
		bo.PutUint16(b, *(*uint16)(ptr))
	case 4:
		bo.PutUint32(b, *(*uint32)(ptr))
	case 8:
		bo.PutUint64(b, *(*uint64)(ptr))
	case 16:
		u := *(*Uint128)(ptr)
		if order == BO_BIG_ENDIAN {
			u.PutBytesBE(b)
		} else {
			u.PutBytes(b)
		}
	default:
		panic(ErrTypeUnsupported)
	}
}

func getRaw(b []byte, ptr unsafe.Pointer, size int, order ByteOrder) {
	bo := order.binary()
	switch size {
	case 1:
		*(*uint8)(ptr) = b[0]
	case 2:
		*(*uint16)(ptr) = bo.Uint16(b)
	case 4:
		*(*uint32)(ptr) = bo.Uint32(b)
	case 8:
		*(*uint64)(ptr) = bo.Uint64(b)
	case 16:
		if order == BO_BIG_ENDIAN {
			*(*Uint128)(ptr) = uint128.FromBytesBE(b)
		} else {
			*(*Uint128)(ptr) = uint128.FromBytes(b)
		}
	default:
		panic(ErrTypeUnsupported)
	}
}
