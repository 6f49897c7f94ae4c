package memory

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/modern-go/reflect2"
)

var (
	layoutProcess sync.Map
	rtypeUint128  = reflect2.RTypeOf(Uint128{})
	rtypeInt128   = reflect2.RTypeOf(Int128{})
)

type layoutData struct {
	size int
	err  error
}

// Decode reads a value of val's element type at addr; val must be a
// non-nil pointer to a type in the Value set (named types included).
// It is the runtime-typed counterpart of TryReadOrder.
func Decode(mem Memory, addr uint64, order ByteOrder, val any) error {
	typ := reflect2.TypeOf(val)
	if typ == nil || typ.Kind() != reflect.Pointer {
		return ErrArgumentInvalid
	}
	ptr := reflect2.PtrOf(val)
	if ptr == nil {
		return ErrArgumentInvalid
	}
	size, err := getLayout(typ.(reflect2.PtrType).Elem())
	if err != nil {
		return err
	}
	var buf [16]byte
	if err = TryReadBytes(mem, addr, buf[:size]); err != nil {
		return err
	}
	getRaw(buf[:size], ptr, size, order)
	return nil
}

// Encode writes val at addr. val may be a value or a pointer to one.
func Encode(mem Memory, addr uint64, order ByteOrder, val any) error {
	typ := reflect2.TypeOf(val)
	if typ == nil {
		return ErrArgumentInvalid
	}
	ptr := reflect2.PtrOf(val)
	if typ.Kind() == reflect.Pointer {
		if ptr == nil {
			return ErrArgumentInvalid
		}
		typ = typ.(reflect2.PtrType).Elem()
	}
	size, err := getLayout(typ)
	if err != nil {
		return err
	}
	var buf [16]byte
	putRaw(buf[:size], ptr, size, order)
	return TryWriteBytes(mem, addr, buf[:size])
}

// EncodeSize returns the encoded width of val's type, or 0 if the type is
// not a Value.
func EncodeSize(val any) int {
	typ := reflect2.TypeOf(val)
	if typ == nil {
		return 0
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.(reflect2.PtrType).Elem()
	}
	size, _ := getLayout(typ)
	return size
}

func getLayout(typ reflect2.Type) (int, error) {
	key := typ.RType()
	if v, ok := layoutProcess.Load(key); ok {
		data := v.(*layoutData)
		return data.size, data.err
	}
	data := layout(typ)
	layoutProcess.Store(key, data)
	return data.size, data.err
}

func layout(typ reflect2.Type) *layoutData {
	switch typ.Kind() {
	case reflect.Int8, reflect.Uint8, reflect.Int16, reflect.Uint16, reflect.Int32, reflect.Uint32, reflect.Int64, reflect.Uint64, reflect.Float32, reflect.Float64:
		return &layoutData{int(typ.Type1().Size()), nil}
	case reflect.Struct:
		if rtype := typ.RType(); rtype == rtypeUint128 || rtype == rtypeInt128 {
			return &layoutData{int(unsafe.Sizeof(Uint128{})), nil}
		}
	}
	return &layoutData{0, ErrTypeUnsupported}
}
