package memory

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds     = errors.New("address out of bounds")
	ErrUnmapped        = errors.New("address unmapped")
	ErrReadOnly        = errors.New("address read-only")
	ErrAccessDenied    = errors.New("access denied")
	ErrArgumentInvalid = errors.New("argument invalid")
	ErrTypeUnsupported = errors.New("type unsupported")
)

type AccessError struct {
	prot MemProt
	addr uint64
	size uint64
	err  error
}

func NewAccessError(prot MemProt, addr, size uint64, err error) *AccessError {
	return &AccessError{prot, addr, size, err}
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("[InvalidMemory] prot: %s, addr: %016X, size: %d, %v", e.prot, e.addr, e.size, e.err)
}

func (e *AccessError) Unwrap() error {
	return e.err
}

func (e *AccessError) Prot() MemProt {
	return e.prot
}

func (e *AccessError) Address() uint64 {
	return e.addr
}

func (e *AccessError) Size() uint64 {
	return e.size
}

// Fault is the panic value raised by the trusted entry points.
type Fault struct {
	op   string
	addr uint64
	err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("[Fault] failed to %s memory, addr: %016X, %v", f.op, f.addr, f.err)
}

func (f *Fault) Unwrap() error {
	return f.err
}

func (f *Fault) Address() uint64 {
	return f.addr
}

func fault(op string, addr uint64, err error) {
	panic(&Fault{op, addr, err})
}
