package trace

import (
	"io"
	"slices"
)

type HookType int

const (
	HOOK_TYPE_MEM_READ HookType = 1 << iota
	HOOK_TYPE_MEM_WRITE

	HOOK_TYPE_MEM_ALL = HOOK_TYPE_MEM_READ | HOOK_TYPE_MEM_WRITE
)

func (typ HookType) String() string {
	switch typ {
	case HOOK_TYPE_MEM_READ:
		return "read"
	case HOOK_TYPE_MEM_WRITE:
		return "write"
	case HOOK_TYPE_MEM_ALL:
		return "read|write"
	}
	return "none"
}

// MemoryCallback runs after a successful byte access inside the hook's
// range. value is the byte read or written.
type MemoryCallback = func(typ HookType, addr uint64, value byte, data any)

type hook struct {
	mem        *Memory
	typ        HookType
	callback   MemoryCallback
	data       any
	begin, end uint64
}

type HookHandler interface {
	io.Closer
	Type() HookType
}

func (h *hook) Type() HookType {
	return h.typ
}

func (h *hook) Close() error {
	m := h.mem
	m.hookMu.Lock()
	defer m.hookMu.Unlock()
	i := slices.Index(m.hooks, h)
	if i == -1 {
		return nil
	}
	m.hooks = slices.Delete(slices.Clone(m.hooks), i, i+1)
	return nil
}

func (h *hook) match(typ HookType, addr uint64) bool {
	return h.typ&typ != 0 && addr >= h.begin && addr < h.end
}
