// Package trace wraps a Memory to log faulting accesses and to run watch
// callbacks on the bytes a program touches.
package trace

import (
	"slices"
	"sync"

	"github.com/wnxd/memstorage/memory"
)

type Options struct {
	// Name tags every log entry; defaults to "memory".
	Name string
	// Logger receives the access log. Nil disables logging.
	Logger Logger
	// Verbose logs every successful byte access at debug level.
	Verbose bool
}

// Memory forwards to an inner Memory. It deliberately does not expose the
// inner Slicer so that every byte passes the hooks.
type Memory struct {
	inner   memory.Memory
	name    string
	log     Logger
	verbose bool
	hookMu  sync.Mutex
	hooks   []*hook
}

var _ memory.Memory = (*Memory)(nil)

func New(inner memory.Memory, opts Options) *Memory {
	m := &Memory{
		inner:   inner,
		name:    coalesce(opts.Name, "memory"),
		log:     opts.Logger,
		verbose: opts.Verbose,
	}
	if m.log == nil {
		m.log = NopLogger{}
	}
	return m
}

func (m *Memory) Inner() memory.Memory {
	return m.inner
}

// AddHook registers callback for accesses of typ to [begin, end).
func (m *Memory) AddHook(typ HookType, callback MemoryCallback, data any, begin, end uint64) (HookHandler, error) {
	if typ&HOOK_TYPE_MEM_ALL == 0 || callback == nil || begin >= end {
		return nil, memory.ErrArgumentInvalid
	}
	h := &hook{m, typ & HOOK_TYPE_MEM_ALL, callback, data, begin, end}
	m.hookMu.Lock()
	m.hooks = append(slices.Clip(m.hooks), h)
	m.hookMu.Unlock()
	return h, nil
}

func (m *Memory) TryReadByte(addr uint64) (byte, error) {
	b, err := m.inner.TryReadByte(addr)
	if err != nil {
		m.log.Warn("memory read failed", Fields{"mem": m.name, "addr": addr, "err": err})
		return 0, err
	}
	if m.verbose {
		m.log.Debug("memory read", Fields{"mem": m.name, "addr": addr, "value": b})
	}
	m.fire(HOOK_TYPE_MEM_READ, addr, b)
	return b, nil
}

func (m *Memory) TryWriteByte(addr uint64, b byte) error {
	if err := m.inner.TryWriteByte(addr, b); err != nil {
		m.log.Warn("memory write failed", Fields{"mem": m.name, "addr": addr, "value": b, "err": err})
		return err
	}
	if m.verbose {
		m.log.Debug("memory write", Fields{"mem": m.name, "addr": addr, "value": b})
	}
	m.fire(HOOK_TYPE_MEM_WRITE, addr, b)
	return nil
}

func (m *Memory) CheckRange(addr, size uint64, prot memory.MemProt) error {
	err := m.inner.CheckRange(addr, size, prot)
	if err != nil {
		m.log.Warn("memory range rejected", Fields{"mem": m.name, "addr": addr, "size": size, "prot": prot.String(), "err": err})
	}
	return err
}

func (m *Memory) fire(typ HookType, addr uint64, b byte) {
	m.hookMu.Lock()
	hooks := m.hooks
	m.hookMu.Unlock()
	for _, h := range hooks {
		if h.match(typ, addr) {
			h.callback(typ, addr, b, h.data)
		}
	}
}

func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
