// Package banked implements a paged address space whose windows are
// backed by switchable banks, the layout used by cartridge mappers and
// banked RAM. A Memory is not safe for concurrent use.
package banked

import (
	"math/bits"

	"github.com/wnxd/memstorage/memory"
)

type window struct {
	bank int
	page uint64
	prot memory.MemProt
}

type Memory struct {
	pageShift uint
	pageMask  uint64
	windows   []window
	banks     [][]byte
}

var _ memory.Memory = (*Memory)(nil)

// New creates an address space of count windows of pageSize bytes each,
// all unmapped. pageSize must be a power of two.
func New(pageSize uint64, count int) (*Memory, error) {
	if !memory.IsPow2(pageSize) || count <= 0 {
		return nil, memory.ErrArgumentInvalid
	}
	if hi, _ := bits.Mul64(pageSize, uint64(count)); hi != 0 {
		return nil, memory.ErrArgumentInvalid
	}
	m := &Memory{
		pageShift: uint(bits.TrailingZeros64(pageSize)),
		pageMask:  pageSize - 1,
		windows:   make([]window, count),
	}
	for i := range m.windows {
		m.windows[i].bank = -1
	}
	return m, nil
}

func (m *Memory) PageSize() uint64 {
	return m.pageMask + 1
}

func (m *Memory) Size() uint64 {
	return uint64(len(m.windows)) << m.pageShift
}

// AddBank registers data as a bank and returns its id. The length of data
// must be a non-zero multiple of the page size. data is not copied.
func (m *Memory) AddBank(data []byte) (int, error) {
	if len(data) == 0 || uint64(len(data))&m.pageMask != 0 {
		return -1, memory.ErrArgumentInvalid
	}
	m.banks = append(m.banks, data)
	return len(m.banks) - 1, nil
}

func (m *Memory) BankPages(bank int) uint64 {
	if bank < 0 || bank >= len(m.banks) {
		return 0
	}
	return uint64(len(m.banks[bank])) >> m.pageShift
}

// Map maps size bytes at addr to consecutive pages of bank starting at
// page. addr is aligned down and size up to the page size.
func (m *Memory) Map(addr, size uint64, bank int, page uint64, prot memory.MemProt) error {
	first, count, err := m.pages(addr, size, prot)
	if err != nil {
		return err
	}
	if n := m.BankPages(bank); n == 0 || page >= n || count > n-page {
		return memory.ErrArgumentInvalid
	}
	for i := uint64(0); i < count; i++ {
		m.windows[first+i] = window{bank, page + i, prot}
	}
	return nil
}

func (m *Memory) Unmap(addr, size uint64) error {
	first, count, err := m.pages(addr, size, memory.MEM_PROT_NONE)
	if err != nil {
		return err
	}
	for i := uint64(0); i < count; i++ {
		m.windows[first+i] = window{bank: -1}
	}
	return nil
}

// pages returns the window span covering [addr, addr+size). An empty range
// is invalid.
func (m *Memory) pages(addr, size uint64, prot memory.MemProt) (first, count uint64, err error) {
	if size == 0 {
		return 0, 0, memory.ErrArgumentInvalid
	}
	if addr+size < addr {
		return 0, 0, memory.NewAccessError(prot, addr, size, memory.ErrOutOfBounds)
	}
	first = addr >> m.pageShift
	count = (addr+size-1)>>m.pageShift - first + 1
	if first >= uint64(len(m.windows)) || count > uint64(len(m.windows))-first {
		return 0, 0, memory.NewAccessError(prot, addr, size, memory.ErrOutOfBounds)
	}
	return first, count, nil
}

// Switch selects which page of its current bank the window holding addr
// shows.
func (m *Memory) Switch(addr, page uint64) error {
	w, err := m.window(addr, memory.MEM_PROT_NONE)
	if err != nil {
		return err
	}
	if page >= m.BankPages(w.bank) {
		return memory.ErrArgumentInvalid
	}
	w.page = page
	return nil
}

func (m *Memory) Protect(addr, size uint64, prot memory.MemProt) error {
	if err := m.CheckRange(addr, size, memory.MEM_PROT_NONE); err != nil || size == 0 {
		return err
	}
	for i := addr >> m.pageShift; i <= (addr+size-1)>>m.pageShift; i++ {
		m.windows[i].prot = prot
	}
	return nil
}

// Regions lists mapped ranges, merging neighbours with equal protection.
func (m *Memory) Regions() []memory.MemRegion {
	var regions []memory.MemRegion
	for i, w := range m.windows {
		if w.bank < 0 {
			continue
		}
		addr := uint64(i) << m.pageShift
		if n := len(regions); n > 0 && regions[n-1].End() == addr && regions[n-1].Prot == w.prot {
			regions[n-1].Size += m.PageSize()
			continue
		}
		regions = append(regions, memory.MemRegion{Addr: addr, Size: m.PageSize(), Prot: w.prot})
	}
	return regions
}

func (m *Memory) window(addr uint64, prot memory.MemProt) (*window, error) {
	i := addr >> m.pageShift
	if i >= uint64(len(m.windows)) {
		return nil, memory.NewAccessError(prot, addr, 1, memory.ErrOutOfBounds)
	}
	w := &m.windows[i]
	if w.bank < 0 {
		return nil, memory.NewAccessError(prot, addr, 1, memory.ErrUnmapped)
	}
	return w, nil
}

func (m *Memory) locate(addr uint64, prot memory.MemProt) ([]byte, uint64, error) {
	w, err := m.window(addr, prot)
	if err != nil {
		return nil, 0, err
	}
	if err = checkProt(w.prot, prot, addr, 1); err != nil {
		return nil, 0, err
	}
	return m.banks[w.bank], w.page<<m.pageShift | addr&m.pageMask, nil
}

func checkProt(have, want memory.MemProt, addr, size uint64) error {
	if want&memory.MEM_PROT_WRITE != 0 && have&memory.MEM_PROT_WRITE == 0 {
		return memory.NewAccessError(want, addr, size, memory.ErrReadOnly)
	}
	if want&^memory.MEM_PROT_WRITE&^have != 0 {
		return memory.NewAccessError(want, addr, size, memory.ErrAccessDenied)
	}
	return nil
}

func (m *Memory) TryReadByte(addr uint64) (byte, error) {
	bank, off, err := m.locate(addr, memory.MEM_PROT_READ)
	if err != nil {
		return 0, err
	}
	return bank[off], nil
}

func (m *Memory) TryWriteByte(addr uint64, b byte) error {
	bank, off, err := m.locate(addr, memory.MEM_PROT_WRITE)
	if err != nil {
		return err
	}
	bank[off] = b
	return nil
}

// CheckRange validates every window touched by addr..addr+size-1.
func (m *Memory) CheckRange(addr, size uint64, prot memory.MemProt) error {
	if size == 0 {
		if addr > m.Size() {
			return memory.NewAccessError(prot, addr, size, memory.ErrOutOfBounds)
		}
		return nil
	}
	last := addr + size - 1
	if last < addr || last >= m.Size() {
		return memory.NewAccessError(prot, addr, size, memory.ErrOutOfBounds)
	}
	for i := addr >> m.pageShift; i <= last>>m.pageShift; i++ {
		w := m.windows[i]
		begin := max(addr, i<<m.pageShift)
		if w.bank < 0 {
			return memory.NewAccessError(prot, begin, size, memory.ErrUnmapped)
		}
		if err := checkProt(w.prot, prot, begin, size); err != nil {
			return err
		}
	}
	return nil
}
