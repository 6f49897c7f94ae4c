// Package loader copies program or ROM images into a Memory and applies
// their relocations.
package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/wnxd/memstorage/memory"
)

var ErrSymbolNotFound = errors.New("symbol not found")

type Image interface {
	ByteOrder() memory.ByteOrder
	Regions() []Region
	Relocations() []Relocation
}

// Resolver returns the address of an imported symbol.
type Resolver func(symbol, library string) (uint64, error)

// Protector is implemented by storages that can change protection after
// loading, such as banked.Memory.
type Protector interface {
	Protect(addr, size uint64, prot memory.MemProt) error
}

type patch struct {
	addr, size, value uint64
}

// Load validates every region and relocation, copies the image into mem,
// applies its relocations and finally applies region protections when mem
// supports it. Nothing is written when validation fails.
func Load(mem memory.Memory, img Image, resolve Resolver) error {
	regions := img.Regions()
	for _, r := range regions {
		if r.Length > r.MemSize() {
			return fmt.Errorf("loader: region %016X: length %d exceeds size %d: %w", r.Addr, r.Length, r.MemSize(), memory.ErrArgumentInvalid)
		}
		if r.Length > 0 && r.ReaderAt == nil {
			return fmt.Errorf("loader: region %016X: no data: %w", r.Addr, memory.ErrArgumentInvalid)
		}
		if err := mem.CheckRange(r.Addr, r.MemSize(), memory.MEM_PROT_WRITE); err != nil {
			return err
		}
	}
	rels := img.Relocations()
	patches := make([]patch, 0, len(rels))
	for _, rel := range rels {
		p, err := resolvePatch(rel, resolve)
		if err != nil {
			return err
		}
		if err = mem.CheckRange(p.addr, p.size, memory.MEM_PROT_WRITE); err != nil {
			return err
		}
		patches = append(patches, p)
	}
	for _, r := range regions {
		if err := loadRegion(mem, r); err != nil {
			return err
		}
	}
	order := img.ByteOrder()
	for _, p := range patches {
		if err := p.apply(mem, order); err != nil {
			return err
		}
	}
	if p, ok := mem.(Protector); ok {
		for _, r := range regions {
			if r.Prot == memory.MEM_PROT_NONE {
				continue
			}
			if err := p.Protect(r.Addr, r.MemSize(), r.Prot); err != nil {
				return err
			}
		}
	}
	return nil
}

func loadRegion(mem memory.Memory, r Region) error {
	data := make([]byte, r.MemSize())
	if r.Length > 0 {
		if _, err := r.ReadAt(data[:r.Length], 0); err != nil && err != io.EOF {
			return fmt.Errorf("loader: region %016X: %w", r.Addr, err)
		}
	}
	return memory.TryWriteBytes(mem, r.Addr, data)
}

func resolvePatch(rel Relocation, resolve Resolver) (p patch, err error) {
	switch rel := rel.(type) {
	case *RelocationValue:
		p = patch{rel.Addr, rel.Size, rel.Value}
	case *RelocationImport:
		if resolve == nil {
			return p, fmt.Errorf("loader: %s!%s: %w", rel.Library, rel.Symbol, ErrSymbolNotFound)
		}
		v, err := resolve(rel.Symbol, rel.Library)
		if err != nil {
			return p, fmt.Errorf("loader: %s!%s: %w", rel.Library, rel.Symbol, err)
		}
		p = patch{rel.Addr, rel.Size, v}
	default:
		return p, memory.ErrArgumentInvalid
	}
	switch p.size {
	case 1, 2, 4, 8:
		return p, nil
	}
	return p, fmt.Errorf("loader: relocation %016X: size %d: %w", p.addr, p.size, memory.ErrArgumentInvalid)
}

func (p patch) apply(mem memory.Memory, order memory.ByteOrder) error {
	switch p.size {
	case 1:
		return memory.TryWriteOrder(mem, p.addr, uint8(p.value), order)
	case 2:
		return memory.TryWriteOrder(mem, p.addr, uint16(p.value), order)
	case 4:
		return memory.TryWriteOrder(mem, p.addr, uint32(p.value), order)
	}
	return memory.TryWriteOrder(mem, p.addr, p.value, order)
}
