package loader

import (
	"bytes"

	"github.com/wnxd/memstorage/memory"
)

type rawImage struct {
	order   memory.ByteOrder
	regions []Region
}

// Raw wraps a flat binary, such as a ROM dump, loaded as one region at addr.
func Raw(data []byte, addr uint64, prot memory.MemProt, order memory.ByteOrder) Image {
	size := uint64(len(data))
	return &rawImage{order, []Region{{
		Addr:     addr,
		Size:     size,
		Length:   size,
		Prot:     prot,
		ReaderAt: bytes.NewReader(data),
	}}}
}

func (img *rawImage) ByteOrder() memory.ByteOrder {
	return img.order
}

func (img *rawImage) Regions() []Region {
	return img.regions
}

func (img *rawImage) Relocations() []Relocation {
	return nil
}
