package memory

import (
	"encoding/binary"
	"strings"
)

type ByteOrder int

const (
	BO_LITTLE_ENDIAN ByteOrder = iota
	BO_BIG_ENDIAN
)

func (bo ByteOrder) String() string {
	if bo == BO_BIG_ENDIAN {
		return "big-endian"
	}
	return "little-endian"
}

func (bo ByteOrder) binary() binary.ByteOrder {
	if bo == BO_BIG_ENDIAN {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

type MemProt int

const (
	MEM_PROT_NONE MemProt = 0
	MEM_PROT_READ MemProt = 1 << (iota - 1)
	MEM_PROT_WRITE
	MEM_PROT_EXEC

	MEM_PROT_ALL = MEM_PROT_READ | MEM_PROT_WRITE | MEM_PROT_EXEC
)

func (prot MemProt) String() string {
	if prot == MEM_PROT_NONE {
		return "---"
	}
	var sb strings.Builder
	for _, p := range [...]struct {
		bit MemProt
		c   byte
	}{{MEM_PROT_READ, 'r'}, {MEM_PROT_WRITE, 'w'}, {MEM_PROT_EXEC, 'x'}} {
		if prot&p.bit != 0 {
			sb.WriteByte(p.c)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

type MemRegion struct {
	Addr, Size uint64
	Prot       MemProt
}

func (r MemRegion) End() uint64 {
	return r.Addr + r.Size
}

func (r MemRegion) Contains(addr uint64) bool {
	return addr >= r.Addr && addr-r.Addr < r.Size
}
