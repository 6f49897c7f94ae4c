package memory

import "errors"

var errByteFault = errors.New("byte fault")

// byteMemory exposes only the byte accessors so the codec takes the
// byte-wise path.
type byteMemory struct {
	ram    []byte
	reads  int
	writes int
}

func newByteMemory(data ...byte) *byteMemory {
	return &byteMemory{ram: data}
}

func (m *byteMemory) TryReadByte(addr uint64) (byte, error) {
	m.reads++
	if addr >= uint64(len(m.ram)) {
		return 0, errByteFault
	}
	return m.ram[addr], nil
}

func (m *byteMemory) TryWriteByte(addr uint64, b byte) error {
	m.writes++
	if addr >= uint64(len(m.ram)) {
		return errByteFault
	}
	m.ram[addr] = b
	return nil
}

func (m *byteMemory) CheckRange(addr, size uint64, prot MemProt) error {
	if n := uint64(len(m.ram)); addr > n || size > n-addr {
		return errByteFault
	}
	return nil
}

// holeMemory fails reads at a single address inside an otherwise valid range.
type holeMemory struct {
	byteMemory
	hole uint64
}

func (m *holeMemory) TryReadByte(addr uint64) (byte, error) {
	if addr == m.hole {
		m.reads++
		return 0, errByteFault
	}
	return m.byteMemory.TryReadByte(addr)
}
