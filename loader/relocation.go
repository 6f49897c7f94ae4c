package loader

type Relocation interface {
	rel()
}

// RelocationValue stores Value as a Size-byte integer at Addr.
type RelocationValue struct {
	Addr, Size, Value uint64
}

// RelocationImport stores the resolved address of Symbol at Addr.
type RelocationImport struct {
	Addr, Size      uint64
	Symbol, Library string
}

func (*RelocationValue) rel()  {}
func (*RelocationImport) rel() {}
