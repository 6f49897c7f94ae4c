// Package snapshot captures and restores memory contents as save-state
// images that can be serialized with a Codec.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/wnxd/memstorage/memory"
)

const Version = 1

var ErrVersion = errors.New("snapshot: unsupported image version")

type Segment struct {
	Addr uint64 `cbor:"1,keyasint" msgpack:"addr"`
	Data []byte `cbor:"2,keyasint" msgpack:"data"`
}

type Image struct {
	Version  int       `cbor:"1,keyasint" msgpack:"version"`
	Segments []Segment `cbor:"2,keyasint" msgpack:"segments"`
}

func (img Image) Size() (total uint64) {
	for _, seg := range img.Segments {
		total += uint64(len(seg.Data))
	}
	return
}

// Capture copies the given regions out of mem. Every region is checked
// before any byte is read.
func Capture(mem memory.Memory, regions ...memory.MemRegion) (Image, error) {
	for _, r := range regions {
		if err := mem.CheckRange(r.Addr, r.Size, memory.MEM_PROT_READ); err != nil {
			return Image{}, err
		}
	}
	img := Image{Version: Version, Segments: make([]Segment, 0, len(regions))}
	for _, r := range regions {
		data := make([]byte, r.Size)
		if err := memory.TryReadBytes(mem, r.Addr, data); err != nil {
			return Image{}, fmt.Errorf("snapshot: capture %016X: %w", r.Addr, err)
		}
		img.Segments = append(img.Segments, Segment{r.Addr, data})
	}
	return img, nil
}

// Restore writes img back into mem. Nothing is written unless every
// segment fits.
func Restore(mem memory.Memory, img Image) error {
	if img.Version != Version {
		return ErrVersion
	}
	for _, seg := range img.Segments {
		if err := mem.CheckRange(seg.Addr, uint64(len(seg.Data)), memory.MEM_PROT_WRITE); err != nil {
			return err
		}
	}
	for _, seg := range img.Segments {
		if err := memory.TryWriteBytes(mem, seg.Addr, seg.Data); err != nil {
			return fmt.Errorf("snapshot: restore %016X: %w", seg.Addr, err)
		}
	}
	return nil
}

// Save captures regions and encodes the image with codec.
func Save(mem memory.Memory, codec Codec[Image], regions ...memory.MemRegion) ([]byte, error) {
	img, err := Capture(mem, regions...)
	if err != nil {
		return nil, err
	}
	return codec.Encode(img)
}

// Load decodes a saved image and restores it into mem. Payloads larger
// than maxSize bytes are rejected before decoding; maxSize <= 0 disables
// the limit.
func Load(mem memory.Memory, b []byte, codec Codec[Image], maxSize int) error {
	img, err := LimitCodec[Image]{Inner: codec, MaxDecode: maxSize}.Decode(b)
	if err != nil {
		return err
	}
	return Restore(mem, img)
}
