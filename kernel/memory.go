package kernel

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
)

// PageSize is the memory growth granularity.
const PageSize = 64 << 10

// PtrSize is the size of one pointer slot in memory.
const PtrSize = 4

// DefaultMaxPages limits memory to 1 GiB.
const DefaultMaxPages = 1 << 14

// Ptr is a byte address in kernel memory.
type Ptr uint32

// Memory is a growable linear byte buffer.
//
// Grow replaces the backing slice, so views returned by Bytes and Alpha
// are invalidated by any growth. Generation increments on every growth.
type Memory struct {
	buf        []byte
	maxPages   int
	generation int
}

// NewMemory creates a memory of initialPages pages that may grow to
// maxPages pages.
func NewMemory(initialPages, maxPages int) *Memory {
	if initialPages < 0 {
		initialPages = 0
	}
	if maxPages < initialPages {
		maxPages = initialPages
	}
	return &Memory{
		buf:      make([]byte, initialPages*PageSize),
		maxPages: maxPages,
	}
}

// Size returns the memory size in bytes.
func (m *Memory) Size() int { return len(m.buf) }

// Pages returns the memory size in pages.
func (m *Memory) Pages() int { return len(m.buf) / PageSize }

// MaxPages returns the page limit.
func (m *Memory) MaxPages() int { return m.maxPages }

// Generation returns the number of times memory has grown.
func (m *Memory) Generation() int { return m.generation }

// Grow adds delta pages.
func (m *Memory) Grow(delta int) error {
	if delta < 0 {
		return fmt.Errorf("%w: grow by %d pages", ErrInvalidArgument, delta)
	}
	if delta == 0 {
		return nil
	}
	pages := m.Pages() + delta
	if pages > m.maxPages {
		return fmt.Errorf("%w: %d pages requested, limit %d", ErrOutOfMemory, pages, m.maxPages)
	}
	buf := make([]byte, pages*PageSize)
	copy(buf, m.buf)
	m.buf = buf
	m.generation++
	return nil
}

func (m *Memory) check(addr Ptr, n int) error {
	if n < 0 || int(addr)+n > len(m.buf) {
		return boundsError(addr, n, len(m.buf))
	}
	return nil
}

// Bytes returns a view of n bytes at addr.
func (m *Memory) Bytes(addr Ptr, n int) ([]byte, error) {
	if err := m.check(addr, n); err != nil {
		return nil, err
	}
	return m.buf[addr : int(addr)+n : int(addr)+n], nil
}

// Uint32 reads a little-endian uint32 at addr.
func (m *Memory) Uint32(addr Ptr) (uint32, error) {
	if err := m.check(addr, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.buf[addr:]), nil
}

// PutUint32 writes a little-endian uint32 at addr.
func (m *Memory) PutUint32(addr Ptr, v uint32) error {
	if err := m.check(addr, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.buf[addr:], v)
	return nil
}

// Float32 reads a little-endian float32 at addr.
func (m *Memory) Float32(addr Ptr) (float32, error) {
	v, err := m.Uint32(addr)
	return math.Float32frombits(v), err
}

// PutFloat32 writes a little-endian float32 at addr.
func (m *Memory) PutFloat32(addr Ptr, v float32) error {
	return m.PutUint32(addr, math.Float32bits(v))
}

// Alpha returns a w x h single-channel image view at addr with the given
// row stride. Its bounds start at (0, 0).
func (m *Memory) Alpha(addr Ptr, w, h, stride int) (*image.Alpha, error) {
	if w < 0 || h < 0 || stride < w {
		return nil, fmt.Errorf("%w: view %dx%d stride %d", ErrInvalidArgument, w, h, stride)
	}
	n := 0
	if w > 0 && h > 0 {
		n = (h-1)*stride + w
	}
	pix, err := m.Bytes(addr, n)
	if err != nil {
		return nil, err
	}
	return &image.Alpha{Pix: pix, Stride: stride, Rect: image.Rect(0, 0, w, h)}, nil
}
