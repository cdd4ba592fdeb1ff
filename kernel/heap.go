package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Kernel is the operation set the atlas compositor drives.
//
// Addresses returned by allocating operations stay valid until Reset or
// until a Restore releases them. Slices obtained from Memory do not: any
// allocating call may grow memory and invalidate them.
type Kernel interface {
	// Reset discards all allocations and checkpoints.
	Reset()

	// AllocBitmap allocates a zeroed width x height one-byte-per-pixel
	// bitmap and makes it current.
	AllocBitmap(width, height int) (Ptr, error)

	// AllocPtrs allocates an uninitialized array of count pointer slots.
	AllocPtrs(count int) (Ptr, error)

	// Save pushes the current allocation position.
	Save()

	// Restore frees everything allocated since the matching Save.
	Restore() error

	// SetupBlur allocates a 2*radius+1 float32 weight array for the caller
	// to fill and scratch space for blurring regions up to
	// maxWidth x maxHeight.
	SetupBlur(radius, maxWidth, maxHeight int) (Ptr, error)

	// Blur convolves the width x height region at bitmap with the current
	// weights, horizontally and then vertically, in place.
	Blur(bitmap Ptr, width, height, stride int) error

	// ResizeBatch resamples count srcW x srcH regions into dstW x dstH
	// regions. pairs holds count (src, dst) address pairs.
	ResizeBatch(count, srcW, srcH, dstW, dstH int, scale float64, pairs Ptr, stride int) error

	// Memory returns the kernel memory.
	Memory() *Memory
}

// heapBase keeps address 0 unused.
const heapBase Ptr = 1024

const align = 16

// Bitmap describes an allocated bitmap.
type Bitmap struct {
	Addr          Ptr
	Width, Height int
}

type blurState struct {
	weights  Ptr
	radius   int
	capacity int
	ready    bool
}

// HeapOption configures a Heap.
type HeapOption func(*heapConfig)

type heapConfig struct {
	initialPages int
	maxPages     int
}

// WithInitialPages sets the initial memory size.
func WithInitialPages(n int) HeapOption {
	return func(c *heapConfig) { c.initialPages = n }
}

// WithMaxPages sets the memory page limit.
func WithMaxPages(n int) HeapOption {
	return func(c *heapConfig) { c.maxPages = n }
}

// Heap is the pure-Go Kernel: a bump allocator over a Memory.
type Heap struct {
	mem     *Memory
	top     Ptr
	saves   []Ptr
	current Bitmap
	blur    blurState
	scratch []float32
	weights []float32
	logger  *slog.Logger
}

var _ Kernel = (*Heap)(nil)

// NewHeap creates a heap with two initial pages and DefaultMaxPages.
func NewHeap(opts ...HeapOption) *Heap {
	cfg := heapConfig{initialPages: 2, maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Heap{
		mem:    NewMemory(cfg.initialPages, cfg.maxPages),
		top:    heapBase,
		logger: slog.New(discard{}),
	}
}

// SetLogger sets the logger used for memory diagnostics.
// Pass nil to disable logging.
func (h *Heap) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discard{})
	}
	h.logger = l
}

// Memory returns the heap's memory.
func (h *Heap) Memory() *Memory { return h.mem }

// Top returns the current allocation position.
func (h *Heap) Top() Ptr { return h.top }

// Depth returns the number of outstanding checkpoints.
func (h *Heap) Depth() int { return len(h.saves) }

// Current returns the current bitmap.
func (h *Heap) Current() Bitmap { return h.current }

// Reset discards all allocations and checkpoints.
func (h *Heap) Reset() {
	h.top = heapBase
	h.saves = h.saves[:0]
	h.current = Bitmap{}
	h.blur = blurState{}
}

func (h *Heap) alloc(n int) (Ptr, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: allocation of %d bytes", ErrInvalidArgument, n)
	}
	addr := (int(h.top) + align - 1) &^ (align - 1)
	end := addr + n
	if uint64(end) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d bytes at %d", ErrOutOfMemory, n, addr)
	}
	if end > h.mem.Size() {
		need := (end - h.mem.Size() + PageSize - 1) / PageSize
		if err := h.mem.Grow(need); err != nil {
			return 0, err
		}
		h.logger.Debug("kernel: memory grown",
			"pages", h.mem.Pages(), "generation", h.mem.Generation())
	}
	h.top = Ptr(end)
	return Ptr(addr), nil
}

// AllocBitmap allocates a zeroed bitmap and makes it current.
func (h *Heap) AllocBitmap(width, height int) (Ptr, error) {
	var addr Ptr
	err := trampoline("alloc_bitmap", func() error {
		if width < 0 || height < 0 {
			return fmt.Errorf("%w: bitmap %dx%d", ErrInvalidArgument, width, height)
		}
		var err error
		addr, err = h.alloc(width * height)
		if err != nil {
			return err
		}
		pix, err := h.mem.Bytes(addr, width*height)
		if err != nil {
			return err
		}
		clear(pix)
		h.current = Bitmap{Addr: addr, Width: width, Height: height}
		return nil
	})
	return addr, err
}

// AllocPtrs allocates count pointer slots.
func (h *Heap) AllocPtrs(count int) (Ptr, error) {
	var addr Ptr
	err := trampoline("alloc_ptrs", func() error {
		var err error
		addr, err = h.alloc(count * PtrSize)
		return err
	})
	return addr, err
}

// Save pushes the current allocation position.
func (h *Heap) Save() {
	h.saves = append(h.saves, h.top)
}

// Restore pops the last checkpoint, releasing everything allocated since.
// A blur kernel allocated after the checkpoint is released with it.
func (h *Heap) Restore() error {
	if len(h.saves) == 0 {
		return ErrUnbalancedRestore
	}
	h.top = h.saves[len(h.saves)-1]
	h.saves = h.saves[:len(h.saves)-1]
	if h.blur.ready && h.blur.weights >= h.top {
		h.blur = blurState{}
	}
	return nil
}

// discard is a slog.Handler that drops all records.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }
