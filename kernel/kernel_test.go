package kernel

import (
	"errors"
	"testing"
)

func TestMemory_Grow(t *testing.T) {
	m := NewMemory(1, 3)
	view, err := m.Bytes(0, 4)
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	view[0] = 42

	if err := m.Grow(1); err != nil {
		t.Fatalf("Grow(1) error = %v", err)
	}
	if got, want := m.Size(), 2*PageSize; got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}
	if got := m.Generation(); got != 1 {
		t.Errorf("Generation() = %d, want 1", got)
	}

	// The old view no longer aliases memory.
	view[0] = 7
	fresh, _ := m.Bytes(0, 4)
	if fresh[0] != 42 {
		t.Errorf("memory[0] = %d, want 42 (contents kept, old view detached)", fresh[0])
	}

	if err := m.Grow(2); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("Grow past limit error = %v, want ErrOutOfMemory", err)
	}
}

func TestMemory_Bounds(t *testing.T) {
	m := NewMemory(1, 1)
	tests := []struct {
		name string
		fn   func() error
	}{
		{"bytes", func() error { _, err := m.Bytes(PageSize-2, 4); return err }},
		{"uint32", func() error { _, err := m.Uint32(PageSize - 2); return err }},
		{"put float", func() error { return m.PutFloat32(PageSize, 1) }},
		{"alpha", func() error { _, err := m.Alpha(PageSize-10, 8, 2, 8); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("error = %v, want ErrOutOfBounds", err)
			}
		})
	}
}

func TestMemory_Values(t *testing.T) {
	m := NewMemory(1, 1)
	if err := m.PutUint32(16, 0xdeadbeef); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Uint32(16); got != 0xdeadbeef {
		t.Errorf("Uint32() = %#x, want 0xdeadbeef", got)
	}
	if err := m.PutFloat32(32, 0.25); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Float32(32); got != 0.25 {
		t.Errorf("Float32() = %v, want 0.25", got)
	}
}

func TestHeap_AllocAlignment(t *testing.T) {
	h := NewHeap()
	a, err := h.AllocPtrs(3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.AllocBitmap(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if a%align != 0 || b%align != 0 {
		t.Errorf("addresses %d, %d not %d-byte aligned", a, b, align)
	}
	if b < a+3*PtrSize {
		t.Errorf("bitmap at %d overlaps slots at %d", b, a)
	}
	if a == 0 {
		t.Error("allocation returned address 0")
	}
	if cur := h.Current(); cur.Addr != b || cur.Width != 5 || cur.Height != 5 {
		t.Errorf("Current() = %+v, want {%d 5 5}", cur, b)
	}
}

func TestHeap_BitmapZeroed(t *testing.T) {
	h := NewHeap()
	addr, _ := h.AllocBitmap(16, 16)
	pix, _ := h.Memory().Bytes(addr, 256)
	for i := range pix {
		pix[i] = 0xff
	}
	h.Reset()
	addr2, err := h.AllocBitmap(16, 16)
	if err != nil {
		t.Fatal(err)
	}
	if addr2 != addr {
		t.Fatalf("after Reset address = %d, want %d", addr2, addr)
	}
	pix, _ = h.Memory().Bytes(addr2, 256)
	for i, v := range pix {
		if v != 0 {
			t.Fatalf("pixel %d = %d, want 0", i, v)
		}
	}
}

func TestHeap_SaveRestore(t *testing.T) {
	h := NewHeap()
	h.AllocPtrs(1)
	before := h.Top()

	h.Save()
	h.AllocPtrs(100)
	h.Save()
	inner := h.Top()
	h.AllocBitmap(10, 10)

	if err := h.Restore(); err != nil {
		t.Fatal(err)
	}
	if h.Top() != inner {
		t.Errorf("Top() after inner Restore = %d, want %d", h.Top(), inner)
	}
	if err := h.Restore(); err != nil {
		t.Fatal(err)
	}
	if h.Top() != before {
		t.Errorf("Top() after outer Restore = %d, want %d", h.Top(), before)
	}
	if err := h.Restore(); !errors.Is(err, ErrUnbalancedRestore) {
		t.Errorf("extra Restore error = %v, want ErrUnbalancedRestore", err)
	}
}

func TestHeap_GrowthAndLimit(t *testing.T) {
	h := NewHeap(WithInitialPages(1), WithMaxPages(4))
	gen := h.Memory().Generation()
	if _, err := h.AllocBitmap(256, 256); err != nil {
		t.Fatalf("AllocBitmap(256,256) error = %v", err)
	}
	if h.Memory().Generation() == gen {
		t.Error("expected memory growth")
	}
	if _, err := h.AllocBitmap(512, 512); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("oversized alloc error = %v, want ErrOutOfMemory", err)
	}
}

func TestHeap_BlurRequiresSetup(t *testing.T) {
	h := NewHeap()
	addr, _ := h.AllocBitmap(4, 4)
	if err := h.Blur(addr, 4, 4, 4); !errors.Is(err, ErrNoBlurKernel) {
		t.Errorf("Blur() error = %v, want ErrNoBlurKernel", err)
	}

	h.Save()
	if _, err := h.SetupBlur(1, 4, 4); err != nil {
		t.Fatal(err)
	}
	if err := h.Restore(); err != nil {
		t.Fatal(err)
	}
	if err := h.Blur(addr, 4, 4, 4); !errors.Is(err, ErrNoBlurKernel) {
		t.Errorf("Blur() after Restore error = %v, want ErrNoBlurKernel", err)
	}
}

func TestHeap_BlurIdentity(t *testing.T) {
	h := NewHeap()
	addr, _ := h.AllocBitmap(8, 8)
	pix, _ := h.Memory().Bytes(addr, 64)
	for i := range pix {
		pix[i] = uint8(i * 3)
	}
	want := append([]byte(nil), pix...)

	w, err := h.SetupBlur(2, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	h.Memory().PutFloat32(w+2*4, 1) // center tap only

	if err := h.Blur(addr, 8, 8, 8); err != nil {
		t.Fatal(err)
	}
	pix, _ = h.Memory().Bytes(addr, 64)
	for i := range pix {
		if pix[i] != want[i] {
			t.Fatalf("pixel %d = %d, want %d", i, pix[i], want[i])
		}
	}
}

func TestHeap_BlurSpreads(t *testing.T) {
	h := NewHeap()
	const stride = 16
	addr, _ := h.AllocBitmap(stride, 8)
	pix, _ := h.Memory().Bytes(addr, stride*8)
	pix[2*stride+2] = 200

	w, _ := h.SetupBlur(1, 5, 5)
	for i, v := range []float32{0.25, 0.5, 0.25} {
		h.Memory().PutFloat32(w+Ptr(i*4), v)
	}
	if err := h.Blur(addr, 5, 5, stride); err != nil {
		t.Fatal(err)
	}

	pix, _ = h.Memory().Bytes(addr, stride*8)
	tests := []struct {
		x, y int
		want uint8
	}{
		{2, 2, 50},
		{1, 2, 25},
		{2, 1, 25},
		{1, 1, 13}, // 12.5 rounds up
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := pix[tt.y*stride+tt.x]; got != tt.want {
			t.Errorf("pixel (%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
	// Outside the region is untouched.
	if got := pix[2*stride+5]; got != 0 {
		t.Errorf("pixel outside region = %d, want 0", got)
	}
}

func TestHeap_BlurRegionTooLarge(t *testing.T) {
	h := NewHeap()
	addr, _ := h.AllocBitmap(8, 8)
	h.SetupBlur(1, 4, 4)
	if err := h.Blur(addr, 8, 8, 8); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Blur() error = %v, want ErrInvalidArgument", err)
	}
}

func TestHeap_ResizeBatch(t *testing.T) {
	h := NewHeap()
	const stride = 64
	bm, _ := h.AllocBitmap(stride, 32)
	pairs, err := h.AllocPtrs(4)
	if err != nil {
		t.Fatal(err)
	}

	// Two solid 8x8 sources, halved into 4x4 destinations.
	pix, _ := h.Memory().Bytes(bm, stride*32)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pix[y*stride+x] = 255
			pix[y*stride+16+x] = 255
		}
	}
	src := []Ptr{bm, bm + 16}
	dst := []Ptr{bm + Ptr(16*stride), bm + Ptr(16*stride+16)}
	for i := range src {
		h.Memory().PutUint32(pairs+Ptr(2*i*PtrSize), uint32(src[i]))
		h.Memory().PutUint32(pairs+Ptr((2*i+1)*PtrSize), uint32(dst[i]))
	}

	if err := h.ResizeBatch(2, 8, 8, 4, 4, 0.5, pairs, stride); err != nil {
		t.Fatal(err)
	}

	pix, _ = h.Memory().Bytes(bm, stride*32)
	for i, d := range dst {
		img, _ := h.Memory().Alpha(d, 4, 4, stride)
		if got := img.AlphaAt(1, 1).A; got < 250 {
			t.Errorf("pair %d center = %d, want ~255", i, got)
		}
	}
	// Nothing written right of the destination.
	if got := pix[16*stride+4]; got != 0 {
		t.Errorf("pixel right of destination = %d, want 0", got)
	}
}

func TestHeap_ResizeBadPointer(t *testing.T) {
	h := NewHeap(WithInitialPages(1), WithMaxPages(1))
	pairs, _ := h.AllocPtrs(2)
	h.Memory().PutUint32(pairs, uint32(PageSize-4))
	h.Memory().PutUint32(pairs+PtrSize, uint32(heapBase))
	err := h.ResizeBatch(1, 8, 8, 4, 4, 0.5, pairs, 8)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ResizeBatch() error = %v, want ErrOutOfBounds", err)
	}
}

func TestTrampoline(t *testing.T) {
	err := trampoline("op", func() error {
		var s []int
		_ = s[3]
		return nil
	})
	var fault *FaultError
	if !errors.As(err, &fault) {
		t.Fatalf("error = %v, want *FaultError", err)
	}
	if fault.Op != "op" {
		t.Errorf("Op = %q, want %q", fault.Op, "op")
	}

	want := errors.New("boom")
	err = trampoline("op", func() error { panic(want) })
	if !errors.Is(err, want) {
		t.Errorf("error = %v, want wrapping %v", err, want)
	}
}
