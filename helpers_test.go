package glyphatlas

import (
	"image"
	"log/slog"

	"github.com/gogpu/glyphatlas/kernel"
	"github.com/gogpu/glyphatlas/text"
)

// fakeFace is a text.Face with fixed bounds. DrawGlyph fills the ink box.
type fakeFace struct {
	bounds  map[rune]text.Bounds
	def     text.Bounds
	advance float64
}

func newFakeFace(bounds map[rune]text.Bounds) *fakeFace {
	return &fakeFace{bounds: bounds, advance: 12}
}

func (f *fakeFace) Size() float64 { return 20 }

func (f *fakeFace) Bounds(r rune) text.Bounds {
	if b, ok := f.bounds[r]; ok {
		return b
	}
	return f.def
}

func (f *fakeFace) Advance(rune) float64 { return f.advance }

func (f *fakeFace) HasGlyph(r rune) bool {
	_, ok := f.bounds[r]
	return ok
}

func (f *fakeFace) DrawGlyph(dst *image.Alpha, dot image.Point, r rune) {
	ink := f.Bounds(r).Rect().Add(dot).Intersect(dst.Rect)
	for y := ink.Min.Y; y < ink.Max.Y; y++ {
		for x := ink.Min.X; x < ink.Max.X; x++ {
			dst.Pix[dst.PixOffset(x, y)] = 0xff
		}
	}
}

// box returns bounds with the origin at the bottom-left ink corner.
func box(w, h int) text.Bounds {
	return text.Bounds{Right: w, Ascent: h}
}

type resizeCall struct {
	count, srcW, srcH, dstW, dstH int
	scale                         float64
}

// recordingKernel records the calls the compositor makes and can fail one
// operation on demand.
type recordingKernel struct {
	*kernel.Heap

	resets   int
	saves    int
	restores int
	setups   []int
	blurs    int
	resizes  []resizeCall
	logger   *slog.Logger

	failOp  string
	failErr error
}

func newRecordingKernel(opts ...kernel.HeapOption) *recordingKernel {
	return &recordingKernel{Heap: kernel.NewHeap(opts...)}
}

func (k *recordingKernel) fail(op string) error {
	if k.failOp == op {
		return k.failErr
	}
	return nil
}

func (k *recordingKernel) SetLogger(l *slog.Logger) {
	k.logger = l
	k.Heap.SetLogger(l)
}

func (k *recordingKernel) Reset() {
	k.resets++
	k.Heap.Reset()
}

func (k *recordingKernel) Save() {
	k.saves++
	k.Heap.Save()
}

func (k *recordingKernel) Restore() error {
	k.restores++
	return k.Heap.Restore()
}

func (k *recordingKernel) AllocBitmap(w, h int) (kernel.Ptr, error) {
	if err := k.fail("alloc"); err != nil {
		return 0, err
	}
	return k.Heap.AllocBitmap(w, h)
}

func (k *recordingKernel) SetupBlur(radius, maxW, maxH int) (kernel.Ptr, error) {
	k.setups = append(k.setups, radius)
	if err := k.fail("setup"); err != nil {
		return 0, err
	}
	return k.Heap.SetupBlur(radius, maxW, maxH)
}

func (k *recordingKernel) Blur(bitmap kernel.Ptr, w, h, stride int) error {
	k.blurs++
	if err := k.fail("blur"); err != nil {
		return err
	}
	return k.Heap.Blur(bitmap, w, h, stride)
}

func (k *recordingKernel) ResizeBatch(count, srcW, srcH, dstW, dstH int, scale float64, pairs kernel.Ptr, stride int) error {
	k.resizes = append(k.resizes, resizeCall{count, srcW, srcH, dstW, dstH, scale})
	if err := k.fail("resize"); err != nil {
		return err
	}
	return k.Heap.ResizeBatch(count, srcW, srcH, dstW, dstH, scale, pairs, stride)
}

var _ kernel.Kernel = (*recordingKernel)(nil)
