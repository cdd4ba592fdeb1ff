package kernel

import (
	"fmt"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Resampler is the interpolator used by ResizeBatch.
var Resampler draw.Interpolator = draw.CatmullRom

// ResizeBatch resamples count regions. For pair i, the srcW x srcH region
// at pairs[2i] is scaled by scale into the dstW x dstH region at
// pairs[2i+1]. Both regions share the row stride. Destination pixels not
// covered by the scaled source are left unchanged.
func (h *Heap) ResizeBatch(count, srcW, srcH, dstW, dstH int, scale float64, pairs Ptr, stride int) error {
	return trampoline("resize_batch", func() error {
		if count < 0 || scale <= 0 {
			return fmt.Errorf("%w: resize count %d scale %g", ErrInvalidArgument, count, scale)
		}
		s2d := f64.Aff3{
			scale, 0, 0,
			0, scale, 0,
		}
		for i := 0; i < count; i++ {
			slot := pairs + Ptr(2*i*PtrSize)
			src, err := h.mem.Uint32(slot)
			if err != nil {
				return err
			}
			dst, err := h.mem.Uint32(slot + PtrSize)
			if err != nil {
				return err
			}
			srcImg, err := h.mem.Alpha(Ptr(src), srcW, srcH, stride)
			if err != nil {
				return fmt.Errorf("resize pair %d source: %w", i, err)
			}
			dstImg, err := h.mem.Alpha(Ptr(dst), dstW, dstH, stride)
			if err != nil {
				return fmt.Errorf("resize pair %d destination: %w", i, err)
			}
			Resampler.Transform(dstImg, s2d, srcImg, srcImg.Bounds(), draw.Src, nil)
		}
		return nil
	})
}
