package kernel

import (
	"fmt"
	"math"
)

// SetupBlur allocates the weight array for a blur of the given radius and
// sizes scratch space for regions up to maxWidth x maxHeight. The caller
// fills the 2*radius+1 float32 weights at the returned address before
// calling Blur. Weights are read at every Blur call.
func (h *Heap) SetupBlur(radius, maxWidth, maxHeight int) (Ptr, error) {
	var addr Ptr
	err := trampoline("setup_blur", func() error {
		if radius < 0 || maxWidth < 0 || maxHeight < 0 {
			return fmt.Errorf("%w: blur radius %d max %dx%d", ErrInvalidArgument, radius, maxWidth, maxHeight)
		}
		n := 2*radius + 1
		var err error
		addr, err = h.alloc(n * 4)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := h.mem.PutFloat32(addr+Ptr(i*4), 0); err != nil {
				return err
			}
		}
		capacity := maxWidth * maxHeight
		if cap(h.scratch) < capacity {
			h.scratch = make([]float32, capacity)
		}
		h.blur = blurState{weights: addr, radius: radius, capacity: capacity, ready: true}
		return nil
	})
	return addr, err
}

// Blur applies the separable blur in place. Pixels outside the region
// count as zero. Results are rounded and clamped to [0, 255].
func (h *Heap) Blur(bitmap Ptr, width, height, stride int) error {
	return trampoline("blur", func() error {
		if !h.blur.ready {
			return ErrNoBlurKernel
		}
		if width < 0 || height < 0 || width*height > h.blur.capacity {
			return fmt.Errorf("%w: blur region %dx%d exceeds scratch of %d pixels",
				ErrInvalidArgument, width, height, h.blur.capacity)
		}
		if width == 0 || height == 0 {
			return nil
		}
		if err := h.loadWeights(); err != nil {
			return err
		}
		img, err := h.mem.Alpha(bitmap, width, height, stride)
		if err != nil {
			return err
		}
		blurAlpha(img.Pix, width, height, stride, h.weights, h.scratch[:width*height])
		return nil
	})
}

func (h *Heap) loadWeights() error {
	n := 2*h.blur.radius + 1
	if cap(h.weights) < n {
		h.weights = make([]float32, n)
	}
	h.weights = h.weights[:n]
	for i := range h.weights {
		v, err := h.mem.Float32(h.blur.weights + Ptr(i*4))
		if err != nil {
			return err
		}
		h.weights[i] = v
	}
	return nil
}

// blurAlpha convolves horizontally into tmp, then vertically back into pix.
func blurAlpha(pix []byte, width, height, stride int, weights, tmp []float32) {
	radius := len(weights) / 2

	for y := 0; y < height; y++ {
		row := pix[y*stride : y*stride+width]
		for x := 0; x < width; x++ {
			var sum float32
			for i, w := range weights {
				sx := x + i - radius
				if sx < 0 || sx >= width {
					continue
				}
				sum += w * float32(row[sx])
			}
			tmp[y*width+x] = sum
		}
	}

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			var sum float32
			for i, w := range weights {
				sy := y + i - radius
				if sy < 0 || sy >= height {
					continue
				}
				sum += w * tmp[sy*width+x]
			}
			pix[y*stride+x] = clampUint8(sum)
		}
	}
}

func clampUint8(v float32) uint8 {
	if v <= 0 || math.IsNaN(float64(v)) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
