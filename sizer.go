package glyphatlas

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glyphatlas/pack"
)

// DefaultInitialLog2 is the base-2 logarithm of the first atlas width and
// height tried.
const DefaultInitialLog2 = 7

// DefaultMaxDimension returns the largest atlas width or height a builder
// allocates by default: the WebGPU default 2D texture limit.
func DefaultMaxDimension() int {
	return int(gputypes.DefaultLimits().MaxTextureDimension2D)
}

// sizer finds the smallest atlas in its growth sequence that packs every
// request.
type sizer struct {
	initialLog2 int
	maxDim      int
	debug       bool
}

// fit packs rects into successively larger atlases and returns the first
// size that holds all of them. rects carry the winning placement.
//
// Growth doubles the width while the height is at least the width and
// the height otherwise. Every attempt starts from an empty packer.
func (s sizer) fit(rects []pack.Rect) (width, height int, err error) {
	var opts []pack.Option
	if s.debug {
		opts = append(opts, pack.WithDebug())
	}
	wl, hl := s.initialLog2, s.initialLog2
	for attempt := 1; ; attempt++ {
		width, height = 1<<wl, 1<<hl
		if width > s.maxDim || height > s.maxDim {
			return 0, 0, &AtlasTooLargeError{
				Width:  width,
				Height: height,
				Max:    s.maxDim,
				Rects:  len(rects),
			}
		}
		p := pack.New(width, height, width, opts...)
		if p.Pack(rects) {
			Logger().Debug("glyphatlas: atlas sized",
				"width", width, "height", height, "attempts", attempt, "rects", len(rects))
			return width, height, nil
		}
		Logger().Debug("glyphatlas: atlas too small", "width", width, "height", height)
		if hl >= wl {
			wl++
		} else {
			hl++
		}
	}
}
