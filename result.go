package glyphatlas

import (
	"image"

	"github.com/gogpu/gputypes"
)

// Bitmap is a single-channel atlas texture, one byte per pixel, rows
// packed without padding.
type Bitmap struct {
	Data   []byte `cbor:"data"`
	Width  int    `cbor:"width"`
	Height int    `cbor:"height"`
}

// Alpha returns an image view sharing b's pixels.
func (b *Bitmap) Alpha() *image.Alpha {
	return &image.Alpha{
		Pix:    b.Data,
		Stride: b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// TextureDescriptor describes a sampled R8Unorm texture that holds b.
func (b *Bitmap) TextureDescriptor(label string) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label:         label,
		Size:          gputypes.NewExtent2D(uint32(b.Width), uint32(b.Height)),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}

// DataLayout describes b.Data for a texture write.
func (b *Bitmap) DataLayout() gputypes.TextureDataLayout {
	return gputypes.TextureDataLayout{
		BytesPerRow:  uint32(b.Width),
		RowsPerImage: uint32(b.Height),
	}
}

// CellDimension is the size of one terminal cell in pixels.
type CellDimension struct {
	// Width is the advance of "W".
	Width float64 `cbor:"width"`

	// Height is the common ascent plus the common descent.
	Height int `cbor:"height"`
}

// PassInfo carries per-pass renderer settings.
type PassInfo struct {
	PostMultiplier float64 `cbor:"post_multiplier"`
}

// Result is a finished atlas. It is immutable and safe to share.
type Result struct {
	Bitmap Bitmap        `cbor:"bitmap"`
	Cell   CellDimension `cbor:"cell"`
	Passes []PassInfo    `cbor:"passes"`

	// Lookup maps a codepoint to its entries, one per pass.
	Lookup map[rune][]*LookupEntry `cbor:"lookup"`
}

// Entry returns the entry of cp in pass, or nil.
func (r *Result) Entry(cp rune, pass int) *LookupEntry {
	entries := r.Lookup[cp]
	if pass < 0 || pass >= len(entries) {
		return nil
	}
	return entries[pass]
}
