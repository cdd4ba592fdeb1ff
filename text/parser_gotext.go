package text

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"math"

	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/vector"
)

// gotextParser implements Parser using github.com/go-text/typesetting.
type gotextParser struct{}

// Parse implements Parser.Parse.
func (gotextParser) Parse(data []byte) (ParsedFont, error) {
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	// Keep the Font, which is read-only and safe for concurrent use.
	return &gotextParsedFont{font: face.Font}, nil
}

type gotextParsedFont struct {
	font *gotext.Font
}

// Name implements ParsedFont.Name.
func (f *gotextParsedFont) Name() string {
	return f.font.Describe().Family
}

// Face implements ParsedFont.Face.
func (f *gotextParsedFont) Face(size float64) (Face, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	upem := float64(f.font.Upem())
	if upem == 0 {
		upem = 1000
	}
	return &gotextFace{
		face:  gotext.NewFace(f.font),
		size:  size,
		scale: float32(size / upem),
	}, nil
}

// gotextFace implements Face with font-unit extents and outlines scaled to
// pixels. Outlines are filled with a vector.Rasterizer.
type gotextFace struct {
	face  *gotext.Face
	size  float64
	scale float32
}

func (f *gotextFace) Size() float64 { return f.size }

func (f *gotextFace) glyph(r rune) gotext.GID {
	gid, ok := f.face.NominalGlyph(r)
	if !ok {
		return 0
	}
	return gid
}

func (f *gotextFace) HasGlyph(r rune) bool {
	_, ok := f.face.NominalGlyph(r)
	return ok
}

func (f *gotextFace) Bounds(r rune) Bounds {
	ext, ok := f.face.GlyphExtents(f.glyph(r))
	if !ok {
		return Bounds{}
	}
	s := float64(f.scale)
	minX := float64(ext.XBearing) * s
	maxX := float64(ext.XBearing+ext.Width) * s
	top := float64(ext.YBearing) * s
	bottom := float64(ext.YBearing+ext.Height) * s
	return Bounds{
		Left:    -int(math.Floor(minX)),
		Right:   int(math.Ceil(maxX)),
		Ascent:  int(math.Ceil(top)),
		Descent: -int(math.Floor(bottom)),
	}
}

func (f *gotextFace) Advance(r rune) float64 {
	return float64(f.face.HorizontalAdvance(f.glyph(r)) * f.scale)
}

func (f *gotextFace) DrawGlyph(dst *image.Alpha, dot image.Point, r rune) {
	b := f.Bounds(r)
	if b.Empty() {
		return
	}
	outline, ok := f.face.GlyphData(f.glyph(r)).(gotext.GlyphOutline)
	if !ok {
		return
	}

	z := vector.NewRasterizer(b.Width(), b.Height())
	// Font units, y up, to rasterizer pixels, y down, with the ink box at
	// the rasterizer origin.
	px := func(p opentype.SegmentPoint) (float32, float32) {
		return p.X*f.scale + float32(b.Left), float32(b.Ascent) - p.Y*f.scale
	}
	started := false
	for i := range outline.Segments {
		seg := &outline.Segments[i]
		switch seg.Op {
		case opentype.SegmentOpMoveTo:
			if started {
				z.ClosePath()
			}
			x, y := px(seg.Args[0])
			z.MoveTo(x, y)
			started = true
		case opentype.SegmentOpLineTo:
			x, y := px(seg.Args[0])
			z.LineTo(x, y)
		case opentype.SegmentOpQuadTo:
			x1, y1 := px(seg.Args[0])
			x2, y2 := px(seg.Args[1])
			z.QuadTo(x1, y1, x2, y2)
		case opentype.SegmentOpCubeTo:
			x1, y1 := px(seg.Args[0])
			x2, y2 := px(seg.Args[1])
			x3, y3 := px(seg.Args[2])
			z.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	if started {
		z.ClosePath()
	}

	mask := image.NewAlpha(z.Bounds())
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	r0 := mask.Bounds().Add(dot.Sub(image.Pt(b.Left, b.Ascent)))
	draw.DrawMask(dst, r0, image.White, image.Point{}, mask, image.Point{}, draw.Over)
}
