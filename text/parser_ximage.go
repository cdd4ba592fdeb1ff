package text

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ximageParser implements Parser using golang.org/x/image/font/opentype.
type ximageParser struct{}

// Parse implements Parser.Parse.
func (ximageParser) Parse(data []byte) (ParsedFont, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	return &ximageParsedFont{font: f}, nil
}

// ximageParsedFont implements ParsedFont using sfnt.Font.
type ximageParsedFont struct {
	font *opentype.Font
}

// Name implements ParsedFont.Name.
func (f *ximageParsedFont) Name() string {
	if name, err := f.font.Name(nil, sfnt.NameIDFamily); err == nil {
		return name
	}
	return ""
}

// Face implements ParsedFont.Face.
func (f *ximageParsedFont) Face(size float64) (Face, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	otFace, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("text: failed to create face: %w", err)
	}
	return &ximageFace{
		font: f.font,
		face: otFace,
		size: size,
		ppem: fixed.Int26_6(size * 64),
	}, nil
}

// ximageFace implements Face with an sfnt.Font for metrics and an
// opentype face for drawing.
type ximageFace struct {
	font *opentype.Font
	face font.Face
	size float64
	ppem fixed.Int26_6
	buf  sfnt.Buffer
}

func (f *ximageFace) Size() float64 { return f.size }

func (f *ximageFace) glyph(r rune) sfnt.GlyphIndex {
	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil {
		return 0
	}
	return idx
}

func (f *ximageFace) HasGlyph(r rune) bool {
	return f.glyph(r) != 0
}

func (f *ximageFace) Bounds(r rune) Bounds {
	b, _, err := f.font.GlyphBounds(&f.buf, f.glyph(r), f.ppem, font.HintingFull)
	if err != nil {
		return Bounds{}
	}
	return Bounds{
		Left:    -b.Min.X.Floor(),
		Right:   b.Max.X.Ceil(),
		Ascent:  -b.Min.Y.Floor(),
		Descent: b.Max.Y.Ceil(),
	}
}

func (f *ximageFace) Advance(r rune) float64 {
	adv, err := f.font.GlyphAdvance(&f.buf, f.glyph(r), f.ppem, font.HintingFull)
	if err != nil {
		return 0
	}
	return fixedToFloat64(adv)
}

func (f *ximageFace) DrawGlyph(dst *image.Alpha, dot image.Point, r rune) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: f.face,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(string(r))
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
