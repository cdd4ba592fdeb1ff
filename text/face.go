package text

import "image"

// Bounds is the ink extent of a glyph in whole pixels, measured from the
// glyph origin on the baseline. Left and Ascent extend left of and above
// the origin, Right and Descent extend right of and below it. A glyph whose
// ink starts right of the origin has a negative Left.
type Bounds struct {
	Left, Right     int
	Ascent, Descent int
}

// Width returns Left + Right.
func (b Bounds) Width() int { return b.Left + b.Right }

// Height returns Ascent + Descent.
func (b Bounds) Height() int { return b.Ascent + b.Descent }

// Empty reports whether the glyph has no ink area.
func (b Bounds) Empty() bool { return b.Width() <= 0 || b.Height() <= 0 }

// Rect returns the ink rectangle relative to the origin, y down.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(-b.Left, -b.Ascent, b.Right, b.Descent)
}

// Face is a font at one pixel size.
//
// Face is not safe for concurrent use. Obtain one Face per goroutine from
// a FontSource or Library.
type Face interface {
	// Size returns the pixel size.
	Size() float64

	// Bounds returns the ink bounds of r.
	Bounds(r rune) Bounds

	// Advance returns the horizontal advance of r in pixels.
	Advance(r rune) float64

	// HasGlyph reports whether the font maps r to a glyph.
	HasGlyph(r rune) bool

	// DrawGlyph draws r with its origin at dot, compositing full coverage
	// over dst.
	DrawGlyph(dst *image.Alpha, dot image.Point, r rune)
}
