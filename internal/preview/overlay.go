package preview

import (
	"image"
	"image/color"
	"math"
	"slices"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/glyphatlas"
)

// goldenAngle spreads successive hues around the color wheel.
const goldenAngle = 137.50776405003785

// Tint returns the color of the i-th codepoint of an overlay.
// Neighbouring indices get distant hues.
func Tint(i int) colorful.Color {
	h := math.Mod(float64(i)*goldenAngle, 360)
	return colorful.Hsv(h, 0.65, 1)
}

// Codepoints returns the codepoints of res in ascending order.
func Codepoints(res *glyphatlas.Result) []rune {
	cps := make([]rune, 0, len(res.Lookup))
	for cp := range res.Lookup {
		cps = append(cps, cp)
	}
	slices.Sort(cps)
	return cps
}

// Overlay renders the atlas of res in color. The ink of every entry is
// tinted with the codepoint's color and the entry is outlined in it;
// pixels outside entries stay gray.
func Overlay(res *glyphatlas.Result) *image.RGBA {
	bm := &res.Bitmap
	dst := image.NewRGBA(image.Rect(0, 0, bm.Width, bm.Height))
	src := bm.Alpha()
	for y := 0; y < bm.Height; y++ {
		for x := 0; x < bm.Width; x++ {
			a := src.AlphaAt(x, y).A
			dst.SetRGBA(x, y, color.RGBA{a, a, a, 0xff})
		}
	}

	for i, cp := range Codepoints(res) {
		tint := Tint(i)
		for _, e := range res.Lookup[cp] {
			if e == nil {
				continue
			}
			r := image.Rect(e.U, e.V, e.U+e.W, e.V+e.H).Intersect(dst.Rect)
			tintRect(dst, src, r, tint)
			outline(dst, r, tint)
		}
	}
	return dst
}

// tintRect scales tint by the atlas coverage of every pixel in r.
func tintRect(dst *image.RGBA, src *image.Alpha, r image.Rectangle, tint colorful.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			a := float64(src.AlphaAt(x, y).A) / 255
			c := colorful.Color{R: tint.R * a, G: tint.G * a, B: tint.B * a}
			cr, cg, cb := c.Clamped().RGB255()
			dst.SetRGBA(x, y, color.RGBA{cr, cg, cb, 0xff})
		}
	}
}

func outline(dst *image.RGBA, r image.Rectangle, tint colorful.Color) {
	if r.Empty() {
		return
	}
	cr, cg, cb := tint.Clamped().RGB255()
	c := color.RGBA{cr, cg, cb, 0xff}
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.SetRGBA(x, r.Min.Y, c)
		dst.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.SetRGBA(r.Min.X, y, c)
		dst.SetRGBA(r.Max.X-1, y, c)
	}
}
