package glyphatlas

import (
	"math"

	"github.com/gogpu/glyphatlas/pack"
	"github.com/gogpu/glyphatlas/text"
)

// glyphRect is the payload of one pack request: codepoint cp in pass.
// rects[i].ID == i for the request at index i.
type glyphRect struct {
	cp     rune
	pass   int
	render bool
	bounds text.Bounds
}

// passStats holds per-pass maxima needed to size kernel scratch space.
type passStats struct {
	blurPx     int
	maxW, maxH int
	rects      []int
}

// plan is the output of planGlyphs.
type plan struct {
	rects  []pack.Rect
	glyphs []glyphRect

	// cps lists the accepted codepoints in enumeration order.
	cps []rune

	// src maps a codepoint to its pass 0 request; dst to its derived
	// requests in pass order.
	src map[rune]int
	dst map[rune][]int

	passes []passStats
}

// planGlyphs measures every codepoint of f with face and produces one
// pack request per accepted codepoint and pass.
func planGlyphs(face text.Face, f Font) *plan {
	p := &plan{
		src:    make(map[rune]int),
		dst:    make(map[rune][]int),
		passes: make([]passStats, len(f.HDR)),
	}
	for k, pass := range f.HDR {
		p.passes[k].blurPx = pass.BlurPixels()
	}

	var missing text.Bounds
	if f.DetectMissing {
		missing = face.Bounds(f.MissingReference)
	}
	box := face.Bounds('W')

	for _, cp := range expandRanges(f.Ranges) {
		b := box
		if cp >= 0 {
			b = face.Bounds(cp)
		}
		if b.Width() <= 0 || b.Height() <= 0 {
			continue
		}
		if f.DetectMissing && b == missing {
			continue
		}
		p.cps = append(p.cps, cp)

		for k, pass := range f.HDR {
			w, h := b.Width(), b.Height()
			if pass != nil {
				bp := p.passes[k].blurPx
				w = int(math.Ceil(float64(w)*pass.Scale)) + 2*bp
				h = int(math.Ceil(float64(h)*pass.Scale)) + 2*bp
			}
			i := len(p.rects)
			p.rects = append(p.rects, pack.Rect{W: w, H: h, ID: i})
			p.glyphs = append(p.glyphs, glyphRect{cp: cp, pass: k, render: pass == nil, bounds: b})

			st := &p.passes[k]
			st.rects = append(st.rects, i)
			st.maxW = max(st.maxW, w)
			st.maxH = max(st.maxH, h)
			if pass == nil {
				p.src[cp] = i
			} else {
				p.dst[cp] = append(p.dst[cp], i)
			}
		}
	}
	return p
}
