package glyphatlas

import (
	"image"
	"math"
	"slices"

	"golang.org/x/image/draw"

	"github.com/gogpu/glyphatlas/internal/filter"
	"github.com/gogpu/glyphatlas/kernel"
	"github.com/gogpu/glyphatlas/text"
)

// referenceGlyphs set the common ascent and descent of a font.
var referenceGlyphs = []rune{'j', 'l', ']', '|'}

// cellMetrics are the metrics shared by every glyph of an atlas.
type cellMetrics struct {
	ascent, descent int
	advance         float64
}

// measureCell takes the common ascent and descent as the largest ink
// ascent and descent of the reference glyphs, and the cell advance from
// "W".
func measureCell(face text.Face) cellMetrics {
	m := cellMetrics{advance: face.Advance('W')}
	for i, r := range referenceGlyphs {
		b := face.Bounds(r)
		if i == 0 {
			m.ascent, m.descent = b.Ascent, b.Descent
			continue
		}
		m.ascent = max(m.ascent, b.Ascent)
		m.descent = max(m.descent, b.Descent)
	}
	return m
}

// groupKey is a transform signature. Scale is quantized to 1e-4.
type groupKey struct {
	srcW, srcH int
	dstW, dstH int
	scale      int64
}

// transformPair is one resize: request src into request dst, inset by
// the destination pass's blur padding.
type transformPair struct {
	src, dst int
	inset    int
}

// transformGroup is a set of resizes that one ResizeBatch call performs.
type transformGroup struct {
	key   groupKey
	scale float64
	pairs []transformPair
}

// groupTransforms groups every (source, destination) pair of p by
// transform signature. Groups and their pairs follow codepoint order.
func groupTransforms(p *plan, hdr []*HDRPass) []transformGroup {
	index := make(map[groupKey]int)
	var groups []transformGroup
	for _, cp := range p.cps {
		si := p.src[cp]
		src := p.rects[si]
		for _, di := range p.dst[cp] {
			pass := hdr[p.glyphs[di].pass]
			inset := p.passes[p.glyphs[di].pass].blurPx
			dst := p.rects[di]
			key := groupKey{
				srcW:  src.W,
				srcH:  src.H,
				dstW:  dst.W - 2*inset,
				dstH:  dst.H - 2*inset,
				scale: int64(math.Round(pass.Scale * 1e4)),
			}
			g, ok := index[key]
			if !ok {
				g = len(groups)
				index[key] = g
				groups = append(groups, transformGroup{key: key, scale: pass.Scale})
			}
			groups[g].pairs = append(groups[g].pairs, transformPair{src: si, dst: di, inset: inset})
		}
	}
	return groups
}

// compositor draws a packed plan into kernel memory.
type compositor struct {
	kernel kernel.Kernel
	face   text.Face
}

// compose renders p into a width x height atlas and returns a copy of the
// pixels. p must be fully placed.
//
// Kernel memory may grow on any allocation, so every view and address is
// derived again after each one.
func (c *compositor) compose(p *plan, hdr []*HDRPass, width, height int) ([]byte, error) {
	k := c.kernel
	stride := width

	k.Reset()
	base, err := k.AllocBitmap(width, height)
	if err != nil {
		return nil, stageError("allocate atlas", err)
	}
	if err := c.render(p, base, width, height); err != nil {
		return nil, stageError("render glyphs", err)
	}

	groups := groupTransforms(p, hdr)
	if err := c.resize(p, groups, base, stride); err != nil {
		return nil, err
	}
	if err := c.blur(p, hdr, base, stride); err != nil {
		return nil, err
	}

	pix, err := k.Memory().Bytes(base, width*height)
	if err != nil {
		return nil, stageError("copy atlas", err)
	}
	return slices.Clone(pix), nil
}

// render draws every source glyph at its packed position.
func (c *compositor) render(p *plan, base kernel.Ptr, width, height int) error {
	view, err := c.kernel.Memory().Alpha(base, width, height, width)
	if err != nil {
		return err
	}
	for i, g := range p.glyphs {
		if !g.render {
			continue
		}
		r := &p.rects[i]
		if g.cp == CodepointBox {
			draw.Draw(view, r.Bounds(), image.Opaque, image.Point{}, draw.Src)
			continue
		}
		dot := image.Pt(r.X+g.bounds.Left, r.Y+g.bounds.Ascent)
		c.face.DrawGlyph(view, dot, g.cp)
	}
	return nil
}

// resize runs one ResizeBatch per transform group. The pointer array is
// sized for the largest group and reused.
func (c *compositor) resize(p *plan, groups []transformGroup, base kernel.Ptr, stride int) error {
	if len(groups) == 0 {
		return nil
	}
	largest := 0
	for _, g := range groups {
		largest = max(largest, len(g.pairs))
	}
	k := c.kernel
	slots, err := k.AllocPtrs(2 * largest)
	if err != nil {
		return stageError("allocate resize pairs", err)
	}
	addr := func(x, y int) uint32 {
		return uint32(base) + uint32(x+y*stride)
	}

	for _, g := range groups {
		mem := k.Memory()
		for i, pair := range g.pairs {
			s, d := &p.rects[pair.src], &p.rects[pair.dst]
			slot := slots + kernel.Ptr(2*i*kernel.PtrSize)
			if err := mem.PutUint32(slot, addr(s.X, s.Y)); err != nil {
				return stageError("write resize pairs", err)
			}
			if err := mem.PutUint32(slot+kernel.PtrSize, addr(d.X+pair.inset, d.Y+pair.inset)); err != nil {
				return stageError("write resize pairs", err)
			}
		}
		key := g.key
		if err := k.ResizeBatch(len(g.pairs), key.srcW, key.srcH, key.dstW, key.dstH, g.scale, slots, stride); err != nil {
			return stageError("resize", err)
		}
		Logger().Debug("glyphatlas: resized group",
			"src", image.Pt(key.srcW, key.srcH), "dst", image.Pt(key.dstW, key.dstH),
			"scale", g.scale, "count", len(g.pairs))
	}
	return nil
}

// blur convolves every request of each derived pass that has blur
// padding. Each pass's kernel lives between a Save and its Restore.
func (c *compositor) blur(p *plan, hdr []*HDRPass, base kernel.Ptr, stride int) error {
	for i, pass := range hdr {
		st := &p.passes[i]
		if pass == nil || st.blurPx == 0 || len(st.rects) == 0 {
			continue
		}
		if err := c.blurPass(p, pass, st, base, stride); err != nil {
			return err
		}
	}
	return nil
}

// blurPass blurs the requests of one pass. Restore runs on every path,
// including failures after Save.
func (c *compositor) blurPass(p *plan, pass *HDRPass, st *passStats, base kernel.Ptr, stride int) (err error) {
	k := c.kernel
	k.Save()
	defer func() {
		if rerr := k.Restore(); rerr != nil && err == nil {
			err = stageError("blur", rerr)
		}
	}()

	wp, err := k.SetupBlur(st.blurPx, st.maxW, st.maxH)
	if err != nil {
		return stageError("set up blur", err)
	}
	mem := k.Memory()
	for j, v := range filter.CachedWeights(st.blurPx, pass.BlurVariance, pass.PreMultiplier) {
		if err := mem.PutFloat32(wp+kernel.Ptr(4*j), v); err != nil {
			return stageError("write blur weights", err)
		}
	}
	for _, ri := range st.rects {
		r := &p.rects[ri]
		if err := k.Blur(base+kernel.Ptr(r.X+r.Y*stride), r.W, r.H, stride); err != nil {
			return stageError("blur", err)
		}
	}
	return nil
}
