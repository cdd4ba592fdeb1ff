package glyphatlas

// LookupEntry is the atlas geometry of one codepoint in one pass.
type LookupEntry struct {
	// U and V are the atlas position of the stored rectangle.
	U int `cbor:"u"`
	V int `cbor:"v"`

	// W and H are the stored size, blur padding included.
	W int `cbor:"w"`
	H int `cbor:"h"`

	// DX and DY place the rectangle relative to the cell origin.
	DX int `cbor:"dx"`
	DY int `cbor:"dy"`

	// W2 and H2 are the pass 0 size expanded by the blur padding on both
	// sides: the size the rectangle covers when drawn at full scale.
	W2 int `cbor:"w2"`
	H2 int `cbor:"h2"`
}

// buildLookup records the placement of every request of p. Entries are
// indexed by pass; a codepoint has a nil entry for passes it lacks.
func buildLookup(p *plan, passes, commonAscent int) map[rune][]*LookupEntry {
	lookup := make(map[rune][]*LookupEntry, len(p.cps))
	for _, cp := range p.cps {
		lookup[cp] = make([]*LookupEntry, passes)
	}
	for i, g := range p.glyphs {
		r := &p.rects[i]
		lookup[g.cp][g.pass] = &LookupEntry{U: r.X, V: r.Y, W: r.W, H: r.H}
	}

	for _, cp := range p.cps {
		e0 := lookup[cp][0]
		b := p.glyphs[p.src[cp]].bounds
		if b.Left > 0 {
			e0.DX = -b.Left
		}
		if b.Ascent > 0 {
			e0.DY = commonAscent - b.Ascent
		}
		e0.W2, e0.H2 = e0.W, e0.H
	}

	for _, g := range p.glyphs {
		if g.pass == 0 {
			continue
		}
		e0 := lookup[g.cp][0]
		e := lookup[g.cp][g.pass]
		bp := p.passes[g.pass].blurPx
		e.DX = e0.DX - bp
		e.DY = e0.DY - bp
		e.W2 = e0.W2 + 2*bp
		e.H2 = e0.H2 + 2*bp
	}
	return lookup
}
