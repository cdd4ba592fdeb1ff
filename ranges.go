package glyphatlas

import (
	"slices"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// expandRanges returns the codepoints named by ranges without duplicates:
// custom (negative) codepoints first in ascending order, then Unicode
// codepoints in ascending order.
func expandRanges(ranges [][2]rune) []rune {
	var custom []rune
	tables := make([]*unicode.RangeTable, 0, len(ranges))
	for _, r := range ranges {
		lo, hi := r[0], r[1]
		for cp := lo; cp <= hi && cp < 0; cp++ {
			custom = append(custom, cp)
		}
		lo = max(lo, 0)
		if lo <= hi {
			tables = append(tables, rangeTable(lo, hi))
		}
	}
	slices.Sort(custom)
	cps := slices.Compact(custom)
	rangetable.Visit(rangetable.Merge(tables...), func(r rune) {
		cps = append(cps, r)
	})
	return cps
}

// rangeTable returns a table holding [lo, hi].
func rangeTable(lo, hi rune) *unicode.RangeTable {
	rt := &unicode.RangeTable{}
	if lo <= 0xFFFF {
		rt.R16 = []unicode.Range16{{Lo: uint16(lo), Hi: uint16(min(hi, 0xFFFF)), Stride: 1}}
		if hi <= unicode.MaxLatin1 {
			rt.LatinOffset = 1
		}
	}
	if hi > 0xFFFF {
		rt.R32 = []unicode.Range32{{Lo: uint32(max(lo, 0x10000)), Hi: uint32(hi), Stride: 1}}
	}
	return rt
}
