// Package pack implements skyline rectangle packing for texture atlases.
//
// A [Packer] places axis-aligned rectangles into a fixed-size area using a
// bottom-left, best-fit-by-height skyline heuristic. The skyline is kept as
// a linked list of nodes stored in an index-addressed arena, so splicing and
// recycling nodes never involves pointer aliasing.
//
// Packing never fails with an error. [Packer.Pack] reports whether every
// rectangle was placed; callers that need all rectangles placed retry with
// a larger packer:
//
//	rects := []pack.Rect{{W: 10, H: 20}, {W: 5, H: 5}}
//	p := pack.New(64, 64, 64)
//	if !p.Pack(rects) {
//	    // grow the atlas and retry
//	}
//
// The input slice keeps its order. Placement order is computed internally
// (tallest first, then widest, then input order) and written back through
// an index permutation.
package pack
