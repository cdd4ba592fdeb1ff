// Package text measures and rasterizes single glyphs for atlas building.
//
// The package separates a heavyweight, shareable font resource from the
// lightweight per-size instance used during a build:
//
//   - FontSource: parsed font data, safe for concurrent use
//   - Face: one size of a FontSource; measures ink bounds and draws glyphs
//   - Parser: pluggable parsing backend
//   - Library: process-scoped cache of FontSources keyed by source kind and id
//
// # Example usage
//
//	lib := text.NewLibrary()
//	face, err := lib.Face(text.SourceFace, "monospace", 20)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b := face.Bounds('A')
//	img := image.NewAlpha(image.Rect(0, 0, b.Width(), b.Height()))
//	face.DrawGlyph(img, image.Pt(b.Left, b.Ascent), 'A')
//
// # Parser backends
//
// Two parsers are registered:
//
//   - "ximage": golang.org/x/image/font/sfnt and font.Drawer (default)
//   - "gotext": github.com/go-text/typesetting extents and outlines,
//     rasterized with golang.org/x/image/vector
//
// # Missing glyphs
//
// A rune absent from the font is measured and drawn as the font's .notdef
// glyph, the way a browser canvas would. Use Face.HasGlyph to tell them
// apart.
package text
