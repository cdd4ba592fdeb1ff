// Package glyphatlas builds multi-resolution glyph texture atlases.
//
// # Overview
//
// A build turns a [Font] configuration into one single-channel texture and
// a lookup table. Every configured codepoint is measured, packed with the
// skyline packer from package pack, and drawn once at full resolution.
// Each HDR pass then adds a scaled, padded and blurred copy of every glyph,
// produced by a numeric kernel from package kernel.
//
// # Quick Start
//
//	b := glyphatlas.NewBuilder(text.NewLibrary(), kernel.NewHeap())
//	res, err := b.Build(ctx, glyphatlas.DefaultFont())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	entry := res.Lookup['A'][0] // pass 0 entry of 'A'
//
// # Pipeline
//
// A build runs four stages in order:
//   - planning: codepoints are measured and turned into pack requests,
//     one per codepoint and pass
//   - sizing: the atlas starts at 128x128 and doubles one dimension at a
//     time until every request fits
//   - compositing: pass 0 glyphs are drawn, derived passes are resized in
//     batches that share a transform signature, then blurred
//   - lookup: per codepoint, per pass geometry is recorded
//
// Builds are single-threaded. A [Builder] serializes its builds because
// the kernel it drives is not reentrant. Use an [AtlasCache] to reuse
// finished atlases, and package worker to run builds in isolation.
//
// # Logging
//
// The package logs through [log/slog] and is silent by default. See
// [SetLogger].
package glyphatlas
