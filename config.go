package glyphatlas

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/gogpu/glyphatlas/text"
)

// CodepointBox is a custom codepoint. It is measured with the metrics of
// "W" and drawn as a filled box.
const CodepointBox rune = -1

// Default font settings.
const (
	DefaultSize   = 20
	DefaultFaceID = "monospace"
)

// HDRPass configures one derived resolution of every glyph: a copy scaled
// by Scale, padded and blurred with a Gaussian of BlurRadius*Scale pixels.
//
// A nil *HDRPass in Font.HDR is the source pass: the glyph drawn at full
// resolution.
type HDRPass struct {
	// Scale is the size of the copy relative to the source glyph.
	Scale float64 `cbor:"scale"`

	// BlurRadius is the blur radius in source pixels.
	BlurRadius float64 `cbor:"blur_radius"`

	// BlurVariance is the variance of the Gaussian sampled over
	// [-3, 3] across the kernel.
	BlurVariance float64 `cbor:"blur_variance"`

	// PreMultiplier scales every blur weight.
	PreMultiplier float64 `cbor:"pre_multiplier"`

	// PostMultiplier is passed through to the renderer. Zero means 1.
	PostMultiplier float64 `cbor:"post_multiplier,omitempty"`
}

// BlurPixels returns the blur padding in atlas pixels, ceil(BlurRadius*Scale).
func (p *HDRPass) BlurPixels() int {
	if p == nil {
		return 0
	}
	return int(math.Ceil(p.BlurRadius * p.Scale))
}

func (p *HDRPass) postMultiplier() float64 {
	if p == nil || p.PostMultiplier == 0 {
		return 1
	}
	return p.PostMultiplier
}

// Font is an atlas build request.
type Font struct {
	// Source is where the font comes from: text.SourceFace for a built-in
	// face, text.SourceFile for a font file.
	Source text.SourceKind `cbor:"source"`

	// ID is the face name or file path.
	ID string `cbor:"id"`

	// Size is the font size in pixels.
	Size float64 `cbor:"size"`

	// Parser names the text backend that loads and rasterizes the font,
	// such as "ximage" or "gotext". Empty selects text.DefaultParser.
	Parser string `cbor:"parser,omitempty"`

	// Ranges are inclusive codepoint ranges. Negative codepoints name
	// custom glyphs; CodepointBox is the only one defined.
	Ranges [][2]rune `cbor:"ranges"`

	// HDR lists the passes. HDR[0] must be nil and no other pass may be.
	HDR []*HDRPass `cbor:"hdr"`

	// DetectMissing skips every codepoint whose ink bounds equal those of
	// MissingReference. It is a heuristic: real glyphs that happen to
	// share those bounds are dropped too.
	DetectMissing bool `cbor:"detect_missing,omitempty"`

	// MissingReference is a codepoint assumed to have no glyph.
	MissingReference rune `cbor:"missing_reference,omitempty"`
}

// DefaultRanges returns the box glyph, printable ASCII and the printable
// Latin-1 supplement.
func DefaultRanges() [][2]rune {
	return [][2]rune{
		{CodepointBox, CodepointBox},
		{0x20, 0x7e},
		{0xa0, 0xff},
	}
}

// DefaultHDR returns the source pass followed by three progressively
// smaller and blurrier passes.
func DefaultHDR() []*HDRPass {
	return []*HDRPass{
		nil,
		{Scale: 0.6, BlurRadius: 4, BlurVariance: 1, PreMultiplier: 1},
		{Scale: 0.4, BlurRadius: 10, BlurVariance: 1, PreMultiplier: 1},
		{Scale: 0.2, BlurRadius: 32, BlurVariance: 1, PreMultiplier: 1},
	}
}

// DefaultFont returns the built-in monospace face at 20px with the default
// ranges and passes.
func DefaultFont() Font {
	return Font{
		Source: text.SourceFace,
		ID:     DefaultFaceID,
		Size:   DefaultSize,
		Parser: text.DefaultParser,
		Ranges: DefaultRanges(),
		HDR:    DefaultHDR(),
	}
}

// WithDefaults returns f with unset fields filled in. An empty Source
// selects the default face regardless of ID.
func (f Font) WithDefaults() Font {
	if f.Source == "" {
		f.Source = text.SourceFace
		f.ID = DefaultFaceID
	}
	if f.Size == 0 {
		f.Size = DefaultSize
	}
	if f.Parser == "" {
		f.Parser = text.DefaultParser
	}
	if f.Ranges == nil {
		f.Ranges = DefaultRanges()
	}
	if f.HDR == nil {
		f.HDR = DefaultHDR()
	}
	return f
}

// Validate checks f as given; it does not apply defaults.
func (f Font) Validate() error {
	if !f.Source.Valid() {
		return &ConfigError{Field: "source", Reason: fmt.Sprintf("unknown source %q", f.Source), Err: text.ErrUnknownSource}
	}
	if f.ID == "" {
		return &ConfigError{Field: "id", Reason: "empty"}
	}
	if !(f.Size > 0) || math.IsInf(f.Size, 0) {
		return &ConfigError{Field: "size", Reason: fmt.Sprintf("%v is not a positive size", f.Size)}
	}
	if f.Parser != "" && !text.HasParser(f.Parser) {
		return &ConfigError{Field: "parser", Reason: fmt.Sprintf("unknown parser %q", f.Parser), Err: text.ErrUnknownParser}
	}
	if len(f.Ranges) == 0 {
		return &ConfigError{Field: "ranges", Reason: "no codepoint ranges"}
	}
	for i, r := range f.Ranges {
		field := fmt.Sprintf("ranges[%d]", i)
		switch {
		case r[0] > r[1]:
			return &ConfigError{Field: field, Reason: fmt.Sprintf("start %#x after end %#x", r[0], r[1])}
		case r[1] > unicode.MaxRune:
			return &ConfigError{Field: field, Reason: fmt.Sprintf("end %#x beyond U+10FFFF", r[1])}
		case r[0] < 0 && r[0] != CodepointBox:
			return &ConfigError{Field: field, Reason: fmt.Sprintf("unknown custom codepoint %d", r[0])}
		}
	}
	if len(f.HDR) == 0 {
		return &ConfigError{Field: "hdr", Reason: "no passes"}
	}
	if f.HDR[0] != nil {
		return &ConfigError{Field: "hdr[0]", Reason: "must be the source pass (nil)"}
	}
	for i, p := range f.HDR[1:] {
		field := fmt.Sprintf("hdr[%d]", i+1)
		switch {
		case p == nil:
			return &ConfigError{Field: field, Reason: "only hdr[0] may be the source pass"}
		case !(p.Scale > 0) || math.IsInf(p.Scale, 0):
			return &ConfigError{Field: field, Reason: fmt.Sprintf("scale %v is not positive", p.Scale)}
		case !(p.BlurRadius >= 0) || math.IsInf(p.BlurRadius, 0):
			return &ConfigError{Field: field, Reason: fmt.Sprintf("blur radius %v is negative", p.BlurRadius)}
		case p.BlurPixels() > 0 && !(p.BlurVariance > 0):
			return &ConfigError{Field: field, Reason: fmt.Sprintf("blur variance %v is not positive", p.BlurVariance)}
		case math.IsNaN(p.PreMultiplier) || math.IsInf(p.PreMultiplier, 0):
			return &ConfigError{Field: field, Reason: "pre-multiplier is not finite"}
		case p.PostMultiplier < 0 || math.IsInf(p.PostMultiplier, 0):
			return &ConfigError{Field: field, Reason: fmt.Sprintf("post-multiplier %v is negative", p.PostMultiplier)}
		}
	}
	return nil
}

// Key returns a string identifying the atlas f builds. Fonts with equal
// keys build identical atlases. The parser is part of the key, so atlases
// rasterized by different backends never share a cache entry.
func (f Font) Key() string {
	parser := f.Parser
	if parser == "" {
		parser = text.DefaultParser
	}
	var b strings.Builder
	b.WriteString(string(f.Source))
	b.WriteByte(':')
	b.WriteString(strconv.Quote(f.ID))
	b.WriteByte('@')
	b.WriteString(strconv.FormatFloat(f.Size, 'g', -1, 64))
	b.WriteByte('/')
	b.WriteString(parser)
	for _, r := range f.Ranges {
		fmt.Fprintf(&b, "|%d-%d", r[0], r[1])
	}
	for _, p := range f.HDR {
		if p == nil {
			b.WriteString("|src")
			continue
		}
		fmt.Fprintf(&b, "|%g,%g,%g,%g,%g",
			p.Scale, p.BlurRadius, p.BlurVariance, p.PreMultiplier, p.postMultiplier())
	}
	if f.DetectMissing {
		fmt.Fprintf(&b, "|missing=%d", f.MissingReference)
	}
	return b.String()
}
