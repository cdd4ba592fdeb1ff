package text

import (
	"fmt"
	"os"
	"sort"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

// SourceKind names where font data comes from.
type SourceKind string

// Source kinds.
const (
	// SourceFile loads a TTF or OTF file; the id is a path.
	SourceFile SourceKind = "file"

	// SourceFace selects a built-in face; the id is a face name such as
	// "monospace".
	SourceFace SourceKind = "face"
)

// Valid reports whether k is a known source kind.
func (k SourceKind) Valid() bool {
	return k == SourceFile || k == SourceFace
}

// builtinFaces maps face names to embedded Go font data.
var builtinFaces = map[string][]byte{
	"monospace":         gomono.TTF,
	"monospace-bold":    gomonobold.TTF,
	"monospace-italic":  gomonoitalic.TTF,
	"sans-serif":        goregular.TTF,
	"sans-serif-bold":   gobold.TTF,
	"sans-serif-italic": goitalic.TTF,
	"medium":            gomedium.TTF,
	"smallcaps":         gosmallcaps.TTF,
}

// BuiltinFaces returns the built-in face names in sorted order.
func BuiltinFaces() []string {
	names := make([]string, 0, len(builtinFaces))
	for name := range builtinFaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FontSource is a parsed font. One FontSource creates Face instances at
// any size and should be shared.
//
// FontSource is safe for concurrent use.
type FontSource struct {
	parsed ParsedFont
	name   string
}

// SourceOption configures a FontSource.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	parserName string
}

// WithParser selects the parser backend by name ("ximage" or "gotext").
func WithParser(name string) SourceOption {
	return func(c *sourceConfig) { c.parserName = name }
}

// NewFontSource parses font data (TTF or OTF).
func NewFontSource(data []byte, opts ...SourceOption) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	var cfg sourceConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	parser, err := getParser(cfg.parserName)
	if err != nil {
		return nil, err
	}
	parsed, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return &FontSource{parsed: parsed, name: parsed.Name()}, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string, opts ...SourceOption) (*FontSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font file: %w", err)
	}
	return NewFontSource(data, opts...)
}

// NewBuiltinSource returns a FontSource for a built-in face name.
func NewBuiltinSource(name string, opts ...SourceOption) (*FontSource, error) {
	data, ok := builtinFaces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFace, name)
	}
	return NewFontSource(data, opts...)
}

// Name returns the font family name.
func (s *FontSource) Name() string { return s.name }

// Face returns a new face at the given pixel size.
func (s *FontSource) Face(size float64) (Face, error) {
	return s.parsed.Face(size)
}
