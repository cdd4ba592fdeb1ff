package glyphatlas

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/glyphatlas/text"
)

func TestDefaultFont(t *testing.T) {
	f := DefaultFont()
	if err := f.Validate(); err != nil {
		t.Fatalf("DefaultFont().Validate() = %v", err)
	}
	if f.Source != text.SourceFace || f.ID != "monospace" || f.Size != 20 {
		t.Errorf("DefaultFont() = %s %q %v, want face \"monospace\" 20", f.Source, f.ID, f.Size)
	}
	if len(f.HDR) != 4 || f.HDR[0] != nil {
		t.Fatalf("DefaultFont().HDR = %v, want source pass plus 3", f.HDR)
	}
	if got := f.HDR[1]; *got != (HDRPass{Scale: 0.6, BlurRadius: 4, BlurVariance: 1, PreMultiplier: 1}) {
		t.Errorf("HDR[1] = %+v", *got)
	}
}

func TestFont_WithDefaults(t *testing.T) {
	got := Font{}.WithDefaults()
	if got.Parser != text.DefaultParser {
		t.Errorf("Font{}.WithDefaults().Parser = %q, want %q", got.Parser, text.DefaultParser)
	}
	if got.Key() != DefaultFont().Key() {
		t.Errorf("Font{}.WithDefaults().Key() = %q, want %q", got.Key(), DefaultFont().Key())
	}

	custom := Font{Source: text.SourceFile, ID: "x.ttf", Size: 13, Ranges: [][2]rune{{65, 70}}}.WithDefaults()
	if custom.ID != "x.ttf" || custom.Size != 13 || len(custom.Ranges) != 1 {
		t.Errorf("WithDefaults() overwrote set fields: %+v", custom)
	}
	if len(custom.HDR) != 4 {
		t.Errorf("WithDefaults() HDR len = %d, want 4", len(custom.HDR))
	}
}

func TestFont_Validate(t *testing.T) {
	pass := func(p HDRPass) []*HDRPass { return []*HDRPass{nil, &p} }
	good := HDRPass{Scale: 0.5, BlurRadius: 2, BlurVariance: 1, PreMultiplier: 1}

	tests := []struct {
		name  string
		edit  func(*Font)
		field string
	}{
		{"unknown source", func(f *Font) { f.Source = "url" }, "source"},
		{"empty id", func(f *Font) { f.ID = "" }, "id"},
		{"zero size", func(f *Font) { f.Size = 0 }, "size"},
		{"unknown parser", func(f *Font) { f.Parser = "freetype" }, "parser"},
		{"negative size", func(f *Font) { f.Size = -3 }, "size"},
		{"NaN size", func(f *Font) { f.Size = math.NaN() }, "size"},
		{"no ranges", func(f *Font) { f.Ranges = nil }, "ranges"},
		{"reversed range", func(f *Font) { f.Ranges = [][2]rune{{0x20, 0x7e}, {0x50, 0x40}} }, "ranges[1]"},
		{"beyond unicode", func(f *Font) { f.Ranges = [][2]rune{{0x20, 0x110000}} }, "ranges[0]"},
		{"unknown custom", func(f *Font) { f.Ranges = [][2]rune{{-2, -1}} }, "ranges[0]"},
		{"no passes", func(f *Font) { f.HDR = []*HDRPass{} }, "hdr"},
		{"first pass not source", func(f *Font) { f.HDR = []*HDRPass{&good} }, "hdr[0]"},
		{"second source pass", func(f *Font) { f.HDR = []*HDRPass{nil, &good, nil} }, "hdr[2]"},
		{"zero scale", func(f *Font) { f.HDR = pass(HDRPass{BlurRadius: 1, BlurVariance: 1}) }, "hdr[1]"},
		{"negative radius", func(f *Font) { f.HDR = pass(HDRPass{Scale: 1, BlurRadius: -1, BlurVariance: 1}) }, "hdr[1]"},
		{"zero variance", func(f *Font) { f.HDR = pass(HDRPass{Scale: 1, BlurRadius: 1}) }, "hdr[1]"},
		{"infinite premultiplier", func(f *Font) {
			f.HDR = pass(HDRPass{Scale: 1, BlurRadius: 1, BlurVariance: 1, PreMultiplier: math.Inf(1)})
		}, "hdr[1]"},
		{"negative postmultiplier", func(f *Font) {
			f.HDR = pass(HDRPass{Scale: 1, BlurRadius: 1, BlurVariance: 1, PostMultiplier: -1})
		}, "hdr[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFont()
			tt.edit(&f)
			err := f.Validate()
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestFont_ValidateAccepts(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Font)
	}{
		{"source only", func(f *Font) { f.HDR = []*HDRPass{nil} }},
		{"unblurred pass needs no variance", func(f *Font) {
			f.HDR = []*HDRPass{nil, {Scale: 0.5}}
		}},
		{"single codepoint", func(f *Font) { f.Ranges = [][2]rune{{'A', 'A'}} }},
		{"box only", func(f *Font) { f.Ranges = [][2]rune{{CodepointBox, CodepointBox}} }},
		{"file source", func(f *Font) { f.Source, f.ID = text.SourceFile, "/tmp/font.ttf" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFont()
			tt.edit(&f)
			if err := f.Validate(); err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestConfigError_UnknownSource(t *testing.T) {
	f := DefaultFont()
	f.Source = "url"
	if err := f.Validate(); !errors.Is(err, text.ErrUnknownSource) {
		t.Errorf("Validate() = %v, want wrapping text.ErrUnknownSource", err)
	}
}

func TestFont_Key(t *testing.T) {
	a, b := DefaultFont(), DefaultFont()
	if a.Key() != b.Key() {
		t.Fatal("equal fonts have different keys")
	}

	b.HDR[1].PostMultiplier = 1
	if a.Key() != b.Key() {
		t.Error("post-multiplier 0 and 1 should share a key")
	}

	edits := map[string]func(*Font){
		"size":    func(f *Font) { f.Size = 21 },
		"id":      func(f *Font) { f.ID = "sans-serif" },
		"ranges":  func(f *Font) { f.Ranges = f.Ranges[1:] },
		"hdr":     func(f *Font) { f.HDR = f.HDR[:2] },
		"scale":   func(f *Font) { f.HDR[1] = &HDRPass{Scale: 0.5, BlurRadius: 4, BlurVariance: 1, PreMultiplier: 1} },
		"missing": func(f *Font) { f.DetectMissing = true },
		"parser":  func(f *Font) { f.Parser = "gotext" },
	}
	for name, edit := range edits {
		f := DefaultFont()
		edit(&f)
		if f.Key() == a.Key() {
			t.Errorf("changing %s kept the key %q", name, a.Key())
		}
	}
}

func TestHDRPass_BlurPixels(t *testing.T) {
	tests := []struct {
		pass *HDRPass
		want int
	}{
		{nil, 0},
		{&HDRPass{Scale: 0.6, BlurRadius: 4}, 3},
		{&HDRPass{Scale: 0.4, BlurRadius: 10}, 4},
		{&HDRPass{Scale: 0.2, BlurRadius: 32}, 7},
		{&HDRPass{Scale: 1, BlurRadius: 0}, 0},
	}
	for _, tt := range tests {
		if got := tt.pass.BlurPixels(); got != tt.want {
			t.Errorf("%+v.BlurPixels() = %d, want %d", tt.pass, got, tt.want)
		}
	}
}
