package text

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestNewFontSource_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		opts []SourceOption
		want error
	}{
		{"empty", nil, nil, ErrEmptyFontData},
		{"unknown parser", goregular.TTF, []SourceOption{WithParser("nope")}, ErrUnknownParser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFontSource(tt.data, tt.opts...); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := NewFontSource([]byte("not a font")); err == nil {
		t.Error("NewFontSource(garbage) succeeded")
	}
}

func TestBuiltinFaces(t *testing.T) {
	names := BuiltinFaces()
	if len(names) == 0 {
		t.Fatal("no built-in faces")
	}
	for _, name := range names {
		src, err := NewBuiltinSource(name)
		if err != nil {
			t.Errorf("NewBuiltinSource(%q) error = %v", name, err)
			continue
		}
		if src.Name() == "" {
			t.Errorf("%q: empty family name", name)
		}
	}
	if _, err := NewBuiltinSource("fantasy"); !errors.Is(err, ErrUnknownFace) {
		t.Errorf("unknown face error = %v, want ErrUnknownFace", err)
	}
}

func TestLibrary_Source(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}

	lib := NewLibrary()
	tests := []struct {
		name string
		kind SourceKind
		id   string
		want error
	}{
		{"face", SourceFace, "monospace", nil},
		{"file", SourceFile, path, nil},
		{"unknown kind", SourceKind("url"), "https://example.com/x.ttf", ErrUnknownSource},
		{"unknown face", SourceFace, "fantasy", ErrUnknownFace},
		{"missing file", SourceFile, filepath.Join(dir, "missing.ttf"), os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lib.Source(tt.kind, tt.id)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Source() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Source() error = %v, want %v", err, tt.want)
			}
			var se *SourceError
			if !errors.As(err, &se) || se.Kind != tt.kind {
				t.Errorf("error %v is not a *SourceError for %q", err, tt.kind)
			}
		})
	}
	if got := lib.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2 (failures are not cached)", got)
	}
}

func TestLibrary_LoadPerParser(t *testing.T) {
	lib := NewLibrary()
	x, err := lib.Load(SourceFace, "monospace", "")
	if err != nil {
		t.Fatal(err)
	}
	if s, err := lib.Source(SourceFace, "monospace"); err != nil || s != x {
		t.Errorf("Source() = %p, %v, want the default parser's source %p", s, err, x)
	}
	g, err := lib.Load(SourceFace, "monospace", "gotext")
	if err != nil {
		t.Fatal(err)
	}
	if g == x {
		t.Error("Load() shared one source between parsers")
	}
	if got := lib.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if _, err := lib.Load(SourceFace, "monospace", "nope"); !errors.Is(err, ErrUnknownParser) {
		t.Errorf("Load() error = %v, want ErrUnknownParser", err)
	}
}

func TestLibrary_Concurrent(t *testing.T) {
	lib := NewLibrary(WithLibraryParser("gotext"))
	var wg sync.WaitGroup
	sources := make([]*FontSource, 8)
	for i := range sources {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := lib.Source(SourceFace, "monospace")
			if err != nil {
				t.Error(err)
				return
			}
			sources[i] = s
		}(i)
	}
	wg.Wait()
	for i := 1; i < len(sources); i++ {
		if sources[i] != sources[0] {
			t.Fatal("Library returned distinct sources for one key")
		}
	}
}

func TestSourceKind_Valid(t *testing.T) {
	for kind, want := range map[SourceKind]bool{
		SourceFile: true, SourceFace: true, "url": false, "": false,
	} {
		if got := kind.Valid(); got != want {
			t.Errorf("%q.Valid() = %v, want %v", kind, got, want)
		}
	}
}

func TestParsers(t *testing.T) {
	got := Parsers()
	if len(got) < 2 || got[0] != "gotext" || got[1] != "ximage" {
		t.Errorf("Parsers() = %v, want [gotext ximage ...]", got)
	}
}
