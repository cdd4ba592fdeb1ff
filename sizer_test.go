package glyphatlas

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/glyphatlas/pack"
)

func squares(n, size int) []pack.Rect {
	rects := make([]pack.Rect, n)
	for i := range rects {
		rects[i] = pack.Rect{W: size, H: size, ID: i}
	}
	return rects
}

func assertDisjoint(t *testing.T, rects []pack.Rect, width, height int) {
	t.Helper()
	atlas := image.Rect(0, 0, width, height)
	for i := range rects {
		a := rects[i].Bounds()
		if !rects[i].Placed {
			t.Fatalf("rect %d not placed", i)
		}
		if !a.In(atlas) {
			t.Errorf("rect %d at %v outside %v", i, a, atlas)
		}
		for j := i + 1; j < len(rects); j++ {
			if b := rects[j].Bounds(); a.Overlaps(b) {
				t.Errorf("rect %d at %v overlaps rect %d at %v", i, a, j, b)
			}
		}
	}
}

func TestSizer_Fit(t *testing.T) {
	tests := []struct {
		name  string
		rects []pack.Rect
		wantW int
		wantH int
		log2  int
	}{
		{"empty", nil, 128, 128, 7},
		{"fits first", squares(4, 64), 128, 128, 7},
		{"grows width first", squares(5, 64), 256, 128, 7},
		{"then height", squares(9, 64), 256, 256, 7},
		{"small start", []pack.Rect{{W: 17, H: 1}}, 32, 16, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sizer{initialLog2: tt.log2, maxDim: 8192, debug: true}
			w, h, err := s.fit(tt.rects)
			if err != nil {
				t.Fatalf("fit() error = %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("fit() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			assertDisjoint(t, tt.rects, w, h)
		})
	}
}

func TestSizer_FitIsSmallest(t *testing.T) {
	rects := squares(5, 64)
	s := sizer{initialLog2: 7, maxDim: 8192}
	w, h, err := s.fit(rects)
	if err != nil {
		t.Fatal(err)
	}
	if w != 256 || h != 128 {
		t.Fatalf("fit() = %dx%d, want 256x128", w, h)
	}
	retry := squares(5, 64)
	if pack.New(128, 128, 128).Pack(retry) {
		t.Error("128x128 holds five 64x64 rects; growth should have stopped earlier")
	}
}

func TestSizer_TooLarge(t *testing.T) {
	rects := []pack.Rect{{W: 300, H: 10}}
	s := sizer{initialLog2: 7, maxDim: 256}
	_, _, err := s.fit(rects)
	if !errors.Is(err, ErrAtlasTooLarge) {
		t.Fatalf("fit() error = %v, want ErrAtlasTooLarge", err)
	}
	var tl *AtlasTooLargeError
	if !errors.As(err, &tl) {
		t.Fatalf("fit() error %T, want *AtlasTooLargeError", err)
	}
	if tl.Width != 512 || tl.Height != 256 || tl.Max != 256 || tl.Rects != 1 {
		t.Errorf("error = %+v, want 512x256 max 256 rects 1", *tl)
	}
}

func TestDefaultMaxDimension(t *testing.T) {
	if got := DefaultMaxDimension(); got != 8192 {
		t.Errorf("DefaultMaxDimension() = %d, want 8192", got)
	}
}
