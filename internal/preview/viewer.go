package preview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/glyphatlas"
)

// upperHalf shows two atlas rows per terminal row: the foreground is the
// upper pixel and the background the lower one.
const upperHalf = '▀'

// scrollStep is the number of atlas pixels an arrow key scrolls.
const scrollStep = 8

// Viewer draws an atlas on a terminal screen. Arrow keys scroll, n and p
// select the next and previous codepoint, tab cycles the pass whose entry
// is highlighted and q or Esc quits.
type Viewer struct {
	res *glyphatlas.Result
	cps []rune

	sel  int
	pass int

	// x and y are the atlas pixel shown at the top-left cell.
	x, y int
}

// NewViewer creates a viewer for res.
func NewViewer(res *glyphatlas.Result) *Viewer {
	return &Viewer{res: res, cps: Codepoints(res)}
}

// Selected returns the highlighted codepoint and pass. ok is false for
// an atlas without codepoints.
func (v *Viewer) Selected() (cp rune, pass int, ok bool) {
	if len(v.cps) == 0 {
		return 0, 0, false
	}
	return v.cps[v.sel], v.pass, true
}

// Offset returns the atlas pixel shown at the top-left cell.
func (v *Viewer) Offset() (x, y int) { return v.x, v.y }

func gray(a uint8) tcell.Color {
	return tcell.NewRGBColor(int32(a), int32(a), int32(a))
}

// Draw renders the visible part of the atlas and a status line to s.
// It does not call Show.
func (v *Viewer) Draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()
	if h == 0 {
		return
	}
	bm := &v.res.Bitmap
	img := bm.Alpha()

	var hi *glyphatlas.LookupEntry
	tint := Tint(v.sel)
	if cp, pass, ok := v.Selected(); ok {
		hi = v.res.Entry(cp, pass)
	}
	pixel := func(x, y int) tcell.Color {
		if x < 0 || y < 0 || x >= bm.Width || y >= bm.Height {
			return tcell.ColorBlack
		}
		a := img.AlphaAt(x, y).A
		if hi != nil && x >= hi.U && x < hi.U+hi.W && y >= hi.V && y < hi.V+hi.H {
			k := 0.25 + 0.75*float64(a)/255
			r, g, b := tint.R*k, tint.G*k, tint.B*k
			return tcell.NewRGBColor(int32(r*255), int32(g*255), int32(b*255))
		}
		return gray(a)
	}

	for row := 0; row < h-1; row++ {
		for col := 0; col < w; col++ {
			px, py := v.x+col, v.y+2*row
			style := tcell.StyleDefault.Foreground(pixel(px, py)).Background(pixel(px, py+1))
			s.SetContent(col, row, upperHalf, nil, style)
		}
	}
	v.drawStatus(s, w, h-1)
}

func (v *Viewer) drawStatus(s tcell.Screen, w, row int) {
	status := fmt.Sprintf("%dx%d  @%d,%d", v.res.Bitmap.Width, v.res.Bitmap.Height, v.x, v.y)
	if cp, pass, ok := v.Selected(); ok {
		status += fmt.Sprintf("  U+%04X pass %d", cp, pass)
		if e := v.res.Entry(cp, pass); e != nil {
			status += fmt.Sprintf(" at %d,%d %dx%d", e.U, e.V, e.W, e.H)
		} else {
			status += " (none)"
		}
	}
	col := 0
	for _, r := range status {
		if col >= w {
			break
		}
		s.SetContent(col, row, r, nil, tcell.StyleDefault.Reverse(true))
		col++
	}
}

// HandleKey applies a key press and reports whether the viewer should
// close.
func (v *Viewer) HandleKey(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		v.x = max(v.x-scrollStep, 0)
	case tcell.KeyRight:
		v.x = min(v.x+scrollStep, max(v.res.Bitmap.Width-1, 0))
	case tcell.KeyUp:
		v.y = max(v.y-scrollStep, 0)
	case tcell.KeyDown:
		v.y = min(v.y+scrollStep, max(v.res.Bitmap.Height-1, 0))
	case tcell.KeyTab:
		if n := len(v.res.Passes); n > 0 {
			v.pass = (v.pass + 1) % n
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'n':
			v.step(1)
		case 'p':
			v.step(-1)
		}
	}
	return false
}

// step moves the selection by d codepoints and scrolls its entry into
// the top-left corner.
func (v *Viewer) step(d int) {
	n := len(v.cps)
	if n == 0 {
		return
	}
	v.sel = ((v.sel+d)%n + n) % n
	if e := v.res.Entry(v.cps[v.sel], v.pass); e != nil {
		v.x, v.y = e.U, e.V
	}
}

// Run shows the viewer on s until the user quits. s must be initialized;
// Run does not finalize it.
func (v *Viewer) Run(s tcell.Screen) {
	v.Draw(s)
	s.Show()
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return
			}
		}
		v.Draw(s)
		s.Show()
	}
}
