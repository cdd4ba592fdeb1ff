package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/text"
)

// fontFlags select the fonts a command builds.
type fontFlags struct {
	Source        string    `short:"s" enum:"face,file" default:"face" help:"Font source (face, file)"`
	ID            string    `default:"monospace" help:"Built-in face name or font file path"`
	Size          []float64 `default:"20" help:"Pixel sizes, comma separated"`
	Parser        string    `enum:"ximage,gotext" default:"ximage" help:"Font parser (ximage, gotext)"`
	Ranges        string    `short:"r" default:"box,0x20-0x7e,0xa0-0xff" help:"Codepoint ranges, such as box,0x20-0x7e,0x2500"`
	DetectMissing bool      `help:"Skip codepoints that render like U+0000"`
}

// fonts returns one Font per requested size.
func (f *fontFlags) fonts() ([]glyphatlas.Font, error) {
	ranges, err := parseRanges(f.Ranges)
	if err != nil {
		return nil, err
	}
	fonts := make([]glyphatlas.Font, 0, len(f.Size))
	for _, size := range f.Size {
		font := glyphatlas.Font{
			Source:        text.SourceKind(f.Source),
			ID:            f.ID,
			Size:          size,
			Parser:        f.Parser,
			Ranges:        ranges,
			HDR:           glyphatlas.DefaultHDR(),
			DetectMissing: f.DetectMissing,
		}
		if err := font.Validate(); err != nil {
			return nil, err
		}
		fonts = append(fonts, font)
	}
	return fonts, nil
}

// parseRanges parses a comma separated list of codepoints and inclusive
// ranges. "box" names the solid box.
func parseRanges(s string) ([][2]rune, error) {
	var ranges [][2]rune
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if item == "box" {
			ranges = append(ranges, [2]rune{glyphatlas.CodepointBox, glyphatlas.CodepointBox})
			continue
		}
		lo, hi, isRange := strings.Cut(item, "-")
		first, err := parseCodepoint(lo)
		if err != nil {
			return nil, err
		}
		last := first
		if isRange {
			if last, err = parseCodepoint(hi); err != nil {
				return nil, err
			}
		}
		ranges = append(ranges, [2]rune{first, last})
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("no codepoint ranges in %q", s)
	}
	return ranges, nil
}

// parseCodepoint accepts decimal, 0x hex and U+ hex codepoints.
func parseCodepoint(s string) (rune, error) {
	s = strings.TrimSpace(s)
	base := 0
	if rest, ok := strings.CutPrefix(strings.ToUpper(s), "U+"); ok {
		s, base = rest, 16
	}
	n, err := strconv.ParseInt(s, base, 32)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid codepoint %q", s)
	}
	return rune(n), nil
}
