package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/internal/preview"
	"github.com/gogpu/glyphatlas/worker"
)

type buildCmd struct {
	fontFlags

	Out     string `short:"o" type:"path" default:"." help:"Output directory"`
	Jobs    int    `short:"j" default:"0" help:"Parallel build workers; 0 picks one per size up to the CPU count"`
	Overlay bool   `help:"Also write a color-coded overlay of every lookup entry"`
}

// atlasFile is the CBOR sidecar written next to each atlas PNG. Texture
// and Layout describe how a renderer uploads the PNG's pixels.
type atlasFile struct {
	Font    glyphatlas.Font                    `cbor:"font"`
	Width   int                                `cbor:"width"`
	Height  int                                `cbor:"height"`
	Texture gputypes.TextureDescriptor         `cbor:"texture"`
	Layout  gputypes.TextureDataLayout         `cbor:"layout"`
	Cell    glyphatlas.CellDimension           `cbor:"cell"`
	Passes  []glyphatlas.PassInfo              `cbor:"passes"`
	Lookup  map[rune][]*glyphatlas.LookupEntry `cbor:"lookup"`
}

func (c *buildCmd) Run(ctx context.Context, g *Globals) error {
	fonts, err := c.fonts()
	if err != nil {
		return err
	}
	jobs := c.Jobs
	if jobs <= 0 {
		jobs = min(len(fonts), runtime.GOMAXPROCS(0))
	}
	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		return err
	}

	pool, err := worker.StartPool(ctx, jobs, g.newBuilder)
	if err != nil {
		return err
	}
	defer pool.Close()

	results, err := pool.MakeFontAtlasAll(ctx, fonts)
	if err != nil {
		return err
	}
	for i, res := range results {
		base := filepath.Join(c.Out, baseName(fonts[i]))
		if err := writeAtlas(base, fonts[i], res, c.Overlay); err != nil {
			return err
		}
		fmt.Printf("%s.png %dx%d, %d codepoints\n", base, res.Bitmap.Width, res.Bitmap.Height, len(res.Lookup))
	}
	return nil
}

// baseName derives an output file name from the font, like
// "monospace-20".
func baseName(f glyphatlas.Font) string {
	name := strings.TrimSuffix(filepath.Base(f.ID), filepath.Ext(f.ID))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	return name + "-" + strconv.FormatFloat(f.Size, 'g', -1, 64)
}

func writeAtlas(base string, f glyphatlas.Font, res *glyphatlas.Result, overlay bool) error {
	if err := writePNG(base+".png", res.Bitmap.Alpha()); err != nil {
		return err
	}
	if overlay {
		if err := writePNG(base+"-overlay.png", preview.Overlay(res)); err != nil {
			return err
		}
	}
	data, err := worker.Marshal(atlasFile{
		Font:    f,
		Width:   res.Bitmap.Width,
		Height:  res.Bitmap.Height,
		Texture: res.Bitmap.TextureDescriptor(filepath.Base(base)),
		Layout:  res.Bitmap.DataLayout(),
		Cell:    res.Cell,
		Passes:  res.Passes,
		Lookup:  res.Lookup,
	})
	if err != nil {
		return fmt.Errorf("encode lookup: %w", err)
	}
	return os.WriteFile(base+".cbor", data, 0o644)
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
