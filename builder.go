package glyphatlas

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gogpu/glyphatlas/kernel"
	"github.com/gogpu/glyphatlas/text"
)

// BuilderOption configures a Builder.
type BuilderOption func(*builderConfig)

type builderConfig struct {
	maxDim      int
	initialLog2 int
	debug       bool
}

// WithMaxDimension limits atlas width and height. Builds that need more
// fail with ErrAtlasTooLarge. The default is DefaultMaxDimension().
func WithMaxDimension(n int) BuilderOption {
	return func(c *builderConfig) { c.maxDim = n }
}

// WithInitialLog2 sets the first atlas size tried to 1<<n square.
// The default is DefaultInitialLog2.
func WithInitialLog2(n int) BuilderOption {
	return func(c *builderConfig) { c.initialLog2 = n }
}

// WithDebug validates the skyline after every placement.
func WithDebug() BuilderOption {
	return func(c *builderConfig) { c.debug = true }
}

// Builder builds atlases. It owns a kernel, which is not reentrant, so
// builds on one Builder run one at a time.
//
// Builder is safe for concurrent use.
type Builder struct {
	lib    *text.Library
	kernel kernel.Kernel
	cfg    builderConfig

	mu sync.Mutex
}

// NewBuilder creates a builder that resolves fonts through lib and
// composites with k. A nil lib or k is replaced with a new default one.
func NewBuilder(lib *text.Library, k kernel.Kernel, opts ...BuilderOption) *Builder {
	if lib == nil {
		lib = text.NewLibrary()
	}
	if k == nil {
		k = kernel.NewHeap()
	}
	cfg := builderConfig{
		maxDim:      DefaultMaxDimension(),
		initialLog2: DefaultInitialLog2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.initialLog2 < 0 {
		cfg.initialLog2 = 0
	}
	propagateLogger(k, Logger())
	return &Builder{lib: lib, kernel: k, cfg: cfg}
}

// Build builds the atlas for f. Unset fields of f take their defaults.
//
// The configuration is validated before any work starts. ctx is checked
// before the build starts; a started build runs to completion. A kernel
// failure aborts the build and no partial result is returned.
func (b *Builder) Build(ctx context.Context, f Font) (*Result, error) {
	f = f.WithDefaults()
	if err := f.Validate(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := b.lib.Load(f.Source, f.ID, f.Parser)
	if err != nil {
		return nil, fmt.Errorf("glyphatlas: %w", err)
	}
	face, err := src.Face(f.Size)
	if err != nil {
		return nil, fmt.Errorf("glyphatlas: %w", err)
	}
	propagateLogger(b.kernel, Logger())
	return b.build(face, f)
}

func (b *Builder) build(face text.Face, f Font) (*Result, error) {
	start := time.Now()

	p := planGlyphs(face, f)
	sz := sizer{initialLog2: b.cfg.initialLog2, maxDim: b.cfg.maxDim, debug: b.cfg.debug}
	width, height, err := sz.fit(p.rects)
	if err != nil {
		return nil, err
	}

	c := &compositor{kernel: b.kernel, face: face}
	pix, err := c.compose(p, f.HDR, width, height)
	if err != nil {
		return nil, err
	}

	m := measureCell(face)
	res := &Result{
		Bitmap: Bitmap{Data: pix, Width: width, Height: height},
		Cell: CellDimension{
			Width:  m.advance,
			Height: int(math.Round(float64(m.ascent + m.descent))),
		},
		Passes: make([]PassInfo, len(f.HDR)),
		Lookup: buildLookup(p, len(f.HDR), m.ascent),
	}
	for i, pass := range f.HDR {
		res.Passes[i] = PassInfo{PostMultiplier: pass.postMultiplier()}
	}

	Logger().Info("glyphatlas: atlas built",
		"font", f.ID, "size", f.Size, "codepoints", len(p.cps),
		"width", width, "height", height, "elapsed", time.Since(start))
	return res, nil
}
