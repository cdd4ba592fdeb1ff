package main

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/glyphatlas/internal/preview"
)

type previewCmd struct {
	fontFlags
}

func (c *previewCmd) Run(ctx context.Context, g *Globals) error {
	fonts, err := c.fonts()
	if err != nil {
		return err
	}
	res, err := g.newBuilder().Build(ctx, fonts[0])
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	preview.NewViewer(res).Run(s)
	return nil
}
