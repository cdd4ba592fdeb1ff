package main

import (
	"context"
	"os"

	"github.com/gogpu/glyphatlas/worker"
)

type workerCmd struct{}

func (c *workerCmd) Run(ctx context.Context, g *Globals) error {
	return worker.New(g.newBuilder()).Serve(ctx, os.Stdin, os.Stdout)
}
