// Command atlasgen builds glyph atlases and shows them in the terminal.
//
// Usage:
//
//	atlasgen build --size 16,20,24 -o out/
//	atlasgen preview --source file --id /path/to/font.ttf
//	atlasgen worker
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/text"
)

// Globals are flags shared by every command.
type Globals struct {
	LogLevel     string `short:"l" enum:"debug,info,warn,error" default:"warn" help:"Log level (debug, info, warn, error)"`
	MaxDimension int    `default:"8192" help:"Largest atlas width or height"`
}

// newBuilder creates a builder configured by g.
func (g *Globals) newBuilder() *glyphatlas.Builder {
	return glyphatlas.NewBuilder(text.NewLibrary(), nil, glyphatlas.WithMaxDimension(g.MaxDimension))
}

func (g *Globals) setupLogging() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.LogLevel)); err != nil {
		return err
	}
	glyphatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

var cli struct {
	Globals

	Build   buildCmd   `cmd:"" help:"Build atlases and write them as PNG and CBOR files"`
	Preview previewCmd `cmd:"" help:"Build an atlas and show it in the terminal"`
	Worker  workerCmd  `cmd:"" help:"Serve atlas builds over stdin and stdout"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("atlasgen"),
		kong.Description("Glyph atlas generator."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(cli.setupLogging())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.FatalIfErrorf(kctx.Run(&cli.Globals))
}
