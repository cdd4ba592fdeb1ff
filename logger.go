package glyphatlas

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// silent drops every record. Enabled reports false, so log sites skip
// building their attributes.
type silent struct{}

func (silent) Enabled(context.Context, slog.Level) bool  { return false }
func (silent) Handle(context.Context, slog.Record) error { return nil }
func (silent) WithAttrs([]slog.Attr) slog.Handler        { return silent{} }
func (silent) WithGroup(string) slog.Handler             { return silent{} }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(silent{}))
}

// SetLogger routes the diagnostics of atlas builds to l. Until it is
// called nothing is logged. A nil l silences logging again.
//
// The logger is shared by the builder pipeline, the kernels builders
// drive and the worker package. Records by level:
//
//   - Debug "glyphatlas: atlas too small": one per failed sizing attempt,
//     with the width and height tried.
//   - Debug "glyphatlas: atlas sized": the final size and attempt count.
//   - Debug "glyphatlas: resized group": one per transform group, with
//     its source and destination size, scale and pair count.
//   - Debug "kernel: memory grown": a kernel allocation added pages.
//   - Debug "worker: call" and "worker: stopped": worker traffic.
//   - Info "glyphatlas: atlas built": font, size, codepoint count, atlas
//     size and elapsed time of every finished build.
//   - Warn "worker: response for unknown serial": a worker answered a
//     call the client no longer tracks.
//
// A kernel receives the new logger when its Builder is created and again
// at the start of each build, so SetLogger affects builds that have not
// started yet. It is safe for concurrent use.
//
// The atlasgen command installs a text handler on stderr:
//
//	glyphatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(silent{})
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return current.Load()
}

// loggerSetter is implemented by kernels that log, such as kernel.Heap.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands l to k when k logs.
func propagateLogger(k any, l *slog.Logger) {
	if ls, ok := k.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
