package worker

import (
	"context"
	"io"

	"github.com/gogpu/glyphatlas"
)

// Start runs a worker for b on a new goroutine, connected to the
// returned client by in-memory pipes. The worker stops when the client
// is closed or ctx is done.
func Start(ctx context.Context, b *glyphatlas.Builder, opts ...ClientOption) *Client {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	w := New(b)
	go func() {
		err := w.Serve(ctx, reqR, respW)
		if err != nil {
			glyphatlas.Logger().Debug("worker: stopped", "err", err)
		}
		respW.CloseWithError(err)
		reqR.Close()
	}()

	opts = append(opts, WithCloser(reqW), WithCloser(respR))
	return NewClient(respR, reqW, opts...)
}
