package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/gogpu/glyphatlas"
)

// queueSize is the number of decoded requests a worker buffers while a
// build runs.
const queueSize = 64

// handler runs one function call.
type handler func(ctx context.Context, args []byte) (any, error)

// Worker serves requests for one Builder.
type Worker struct {
	builder  *glyphatlas.Builder
	handlers map[string]handler
}

// New creates a worker that builds with b. A nil b is replaced with a
// default builder.
func New(b *glyphatlas.Builder) *Worker {
	if b == nil {
		b = glyphatlas.NewBuilder(nil, nil)
	}
	w := &Worker{builder: b}
	w.handlers = map[string]handler{
		FnMakeFontAtlas: w.makeFontAtlas,
	}
	return w
}

// Functions returns the names of the functions w serves, sorted.
func (w *Worker) Functions() []string {
	names := make([]string, 0, len(w.handlers))
	for name := range w.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (w *Worker) makeFontAtlas(ctx context.Context, args []byte) (any, error) {
	var f glyphatlas.Font
	if len(args) > 0 {
		if err := Unmarshal(args, &f); err != nil {
			return nil, fmt.Errorf("decode font: %w", err)
		}
	}
	return w.builder.Build(ctx, f)
}

// Serve announces readiness on out, then answers requests read from in
// until in ends or ctx is done. Requests run one at a time in arrival
// order. Serve returns nil when in ends cleanly.
func (w *Worker) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	enc := encMode.NewEncoder(out)
	ready, err := Marshal(Ready{Functions: w.Functions()})
	if err != nil {
		return err
	}
	if err := enc.Encode(Response{Serial: readySerial, OK: true, Result: ready}); err != nil {
		return fmt.Errorf("worker: send ready: %w", err)
	}

	reqs := make(chan Request, queueSize)
	readErr := make(chan error, 1)
	go func() {
		defer close(reqs)
		dec := decMode.NewDecoder(in)
		for {
			var req Request
			if err := dec.Decode(&req); err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				readErr <- err
				return
			}
			select {
			case reqs <- req:
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-reqs:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("worker: read request: %w", err)
				}
				return ctx.Err()
			}
			if err := enc.Encode(w.call(ctx, req)); err != nil {
				return fmt.Errorf("worker: send response %d: %w", req.Serial, err)
			}
		}
	}
}

// call runs req and converts its outcome into a Response.
func (w *Worker) call(ctx context.Context, req Request) (resp Response) {
	resp.Serial = req.Serial
	h, ok := w.handlers[req.Fn]
	if !ok {
		resp.Error = ErrNoSuchFunction
		return resp
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			resp = Response{Serial: req.Serial, Error: fmt.Sprintf("panic: %v", r)}
		}
		glyphatlas.Logger().Debug("worker: call",
			"fn", req.Fn, "serial", req.Serial, "ok", resp.OK, "elapsed", time.Since(start))
	}()

	v, err := h(ctx, req.Args)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	result, err := Marshal(v)
	if err != nil {
		resp.Error = fmt.Sprintf("encode result: %v", err)
		return resp
	}
	resp.OK = true
	resp.Result = result
	return resp
}
