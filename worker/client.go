package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/fxamacker/cbor/v2"

	"github.com/gogpu/glyphatlas"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithCache makes the client answer MakeFontAtlas from c, filling misses
// through the worker. Clients sharing one cache share its atlases.
func WithCache(c *glyphatlas.AtlasCache) ClientOption {
	return func(cl *Client) { cl.cache = c }
}

// WithCloser sets a closer that Close calls after shutting the client
// down, such as the worker process's pipes.
func WithCloser(c io.Closer) ClientOption {
	return func(cl *Client) { cl.closers = append(cl.closers, c) }
}

// Client sends requests to one worker and routes its responses.
//
// Client is safe for concurrent use. Calls are answered in the order the
// worker receives them.
type Client struct {
	enc   *cbor.Encoder
	encMu sync.Mutex

	serial atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan Response
	err     error

	ready     chan struct{}
	functions []string
	done      chan struct{}

	cache     *glyphatlas.AtlasCache
	closers   []io.Closer
	closeOnce sync.Once
}

// NewClient creates a client that reads responses from in and writes
// requests to out. It starts a goroutine that runs until in ends.
func NewClient(in io.Reader, out io.Writer, opts ...ClientOption) *Client {
	c := &Client{
		enc:     encMode.NewEncoder(out),
		pending: make(map[uint64]chan Response),
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = glyphatlas.NewAtlasCache(c.makeFontAtlas, 0)
	}
	go c.readLoop(decMode.NewDecoder(in))
	return c
}

func (c *Client) readLoop(dec *cbor.Decoder) {
	var err error
	readySeen := false
	for {
		var resp Response
		if err = dec.Decode(&resp); err != nil {
			break
		}
		if !readySeen && resp.Serial == readySerial {
			var r Ready
			if resp.OK {
				_ = Unmarshal(resp.Result, &r)
			}
			c.functions = r.Functions
			readySeen = true
			close(c.ready)
			continue
		}
		c.mu.Lock()
		ch, ok := c.pending[resp.Serial]
		delete(c.pending, resp.Serial)
		c.mu.Unlock()
		if !ok {
			glyphatlas.Logger().Warn("worker: response for unknown serial", "serial", resp.Serial)
			continue
		}
		ch <- resp
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
		err = ErrClosed
	} else {
		err = fmt.Errorf("%w: %w", ErrClosed, err)
	}
	c.mu.Lock()
	c.err = err
	c.pending = nil
	c.mu.Unlock()
	close(c.done)
}

// Ready waits until the worker accepts requests.
func (c *Client) Ready(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-c.done:
		select {
		case <-c.ready:
			return nil
		default:
			return c.closedErr()
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Functions returns the functions the worker announced. It is empty
// until Ready returns nil.
func (c *Client) Functions() []string {
	select {
	case <-c.ready:
		return c.functions
	default:
		return nil
	}
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	return ErrClosed
}

// Call invokes fn with args on the worker and decodes the result into
// out, which may be nil. A failure reported by the worker is a
// *CallError.
//
// Call stops waiting when ctx ends; the worker still runs the call and
// its late response is dropped.
func (c *Client) Call(ctx context.Context, fn string, args, out any) error {
	raw, err := Marshal(args)
	if err != nil {
		return fmt.Errorf("worker: encode %s args: %w", fn, err)
	}
	serial := c.serial.Add(1)
	ch := make(chan Response, 1)

	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return c.closedErr()
	}
	c.pending[serial] = ch
	c.mu.Unlock()

	c.encMu.Lock()
	err = c.enc.Encode(Request{Serial: serial, Fn: fn, Args: raw})
	c.encMu.Unlock()
	if err != nil {
		c.forget(serial)
		return fmt.Errorf("worker: send %s: %w", fn, err)
	}

	var resp Response
	select {
	case resp = <-ch:
	case <-c.done:
		select {
		case resp = <-ch:
		default:
			return c.closedErr()
		}
	case <-ctx.Done():
		c.forget(serial)
		return ctx.Err()
	}

	if !resp.OK {
		return &CallError{Fn: fn, Serial: serial, Message: resp.Error}
	}
	if out == nil {
		return nil
	}
	if err := Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("worker: decode %s result: %w", fn, err)
	}
	return nil
}

func (c *Client) forget(serial uint64) {
	c.mu.Lock()
	if c.pending != nil {
		delete(c.pending, serial)
	}
	c.mu.Unlock()
}

func (c *Client) makeFontAtlas(ctx context.Context, f glyphatlas.Font) (*glyphatlas.Result, error) {
	res := new(glyphatlas.Result)
	if err := c.Call(ctx, FnMakeFontAtlas, f, res); err != nil {
		return nil, err
	}
	return res, nil
}

// MakeFontAtlas returns the atlas for f, from the client's cache when
// possible.
func (c *Client) MakeFontAtlas(ctx context.Context, f glyphatlas.Font) (*glyphatlas.Result, error) {
	return c.cache.Get(ctx, f)
}

// Close closes the streams registered with WithCloser. Once the response
// stream ends, pending and later calls fail with ErrClosed.
func (c *Client) Close() error {
	var errs []error
	c.closeOnce.Do(func() {
		for _, cl := range c.closers {
			if err := cl.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

// Done is closed when the worker stream ends.
func (c *Client) Done() <-chan struct{} { return c.done }
