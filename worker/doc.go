// Package worker runs atlas builds behind a message boundary.
//
// A worker owns one glyphatlas.Builder and serves CBOR-encoded requests
// from a byte stream, one at a time. Callers talk to it through a Client,
// which numbers requests with serials and matches responses to them:
//
//	c := worker.Start(ctx, glyphatlas.NewBuilder(nil, nil))
//	defer c.Close()
//	if err := c.Ready(ctx); err != nil {
//		return err
//	}
//	res, err := c.MakeFontAtlas(ctx, glyphatlas.DefaultFont())
//
// The stream can be an in-process pipe (Start), a subprocess's stdin and
// stdout, or any other io.Reader and io.Writer pair. A Pool spreads builds
// across several workers.
package worker
