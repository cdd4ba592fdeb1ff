package worker

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// FnMakeFontAtlas builds an atlas. Its argument is a glyphatlas.Font and
// its result a glyphatlas.Result.
const FnMakeFontAtlas = "make_font_atlas"

// readySerial is the serial of the frame a worker sends before it
// accepts requests. Client serials start at 1.
const readySerial = 0

// Request is a call sent to a worker.
type Request struct {
	Serial uint64          `cbor:"serial"`
	Fn     string          `cbor:"fn"`
	Args   cbor.RawMessage `cbor:"args,omitempty"`
}

// Response answers the Request with the same Serial. OK responses carry
// Result, failed ones Error.
type Response struct {
	Serial uint64          `cbor:"serial"`
	OK     bool            `cbor:"ok"`
	Result cbor.RawMessage `cbor:"result,omitempty"`
	Error  string          `cbor:"error,omitempty"`
}

// Ready is the result of the readiness frame.
type Ready struct {
	Functions []string `cbor:"functions"`
}

// ErrClosed is returned for calls on a closed client or after the worker
// stream ends.
var ErrClosed = errors.New("worker: closed")

// ErrNoSuchFunction is the message of a call to an unknown function.
const ErrNoSuchFunction = "no such function"

// CallError is a failure reported by the worker for one call.
type CallError struct {
	Fn      string
	Serial  uint64
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("worker: %s (serial %d): %s", e.Fn, e.Serial, e.Message)
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
	dm, err := cbor.DecOptions{
		MaxMapPairs: 1 << 20,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	decMode = dm
}

// Marshal encodes v the way workers and clients do.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes data the way workers and clients do.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
