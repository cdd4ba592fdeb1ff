package glyphatlas

import (
	"errors"
	"fmt"
)

// ErrAtlasTooLarge is matched by *AtlasTooLargeError.
var ErrAtlasTooLarge = errors.New("glyphatlas: atlas too large")

// ConfigError reports a malformed Font configuration. It is returned
// before any packing work starts.
type ConfigError struct {
	// Field names the offending setting, such as "ranges[2]" or "hdr[1]".
	Field string

	// Reason describes what is wrong with it.
	Reason string

	// Err is an underlying cause, if any.
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("glyphatlas: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AtlasTooLargeError is returned when the requested glyphs do not fit the
// largest atlas the builder may allocate.
type AtlasTooLargeError struct {
	// Width and Height are the next size the atlas would have grown to.
	Width, Height int

	// Max is the dimension limit.
	Max int

	// Rects is the number of pack requests.
	Rects int
}

func (e *AtlasTooLargeError) Error() string {
	return fmt.Sprintf("glyphatlas: %d rects need a %dx%d atlas, limit is %d",
		e.Rects, e.Width, e.Height, e.Max)
}

// Is reports whether target is ErrAtlasTooLarge.
func (e *AtlasTooLargeError) Is(target error) bool {
	return target == ErrAtlasTooLarge
}

// stageError wraps a kernel failure with the compositing stage it broke.
func stageError(stage string, err error) error {
	return fmt.Errorf("glyphatlas: %s: %w", stage, err)
}
