package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrUnknownSource is returned for a source kind other than "file" or
	// "face".
	ErrUnknownSource = errors.New("text: unknown font source")

	// ErrUnknownFace is returned for a built-in face name that does not exist.
	ErrUnknownFace = errors.New("text: unknown built-in face")

	// ErrUnknownParser is returned when no parser is registered by a name.
	ErrUnknownParser = errors.New("text: unknown parser")

	// ErrInvalidSize is returned for a non-positive face size.
	ErrInvalidSize = errors.New("text: face size must be positive")
)

// SourceError reports a failure to resolve a font source.
type SourceError struct {
	Kind SourceKind
	ID   string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("text: font source %s %q: %v", e.Kind, e.ID, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
