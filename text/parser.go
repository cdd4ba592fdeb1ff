package text

import (
	"fmt"
	"sort"
	"sync"
)

// Parser is a font parsing backend.
type Parser interface {
	// Parse parses font data (TTF or OTF).
	Parse(data []byte) (ParsedFont, error)
}

// ParsedFont is a parsed font that can produce faces.
// Implementations are safe for concurrent use.
type ParsedFont interface {
	// Name returns the font family name, or "" if unavailable.
	Name() string

	// Face returns a new face at the given pixel size.
	Face(size float64) (Face, error)
}

// DefaultParser is the parser used when none is configured.
const DefaultParser = "ximage"

var (
	parsersMu sync.RWMutex
	parsers   = map[string]Parser{
		"ximage": ximageParser{},
		"gotext": gotextParser{},
	}
)

// RegisterParser registers a parser under name, replacing any existing one.
func RegisterParser(name string, p Parser) {
	parsersMu.Lock()
	defer parsersMu.Unlock()
	parsers[name] = p
}

// Parsers returns the registered parser names in sorted order.
func Parsers() []string {
	parsersMu.RLock()
	defer parsersMu.RUnlock()
	names := make([]string, 0, len(parsers))
	for name := range parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasParser reports whether a parser is registered under name.
func HasParser(name string) bool {
	parsersMu.RLock()
	defer parsersMu.RUnlock()
	_, ok := parsers[name]
	return ok
}

func getParser(name string) (Parser, error) {
	if name == "" {
		name = DefaultParser
	}
	parsersMu.RLock()
	defer parsersMu.RUnlock()
	p, ok := parsers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParser, name)
	}
	return p, nil
}
