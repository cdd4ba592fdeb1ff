package text

import (
	"sync"
)

type libraryKey struct {
	kind   SourceKind
	id     string
	parser string
}

// Library resolves font sources by kind and id and caches them for the
// life of the process. Faces are created fresh on every call.
//
// Library is safe for concurrent use.
type Library struct {
	parser string

	mu      sync.Mutex
	sources map[libraryKey]*FontSource
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithLibraryParser selects the parser Source and Face use. Load takes
// its parser per call.
func WithLibraryParser(name string) LibraryOption {
	return func(l *Library) { l.parser = name }
}

// NewLibrary creates an empty library.
func NewLibrary(opts ...LibraryOption) *Library {
	l := &Library{sources: make(map[libraryKey]*FontSource)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source returns the cached FontSource for kind and id, loading it with
// the library's parser on first use. Failed loads are not cached.
func (l *Library) Source(kind SourceKind, id string) (*FontSource, error) {
	return l.Load(kind, id, l.parser)
}

// Load returns the cached FontSource for kind and id as parsed by the
// named parser, loading it on first use. An empty parser selects
// DefaultParser. Each parser gets its own cache entry.
func (l *Library) Load(kind SourceKind, id, parser string) (*FontSource, error) {
	if parser == "" {
		parser = DefaultParser
	}
	key := libraryKey{kind, id, parser}

	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.sources[key]; ok {
		return s, nil
	}

	var (
		s   *FontSource
		err error
	)
	switch kind {
	case SourceFile:
		s, err = NewFontSourceFromFile(id, WithParser(parser))
	case SourceFace:
		s, err = NewBuiltinSource(id, WithParser(parser))
	default:
		err = ErrUnknownSource
	}
	if err != nil {
		return nil, &SourceError{Kind: kind, ID: id, Err: err}
	}
	l.sources[key] = s
	return s, nil
}

// Face returns a new face for the source at the given pixel size.
func (l *Library) Face(kind SourceKind, id string, size float64) (Face, error) {
	s, err := l.Source(kind, id)
	if err != nil {
		return nil, err
	}
	return s.Face(size)
}

// Len returns the number of cached sources.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sources)
}
