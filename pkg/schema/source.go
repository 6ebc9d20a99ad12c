package schema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source identifies where a settings document originated so loaders can
// operate on files or fs.FS entries without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: strings.TrimPrefix(name, "/")}
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	files fs.FS
}

// WithFileSystem sets the fs.FS that SourceFromFS locations resolve against.
func WithFileSystem(files fs.FS) LoadOption {
	return func(opts *loadOptions) {
		opts.files = files
	}
}

// Load reads and parses the document at src.
func Load(ctx context.Context, src Source, options ...LoadOption) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	opts := loadOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	var (
		raw []byte
		err error
	)
	switch src.Kind() {
	case SourceKindFile:
		raw, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if opts.files == nil {
			return Document{}, fmt.Errorf("schema: no file system configured for %q", src.Location())
		}
		raw, err = fs.ReadFile(opts.files, src.Location())
	default:
		return Document{}, fmt.Errorf("schema: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", src.Location(), err)
	}

	doc, err := Parse(raw)
	if err != nil {
		return Document{}, fmt.Errorf("schema: %s: %w", src.Location(), err)
	}
	return doc, nil
}
