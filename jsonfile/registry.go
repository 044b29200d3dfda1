// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package jsonfile

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/z5labs/scopedconfig/internal/noop"
	"github.com/z5labs/scopedconfig/internal/slogfield"

	"golang.org/x/sync/singleflight"
)

// ErrEmptyPath is returned by Open when no path is given.
var ErrEmptyPath = errors.New("jsonfile: empty path")

type registryOptions struct {
	logHandler slog.Handler
}

// Option configures a Registry.
type Option func(*registryOptions)

// LogHandler configures the underlying slog.Handler.
func LogHandler(h slog.Handler) Option {
	return func(ro *registryOptions) {
		ro.logHandler = h
	}
}

// Registry caches a single File per absolute path.
type Registry struct {
	log   *slog.Logger
	loads singleflight.Group

	mu    sync.Mutex
	files map[string]*File
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	ro := &registryOptions{
		logHandler: noop.LogHandler{},
	}
	for _, opt := range opts {
		opt(ro)
	}

	return &Registry{
		log:   slog.New(ro.logHandler),
		files: make(map[string]*File),
	}
}

// Open returns the File for path, loading it on first use. Paths are
// made absolute and cleaned before lookup so equivalent spellings share
// one File. A failed load is not cached.
func (r *Registry) Open(path string) (*File, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if f, ok := r.lookup(abs); ok {
		return f, nil
	}

	v, err, shared := r.loads.Do(abs, func() (any, error) {
		if f, ok := r.lookup(abs); ok {
			return f, nil
		}

		f, err := load(abs, r.log)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.files[abs] = f
		r.mu.Unlock()
		return f, nil
	})
	if err != nil {
		r.log.Debug("failed to open json file", slogfield.Path(abs), slogfield.Error(err))
		return nil, err
	}
	if shared {
		r.log.Debug("collapsed concurrent open", slogfield.Path(abs))
	}
	return v.(*File), nil
}

// Len returns the number of cached files.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

func (r *Registry) lookup(abs string) (*File, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[abs]
	return f, ok
}
