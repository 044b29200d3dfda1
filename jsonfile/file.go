// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/z5labs/scopedconfig/internal/slogfield"
	"github.com/z5labs/scopedconfig/internal/try"

	"github.com/google/uuid"
)

// InvalidJsonError occurs if the file content is not a JSON object.
type InvalidJsonError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json in %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidJsonError) Unwrap() error {
	return e.Cause
}

// File is a JSON object file loaded into memory. It is safe for concurrent use.
type File struct {
	path string
	log  *slog.Logger

	mu   sync.RWMutex
	data map[string]any
}

func load(path string, log *slog.Logger) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	data, err := decode(path, b)
	if err != nil {
		return nil, err
	}

	log.Debug("loaded json file", slogfield.Path(path), slogfield.Int("keys", len(data)))
	return &File{
		path: path,
		log:  log,
		data: data,
	}, nil
}

func decode(path string, b []byte) (map[string]any, error) {
	m := make(map[string]any)
	if len(bytes.TrimSpace(b)) == 0 {
		return m, nil
	}

	err := json.Unmarshal(b, &m)
	if err != nil {
		return nil, InvalidJsonError{Path: path, Cause: err}
	}
	// the literal null decodes into a nil map
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// Path returns the absolute path of the backing file.
func (f *File) Path() string {
	return f.path
}

// Get returns the value stored under key.
func (f *File) Get(key string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.data[key]
	return v, ok
}

// Keys returns every stored key in sorted order.
func (f *File) Keys() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set stores value under key and persists the file. If persisting fails
// the in-memory change is reverted.
func (f *File) Set(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, existed := f.data[key]
	f.data[key] = value

	err := f.save()
	if err == nil {
		return nil
	}
	if existed {
		f.data[key] = prev
	} else {
		delete(f.data, key)
	}
	return err
}

// Delete removes key and persists the file. Deleting an absent key
// does not touch the file.
func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, existed := f.data[key]
	if !existed {
		return nil
	}
	delete(f.data, key)

	err := f.save()
	if err == nil {
		return nil
	}
	f.data[key] = prev
	return err
}

// save must be called with f.mu held.
func (f *File) save() error {
	b, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}

	tmp := filepath.Join(dir, "."+filepath.Base(f.path)+"."+uuid.NewString()+".tmp")
	err = writeFile(tmp, b)
	if err != nil {
		os.Remove(tmp)
		return err
	}

	err = os.Rename(tmp, f.path)
	if err != nil {
		os.Remove(tmp)
		return err
	}

	f.log.Debug("saved json file", slogfield.Path(f.path), slogfield.Int("keys", len(f.data)))
	return nil
}

func writeFile(name string, b []byte) (err error) {
	out, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer try.Close(&err, out)

	_, err = out.Write(b)
	if err != nil {
		return err
	}
	return out.Sync()
}
