// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestFile(t *testing.T, path string) *File {
	t.Helper()
	f, err := load(path, newTestLogger())
	require.NoError(t, err)
	return f
}

func readJsonObject(t *testing.T, path string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)

	m := make(map[string]any)
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestLoad(t *testing.T) {
	t.Run("will return an empty file", func(t *testing.T) {
		t.Run("if the file does not exist", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.json")

			f := loadTestFile(t, path)

			assert.Empty(t, f.Keys())
			assert.NoFileExists(t, path)
		})

		t.Run("if the file is empty", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "empty.json")
			require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

			f := loadTestFile(t, path)

			assert.Empty(t, f.Keys())
		})

		t.Run("if the file contains null", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "null.json")
			require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

			f := loadTestFile(t, path)

			require.NoError(t, f.Set("a", "b"))
			assert.Equal(t, []string{"a"}, f.Keys())
		})
	})

	t.Run("will return an InvalidJsonError", func(t *testing.T) {
		t.Run("if the file is not valid json", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "broken.json")
			require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

			_, err := load(path, newTestLogger())

			var ierr InvalidJsonError
			if !assert.ErrorAs(t, err, &ierr) {
				return
			}
			assert.Equal(t, path, ierr.Path)
			assert.NotEmpty(t, ierr.Error())
		})

		t.Run("if the file holds a json array", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "array.json")
			require.NoError(t, os.WriteFile(path, []byte("[1, 2]"), 0o644))

			_, err := load(path, newTestLogger())

			var ierr InvalidJsonError
			assert.ErrorAs(t, err, &ierr)
		})
	})

	t.Run("will read existing values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "existing.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"theme": "dark", "size": 12}`), 0o644))

		f := loadTestFile(t, path)

		v, ok := f.Get("theme")
		require.True(t, ok)
		assert.Equal(t, "dark", v)

		v, ok = f.Get("size")
		require.True(t, ok)
		assert.Equal(t, float64(12), v)
	})
}

func TestFile_Set(t *testing.T) {
	t.Run("will persist the value", func(t *testing.T) {
		t.Run("if the parent directory does not exist yet", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")
			f := loadTestFile(t, path)

			require.NoError(t, f.Set("theme", "dark"))

			assert.Equal(t, map[string]any{"theme": "dark"}, readJsonObject(t, path))
		})

		t.Run("if the key already held a value", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			f := loadTestFile(t, path)

			require.NoError(t, f.Set("theme", "dark"))
			require.NoError(t, f.Set("theme", "light"))

			v, ok := f.Get("theme")
			require.True(t, ok)
			assert.Equal(t, "light", v)
			assert.Equal(t, map[string]any{"theme": "light"}, readJsonObject(t, path))
		})
	})

	t.Run("will leave no temporary files behind", func(t *testing.T) {
		dir := t.TempDir()
		f := loadTestFile(t, filepath.Join(dir, "config.json"))

		require.NoError(t, f.Set("a", 1))
		require.NoError(t, f.Set("b", 2))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		if assert.Len(t, entries, 1) {
			assert.Equal(t, "config.json", entries[0].Name())
		}
	})

	t.Run("will revert the in-memory value", func(t *testing.T) {
		t.Run("if the value cannot be encoded", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			f := loadTestFile(t, path)
			require.NoError(t, f.Set("theme", "dark"))

			err := f.Set("theme", make(chan int))

			var uerr *json.UnsupportedTypeError
			if !assert.ErrorAs(t, err, &uerr) {
				return
			}
			v, ok := f.Get("theme")
			require.True(t, ok)
			assert.Equal(t, "dark", v)
		})

		t.Run("if a new key cannot be encoded", func(t *testing.T) {
			f := loadTestFile(t, filepath.Join(t.TempDir(), "config.json"))

			err := f.Set("fn", func() {})

			assert.Error(t, err)
			_, ok := f.Get("fn")
			assert.False(t, ok)
		})
	})
}

func TestFile_Delete(t *testing.T) {
	t.Run("will remove the key from memory and disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		f := loadTestFile(t, path)
		require.NoError(t, f.Set("a", "1"))
		require.NoError(t, f.Set("b", "2"))

		require.NoError(t, f.Delete("a"))

		_, ok := f.Get("a")
		assert.False(t, ok)
		assert.Equal(t, map[string]any{"b": "2"}, readJsonObject(t, path))
	})

	t.Run("will not write the file", func(t *testing.T) {
		t.Run("if the key is absent", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			f := loadTestFile(t, path)

			require.NoError(t, f.Delete("missing"))

			assert.NoFileExists(t, path)
		})
	})
}

func TestFile_Keys(t *testing.T) {
	f := loadTestFile(t, filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, f.Set("zeta", 1))
	require.NoError(t, f.Set("alpha", 2))
	require.NoError(t, f.Set("mid", 3))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, f.Keys())
}

func TestFile_Path(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	f := loadTestFile(t, path)

	assert.Equal(t, path, f.Path())
}

