// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package jsonfile provides a key value store persisted as a single JSON object file.
//
// A [File] holds the decoded object in memory and rewrites the whole file on
// every change. Writes go to a temporary file in the same directory which is
// then renamed over the target, so readers never observe a partially written file.
//
// A [Registry] caches one [File] per absolute path. Every caller opening the
// same path through the same Registry shares the same in-memory view:
//
//	files := jsonfile.NewRegistry()
//	a, _ := files.Open("/tmp/settings.json")
//	b, _ := files.Open("/tmp/../tmp/settings.json")
//	// a == b
package jsonfile
