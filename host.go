// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scopedconfig

// Host exposes the facts the surrounding application knows about the
// current execution context.
type Host interface {
	// PluginID returns the active plugin's identity, if any.
	PluginID() (string, bool)

	// LibraryPath returns the root directory of the active library, if any.
	LibraryPath() (string, bool)

	// RoamingPath returns the per-user roaming directory under which
	// app, plugin and global configurations are kept.
	RoamingPath() string
}

// StaticHost is a Host backed by fixed values. Empty fields are
// reported as absent.
type StaticHost struct {
	Plugin  string
	Library string
	Roaming string
}

// PluginID implements the [Host] interface.
func (h StaticHost) PluginID() (string, bool) {
	return h.Plugin, h.Plugin != ""
}

// LibraryPath implements the [Host] interface.
func (h StaticHost) LibraryPath() (string, bool) {
	return h.Library, h.Library != ""
}

// RoamingPath implements the [Host] interface.
func (h StaticHost) RoamingPath() string {
	return h.Roaming
}

// Item is anything stored on disk which can carry its own config file
// next to it.
type Item interface {
	FilePath() string
}

// ItemPath is an Item identified only by its file path.
type ItemPath string

// FilePath implements the [Item] interface.
func (p ItemPath) FilePath() string {
	return string(p)
}
