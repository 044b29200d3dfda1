// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scopedconfig

import (
	"fmt"
	"strings"
)

// Scope selects which backing file a Config targets.
type Scope int

const (
	ScopeApp Scope = iota + 1
	ScopePlugin
	ScopeItem
	ScopeLibrary
	ScopeGlobal
)

var scopeNames = map[Scope]string{
	ScopeApp:     "app",
	ScopePlugin:  "plugin",
	ScopeItem:    "item",
	ScopeLibrary: "library",
	ScopeGlobal:  "global",
}

// String implements the fmt.Stringer interface.
func (s Scope) String() string {
	name, ok := scopeNames[s]
	if !ok {
		return fmt.Sprintf("Scope(%d)", int(s))
	}
	return name
}

func (s Scope) valid() bool {
	_, ok := scopeNames[s]
	return ok
}

// UnknownScopeError is returned when a scope name or value is not recognized.
type UnknownScopeError struct {
	Scope string
}

// Error implements the error interface.
func (e UnknownScopeError) Error() string {
	return fmt.Sprintf("unknown config scope: %s", e.Scope)
}

// ParseScope converts a scope name into a Scope. Matching is case-insensitive
// and "application" is accepted for ScopeApp.
func ParseScope(name string) (Scope, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "application" {
		return ScopeApp, nil
	}
	for s, sn := range scopeNames {
		if sn == n {
			return s, nil
		}
	}
	return 0, UnknownScopeError{Scope: name}
}

// Flag modifies how a Config builds its keys.
type Flag int

const (
	// FlagPluginOnly namespaces every key with the active plugin's id.
	FlagPluginOnly Flag = iota + 1
)

var flagNames = map[Flag]string{
	FlagPluginOnly: "pluginOnly",
}

// String implements the fmt.Stringer interface.
func (f Flag) String() string {
	name, ok := flagNames[f]
	if !ok {
		return fmt.Sprintf("Flag(%d)", int(f))
	}
	return name
}

func (f Flag) valid() bool {
	_, ok := flagNames[f]
	return ok
}

// UnknownFlagError is returned when a flag name or value is not recognized.
type UnknownFlagError struct {
	Flag string
}

// Error implements the error interface.
func (e UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown config flag: %s", e.Flag)
}

var flagNameReplacer = strings.NewReplacer("-", "", "_", "")

// ParseFlag converts a flag name into a Flag. Matching is case-insensitive
// and ignores dashes and underscores, so "plugin-only" yields FlagPluginOnly.
func ParseFlag(name string) (Flag, error) {
	n := flagNameReplacer.Replace(strings.TrimSpace(name))
	for f, fn := range flagNames {
		if strings.EqualFold(fn, n) {
			return f, nil
		}
	}
	return 0, UnknownFlagError{Flag: name}
}

// disallowedFlags lists the flags which make no sense for a scope.
// Namespacing by plugin is redundant when the store is already per plugin.
var disallowedFlags = map[Scope][]Flag{
	ScopePlugin: {FlagPluginOnly},
}
