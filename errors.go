// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scopedconfig

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// InvalidFlagCombinationError occurs when a requested flag is not
// allowed for the requested scope.
type InvalidFlagCombinationError struct {
	Scope Scope
	Flags []Flag
}

// Error implements the error interface.
func (e InvalidFlagCombinationError) Error() string {
	names := make([]string, len(e.Flags))
	for i, f := range e.Flags {
		names[i] = f.String()
	}
	return fmt.Sprintf("invalid flag combination for %s scope: [%s]", e.Scope, strings.Join(names, ", "))
}

// MissingPluginContextError occurs when a flag needs the active plugin's
// identity but the host has no plugin context.
type MissingPluginContextError struct {
	Flag Flag
}

// Error implements the error interface.
func (e MissingPluginContextError) Error() string {
	return fmt.Sprintf("%s flag requires active plugin context", e.Flag)
}

// MissingItemContextError occurs when item scope is requested without
// an item which has a file path.
type MissingItemContextError struct{}

// Error implements the error interface.
func (MissingItemContextError) Error() string {
	return "item scope requires an item with a file path"
}

// MissingLibraryContextError occurs when library scope is requested
// while the host has no active library.
type MissingLibraryContextError struct{}

// Error implements the error interface.
func (MissingLibraryContextError) Error() string {
	return "library scope requires an active library path"
}

// ErrValueNotSet is returned by Decode when nothing is stored under the key.
var ErrValueNotSet = errors.New("config value not set")

// TypeCoercionError occurs when decoding a stored value into a type
// which does not match the stored value type, up to, coercion.
type TypeCoercionError struct {
	from  reflect.Value
	to    reflect.Value
	Cause error
}

// Error implements the error interface.
func (e TypeCoercionError) Error() string {
	return fmt.Sprintf("failed to coerce value from %s to %s: %s", e.from.Type(), e.to.Type(), e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}
