// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scopedconfig

import (
	"path/filepath"
	"reflect"
)

const (
	configurationsDir = "configurations"

	appConfigFile     = "appConfig.json"
	pluginConfigFile  = "pluginConfig.json"
	globalConfigFile  = "globalConfig.json"
	itemConfigFile    = "item.config.json"
	libraryConfigFile = "library.config.json"
)

// resolvePath maps a scope onto the file backing it. App, plugin and global
// live under the host's roaming directory, an item's config sits next to the
// item and a library's config sits in the library root. The returned path
// is always absolute.
func resolvePath(host Host, scope Scope, item Item) (string, error) {
	path, err := scopePath(host, scope, item)
	if err != nil {
		return "", err
	}
	return filepath.Abs(path)
}

func scopePath(host Host, scope Scope, item Item) (string, error) {
	switch scope {
	case ScopeApp:
		return filepath.Join(host.RoamingPath(), configurationsDir, appConfigFile), nil
	case ScopePlugin:
		return filepath.Join(host.RoamingPath(), configurationsDir, pluginConfigFile), nil
	case ScopeGlobal:
		return filepath.Join(host.RoamingPath(), configurationsDir, globalConfigFile), nil
	case ScopeItem:
		if isNilItem(item) || item.FilePath() == "" {
			return "", MissingItemContextError{}
		}
		return filepath.Join(filepath.Dir(item.FilePath()), itemConfigFile), nil
	case ScopeLibrary:
		lib, ok := host.LibraryPath()
		if !ok || lib == "" {
			return "", MissingLibraryContextError{}
		}
		return filepath.Join(lib, libraryConfigFile), nil
	default:
		return "", UnknownScopeError{Scope: scope.String()}
	}
}

// isNilItem also catches typed nil pointers wrapped in a non-nil Item.
func isNilItem(item Item) bool {
	if item == nil {
		return true
	}
	v := reflect.ValueOf(item)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
