// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package scopedconfig provides scoped key value configuration backed by JSON files.
//
// A Scope decides which file a Config reads and writes:
//
//   - ScopeApp: <roaming>/configurations/appConfig.json
//   - ScopePlugin: <roaming>/configurations/pluginConfig.json
//   - ScopeGlobal: <roaming>/configurations/globalConfig.json
//   - ScopeItem: item.config.json next to the item's file
//   - ScopeLibrary: library.config.json in the active library's root
//
// The roaming directory, the active plugin and the active library are all
// supplied by a Host. Files are opened through an Opener, normally a
// jsonfile.Registry, so every Config for the same file shares one store.
//
// # Basic Usage
//
//	files := jsonfile.NewRegistry()
//	configs := scopedconfig.NewAccessor(host, scopedconfig.Files(files))
//
//	cfg, err := configs.Config(scopedconfig.ScopeGlobal)
//	if err != nil {
//	    return err
//	}
//	err = cfg.Set("theme", "dark")
//
// # Plugin namespacing
//
// FlagPluginOnly prefixes every key with the active plugin's id so plugins
// sharing the app or global file cannot collide:
//
//	cfg, err := configs.Config(scopedconfig.ScopeGlobal, scopedconfig.WithFlags(scopedconfig.FlagPluginOnly))
//	err = cfg.Set("theme", "dark") // stored as "<plugin id>::theme"
//
// The flag is rejected for ScopePlugin, whose file is already plugin specific.
package scopedconfig
