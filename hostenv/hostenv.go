// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package hostenv reads the host context a scopedconfig.Accessor needs
// from environment variables and an optional host file.
//
// Recognized keys, with their environment variable:
//
//	roaming_path  SCOPECFG_ROAMING_PATH
//	plugin_id     SCOPECFG_PLUGIN_ID
//	library_path  SCOPECFG_LIBRARY_PATH
//
// Environment variables take precedence over the host file. When no roaming
// path is configured it defaults to a directory named after the application
// inside os.UserConfigDir.
package hostenv

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/z5labs/scopedconfig"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when reading the environment.
const EnvPrefix = "SCOPECFG"

const (
	roamingPathKey = "roaming_path"
	pluginIDKey    = "plugin_id"
	libraryPathKey = "library_path"
)

type hostConfig struct {
	RoamingPath string `mapstructure:"roaming_path"`
	PluginID    string `mapstructure:"plugin_id"`
	LibraryPath string `mapstructure:"library_path"`
}

type options struct {
	appName string
	file    string
}

// Option configures Load.
type Option func(*options)

// AppName sets the directory name used for the default roaming path.
//
// Default name is "scopecfg".
func AppName(name string) Option {
	return func(o *options) {
		o.appName = name
	}
}

// File reads host values from the given file. Its format is picked from
// the file extension e.g. yaml, json or toml.
func File(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// Load returns the host context described by the environment and the
// optional host file.
func Load(opts ...Option) (scopedconfig.StaticHost, error) {
	o := &options{
		appName: "scopecfg",
	}
	for _, opt := range opts {
		opt(o)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, k := range []string{roamingPathKey, pluginIDKey, libraryPathKey} {
		err := v.BindEnv(k)
		if err != nil {
			return scopedconfig.StaticHost{}, err
		}
	}

	if o.file != "" {
		v.SetConfigFile(o.file)
		err := v.ReadInConfig()
		if err != nil {
			return scopedconfig.StaticHost{}, fmt.Errorf("hostenv: failed to read host file %s: %w", o.file, err)
		}
	}

	var cfg hostConfig
	err := v.Unmarshal(&cfg)
	if err != nil {
		return scopedconfig.StaticHost{}, fmt.Errorf("hostenv: failed to decode host config: %w", err)
	}

	if cfg.RoamingPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return scopedconfig.StaticHost{}, fmt.Errorf("hostenv: no roaming path configured: %w", err)
		}
		cfg.RoamingPath = filepath.Join(dir, o.appName)
	}

	return scopedconfig.StaticHost{
		Plugin:  cfg.PluginID,
		Library: cfg.LibraryPath,
		Roaming: cfg.RoamingPath,
	}, nil
}
