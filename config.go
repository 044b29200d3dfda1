// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scopedconfig

import (
	"log/slog"
	"sort"

	"github.com/z5labs/scopedconfig/internal/noop"
	"github.com/z5labs/scopedconfig/internal/slogfield"
	"github.com/z5labs/scopedconfig/jsonfile"
	"github.com/z5labs/scopedconfig/key"
)

// Store is the key value structure backing a Config.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any) error
	Delete(key string) error
}

// Opener resolves a file path to its Store. Implementations must return
// the same Store for the same path.
type Opener interface {
	Open(path string) (Store, error)
}

// OpenerFunc is a functional implementation of the Opener interface.
type OpenerFunc func(path string) (Store, error)

// Open implements the [Opener] interface.
func (f OpenerFunc) Open(path string) (Store, error) {
	return f(path)
}

// Files returns an Opener backed by the given jsonfile.Registry.
func Files(r *jsonfile.Registry) Opener {
	return OpenerFunc(func(path string) (Store, error) {
		f, err := r.Open(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	})
}

type accessorOptions struct {
	logHandler slog.Handler
}

// AccessorOption configures an Accessor.
type AccessorOption func(*accessorOptions)

// LogHandler configures the underlying slog.Handler.
func LogHandler(h slog.Handler) AccessorOption {
	return func(ao *accessorOptions) {
		ao.logHandler = h
	}
}

// Accessor hands out Configs for a single Host.
type Accessor struct {
	host   Host
	stores Opener
	log    *slog.Logger
}

// NewAccessor returns an Accessor which resolves scopes against host and
// opens their files through stores. A nil stores gives the Accessor its
// own jsonfile.Registry.
func NewAccessor(host Host, stores Opener, opts ...AccessorOption) *Accessor {
	ao := &accessorOptions{
		logHandler: noop.LogHandler{},
	}
	for _, opt := range opts {
		opt(ao)
	}
	if host == nil {
		host = StaticHost{}
	}
	if stores == nil {
		stores = Files(jsonfile.NewRegistry(jsonfile.LogHandler(ao.logHandler)))
	}

	return &Accessor{
		host:   host,
		stores: stores,
		log:    slog.New(ao.logHandler),
	}
}

type configOptions struct {
	flags []Flag
	item  Item
}

// ConfigOption configures a single Config.
type ConfigOption func(*configOptions)

// WithFlags adds flags to the Config. Repeated flags are collapsed.
func WithFlags(flags ...Flag) ConfigOption {
	return func(co *configOptions) {
		co.flags = append(co.flags, flags...)
	}
}

// WithItem sets the item an item scoped Config belongs to.
func WithItem(item Item) ConfigOption {
	return func(co *configOptions) {
		co.item = item
	}
}

// Config returns a handle onto the store for scope. Every precondition is
// checked here so a returned Config is always usable:
//
//   - flags must be allowed for the scope
//   - FlagPluginOnly needs an active plugin on the Host
//   - ScopeItem needs an Item with a file path
//   - ScopeLibrary needs an active library on the Host
//
// Errors from opening the backing store are returned unchanged.
func (a *Accessor) Config(scope Scope, opts ...ConfigOption) (*Config, error) {
	co := &configOptions{}
	for _, opt := range opts {
		opt(co)
	}

	if !scope.valid() {
		return nil, UnknownScopeError{Scope: scope.String()}
	}

	flags := make(map[Flag]struct{}, len(co.flags))
	for _, f := range co.flags {
		if !f.valid() {
			return nil, UnknownFlagError{Flag: f.String()}
		}
		flags[f] = struct{}{}
	}
	for _, f := range disallowedFlags[scope] {
		if _, ok := flags[f]; ok {
			return nil, InvalidFlagCombinationError{
				Scope: scope,
				Flags: append([]Flag(nil), co.flags...),
			}
		}
	}

	var pluginID string
	if _, ok := flags[FlagPluginOnly]; ok {
		id, ok := a.host.PluginID()
		if !ok || id == "" {
			return nil, MissingPluginContextError{Flag: FlagPluginOnly}
		}
		pluginID = id
	}

	path, err := resolvePath(a.host, scope, co.item)
	if err != nil {
		return nil, err
	}

	store, err := a.stores.Open(path)
	if err != nil {
		return nil, err
	}

	c := &Config{
		scope:    scope,
		flags:    flags,
		item:     co.item,
		pluginID: pluginID,
		path:     path,
		store:    store,
	}
	a.log.Debug(
		"resolved config store",
		slogfield.String("scope", scope.String()),
		slogfield.Strings("flags", flagStrings(c.Flags())),
		slogfield.Path(path),
	)
	return c, nil
}

// Config is a view onto one scoped store. Its scope, flags and item are
// fixed at construction. Configs resolving to the same file share a Store.
type Config struct {
	scope    Scope
	flags    map[Flag]struct{}
	item     Item
	pluginID string
	path     string
	store    Store
}

// Scope returns the scope the Config was built for.
func (c *Config) Scope() Scope {
	return c.scope
}

// Flags returns the Config's flags in ascending order.
func (c *Config) Flags() []Flag {
	flags := make([]Flag, 0, len(c.flags))
	for f := range c.flags {
		flags = append(flags, f)
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i] < flags[j] })
	return flags
}

// Has reports whether the Config was built with f.
func (c *Config) Has(f Flag) bool {
	_, ok := c.flags[f]
	return ok
}

// Item returns the item for item scoped Configs, otherwise nil.
func (c *Config) Item() Item {
	return c.item
}

// Path returns the file path the Config's store was resolved from.
func (c *Config) Path() string {
	return c.path
}

// Key returns the key actually used against the store for k.
func (c *Config) Key(k string) string {
	if !c.Has(FlagPluginOnly) {
		return k
	}
	return key.Chain{key.Name(c.pluginID), key.Name(k)}.Key()
}

// Get returns the value stored under k.
func (c *Config) Get(k string) (any, bool) {
	return c.store.Get(c.Key(k))
}

// Set stores v under k, replacing any previous value.
func (c *Config) Set(k string, v any) error {
	return c.store.Set(c.Key(k), v)
}

// Delete removes k. Deleting an absent key is not an error.
func (c *Config) Delete(k string) error {
	return c.store.Delete(c.Key(k))
}

func flagStrings(flags []Flag) []string {
	ss := make([]string, len(flags))
	for i, f := range flags {
		ss[i] = f.String()
	}
	return ss
}
