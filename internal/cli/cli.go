// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package cli implements the scopecfg command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/z5labs/scopedconfig"
	"github.com/z5labs/scopedconfig/hostenv"
	"github.com/z5labs/scopedconfig/internal/noop"
	"github.com/z5labs/scopedconfig/internal/try"
	"github.com/z5labs/scopedconfig/jsonfile"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"gopkg.in/yaml.v3"
)

// KeyNotFoundError is returned by get when the key holds no value.
type KeyNotFoundError struct {
	Key  string
	Path string
}

// Error implements the error interface.
func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf("key not found: %s in %s", e.Key, e.Path)
}

// UnknownOutputFormatError is returned for an unsupported --output value.
type UnknownOutputFormatError struct {
	Format string
}

// Error implements the error interface.
func (e UnknownOutputFormatError) Error() string {
	return fmt.Sprintf("unknown output format: %s", e.Format)
}

type state struct {
	scope      string
	pluginOnly bool
	item       string
	hostConfig string
	output     string
	trace      bool
	verbose    bool

	files *jsonfile.Registry
	log   slog.Handler
	tp    *sdktrace.TracerProvider

	tracer trace.Tracer
}

// New returns the root scopecfg command.
func New() *cobra.Command {
	st := &state{
		tracer: tracenoop.NewTracerProvider().Tracer("scopecfg"),
		log:    noop.LogHandler{},
	}

	root := &cobra.Command{
		Use:           "scopecfg",
		Short:         "Read and write scoped JSON configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.init(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if st.tp == nil {
				return nil
			}
			return st.tp.Shutdown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&st.scope, "scope", scopedconfig.ScopeGlobal.String(), "config scope: app, plugin, item, library or global")
	flags.BoolVar(&st.pluginOnly, "plugin-only", false, "namespace keys with the active plugin id")
	flags.StringVar(&st.item, "item", "", "file path of the item for item scope")
	flags.StringVar(&st.hostConfig, "host-config", "", "file describing the host context")
	flags.StringVarP(&st.output, "output", "o", "json", "output format: json or yaml")
	flags.BoolVar(&st.trace, "trace", false, "write trace spans to stderr")
	flags.BoolVarP(&st.verbose, "verbose", "v", false, "write debug logs to stderr")

	root.AddCommand(
		getCommand(st),
		setCommand(st),
		deleteCommand(st),
	)
	return root
}

func (st *state) init(errOut io.Writer) error {
	if st.output != "json" && st.output != "yaml" {
		return UnknownOutputFormatError{Format: st.output}
	}
	if st.verbose {
		st.log = slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	st.files = jsonfile.NewRegistry(jsonfile.LogHandler(st.log))

	if !st.trace {
		return nil
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(errOut))
	if err != nil {
		return err
	}
	st.tp = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	st.tracer = st.tp.Tracer("scopecfg")
	return nil
}

func (st *state) config() (*scopedconfig.Config, error) {
	scope, err := scopedconfig.ParseScope(st.scope)
	if err != nil {
		return nil, err
	}

	var hostOpts []hostenv.Option
	if st.hostConfig != "" {
		hostOpts = append(hostOpts, hostenv.File(st.hostConfig))
	}
	host, err := hostenv.Load(hostOpts...)
	if err != nil {
		return nil, err
	}

	var opts []scopedconfig.ConfigOption
	if st.pluginOnly {
		opts = append(opts, scopedconfig.WithFlags(scopedconfig.FlagPluginOnly))
	}
	if st.item != "" {
		opts = append(opts, scopedconfig.WithItem(scopedconfig.ItemPath(st.item)))
	}

	configs := scopedconfig.NewAccessor(host, scopedconfig.Files(st.files), scopedconfig.LogHandler(st.log))
	return configs.Config(scope, opts...)
}

// run wraps f in a span named after the command.
func (st *state) run(cmd *cobra.Command, key string, f func(context.Context, *scopedconfig.Config) error) (err error) {
	defer try.Recover(&err)

	ctx, span := st.tracer.Start(
		cmd.Context(),
		cmd.Name(),
		trace.WithAttributes(
			attribute.String("scope", st.scope),
			attribute.String("key", key),
			attribute.Bool("plugin_only", st.pluginOnly),
		),
	)
	defer span.End()

	return st.runInSpan(ctx, span, f)
}

func (st *state) runInSpan(ctx context.Context, span trace.Span, f func(context.Context, *scopedconfig.Config) error) error {
	cfg, err := st.config()
	if err == nil {
		span.SetAttributes(attribute.String("path", cfg.Path()))
		err = f(ctx, cfg)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func getCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value stored under KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.run(cmd, args[0], func(_ context.Context, cfg *scopedconfig.Config) error {
				v, ok := cfg.Get(args[0])
				if !ok {
					return KeyNotFoundError{Key: cfg.Key(args[0]), Path: cfg.Path()}
				}
				return writeValue(cmd.OutOrStdout(), st.output, v)
			})
		},
	}
}

func setCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store VALUE under KEY",
		Long:  "Store VALUE under KEY. VALUE is stored as JSON when it parses as JSON, otherwise as a string.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.run(cmd, args[0], func(_ context.Context, cfg *scopedconfig.Config) error {
				return cfg.Set(args[0], parseValue(args[1]))
			})
		},
	}
}

func deleteCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Remove the value stored under KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.run(cmd, args[0], func(_ context.Context, cfg *scopedconfig.Config) error {
				return cfg.Delete(args[0])
			})
		},
	}
}

func parseValue(s string) any {
	var v any
	err := json.Unmarshal([]byte(s), &v)
	if err != nil {
		return s
	}
	return v
}

func writeValue(w io.Writer, format string, v any) (err error) {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer try.Close(&err, enc)
		enc.SetIndent(2)
		return enc.Encode(v)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
