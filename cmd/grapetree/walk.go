package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/grapetree"
	"github.com/dmitrymomot/grapetree/core/config"
	"github.com/dmitrymomot/grapetree/core/logger"
	"github.com/dmitrymomot/grapetree/internal/routetable"
)

// cliConfig extends the router settings with output options.
type cliConfig struct {
	grapetree.Config
	LogLevel  string `env:"GRAPETREE_LOG_LEVEL" envDefault:"info" toml:"log_level"`
	LogFormat string `env:"GRAPETREE_LOG_FORMAT" envDefault:"text" toml:"log_format"`
}

type walkOptions struct {
	table      string
	configFile string
	sep        string
	keepGoing  bool
}

func walkCmd() *cobra.Command {
	var opts walkOptions

	cmd := &cobra.Command{
		Use:   "walk --table routes.toml [paths...]",
		Short: "Run transitions through a route table",
		Long: `Load a TOML route table and go to each path in order.

Without --sep paths are split on "/". Every hook is logged.

Examples:
  grapetree walk --table routes.toml users/1 users/2
  grapetree walk --table routes.toml --sep . docs.intro
  grapetree walk --table routes.toml --config grapetree.toml --keep-going a b`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWalk(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.table, "table", "t", "", "Route table file (TOML)")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Router config file (TOML)")
	cmd.Flags().StringVar(&opts.sep, "sep", "", `Path separator (default "/" or the configured separator)`)
	cmd.Flags().BoolVarP(&opts.keepGoing, "keep-going", "k", false, "Continue after a failed transition")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func loadConfig(path string) (cliConfig, error) {
	var cfg cliConfig
	if path != "" {
		return cfg, config.LoadFile(path, &cfg)
	}
	return cfg, config.Load(&cfg)
}

func newLogger(cfg cliConfig, out io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	opts := []logger.Option{logger.WithLevel(level), logger.WithOutput(out)}
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		opts = append(opts, logger.WithJSONFormatter())
	case "text", "":
		opts = append(opts, logger.WithTextFormatter())
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return logger.New(opts...), nil
}

func runWalk(ctx context.Context, out io.Writer, opts walkOptions, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}
	if opts.sep != "" {
		cfg.Separator = opts.sep
	}
	if cfg.Separator == "" {
		cfg.Separator = "/"
	}

	log, err := newLogger(cfg, out)
	if err != nil {
		return err
	}

	table, err := routetable.Load(opts.table)
	if err != nil {
		return err
	}

	rt := grapetree.New(
		routetable.Compile(table, routetable.LogObserver{Logger: log}, routetable.WithSeparator(cfg.Separator)),
		grapetree.WithConfig(cfg.Config),
		grapetree.WithLogger(log),
	)
	defer rt.Close()

	rt.OnChange(func(ctx context.Context, c grapetree.Change) error {
		log.InfoContext(ctx, "change",
			logger.Path(c.Path),
			logger.From(c.Previous),
			slog.Bool("redirected", c.Redirected),
			slog.Bool("partial", c.Partial))
		return nil
	})

	var errs []error
	for _, p := range paths {
		if err := rt.Go(ctx, p, grapetree.WithSoftQueue(false)).Await(); err != nil {
			if !opts.keepGoing {
				return fmt.Errorf("go %q: %w", p, err)
			}
			errs = append(errs, fmt.Errorf("go %q: %w", p, err))
		}
	}

	fmt.Fprintf(out, "current: %v\n", rt.Current())
	return errors.Join(errs...)
}
