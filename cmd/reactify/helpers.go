package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/reactify/internal/cache"
	"github.com/panbanda/reactify/internal/output"
	"github.com/panbanda/reactify/internal/progress"
	"github.com/panbanda/reactify/pkg/config"
)

// errCheckFailed is returned by check when any file would be rewritten.
var errCheckFailed = errors.New("files would be rewritten")

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig loads the file named by --config, or the first config file
// found in the working directory.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	result, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}
	if result.Source != "" {
		logger(c).Debug("loaded config", "path", result.Source)
	}
	return result.Config, nil
}

// logger returns the logger configured in Before.
func logger(c *cli.Context) *slog.Logger {
	if l, ok := c.App.Metadata["logger"].(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// openCache opens the configured cache, or a disabled one with --no-cache.
func openCache(c *cli.Context, cfg *config.Config) (*cache.Cache, error) {
	enabled := cfg.Cache.Enabled && !c.Bool("no-cache")
	cc, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", cfg.Cache.Dir, err)
	}
	return cc, nil
}

// outputFormat resolves --format against the configured default.
func outputFormat(c *cli.Context, cfg *config.Config) output.Format {
	if f := c.String("format"); f != "" {
		return output.ParseFormat(f)
	}
	return output.ParseFormat(cfg.Output.Format)
}

// newFormatter writes to --output when set, otherwise to the app's writer.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := outputFormat(c, cfg)
	if path := c.String("output"); path != "" {
		return output.NewFormatter(format, path)
	}
	return output.NewFormatterTo(format, c.App.Writer, cfg.Output.Color && isTerminal(c.App.Writer)), nil
}

// interactive reports whether progress output belongs on stderr: only for
// human-readable formats on a terminal.
func interactive(c *cli.Context, format output.Format) bool {
	return !format.Structured() && isTerminal(c.App.ErrWriter)
}

func newTracker(c *cli.Context, format output.Format, label string, total int) *progress.Tracker {
	if !interactive(c, format) {
		return progress.Disabled()
	}
	return progress.NewTracker(label, total, progress.WithWriter(c.App.ErrWriter))
}

func newSpinner(c *cli.Context, format output.Format, label string) *progress.Tracker {
	if !interactive(c, format) {
		return progress.Disabled()
	}
	return progress.NewSpinner(label, progress.WithWriter(c.App.ErrWriter))
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// workingRoot is the directory report paths are made relative to.
func workingRoot(repoRoot string) string {
	if repoRoot != "" {
		return repoRoot
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
