package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/reactify/internal/service/rewrite"
	"github.com/panbanda/reactify/pkg/parser"
	"github.com/panbanda/reactify/pkg/transform"
	"github.com/panbanda/reactify/pkg/watch"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch for file changes and rewrite changed files in place",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "How long a file must be quiet before it is rewritten",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	paths := getPaths(c)
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(paths[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	cc, err := openCache(c, cfg)
	if err != nil {
		return err
	}
	svc := rewrite.New(rewrite.WithConfig(cfg), rewrite.WithCache(cc), rewrite.WithLogger(logger(c)))

	watcher, err := watch.NewWatcher(absPath, cfg, c.Duration("debounce"), watch.WithOutput(c.App.Writer))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	ctx, cancel := signalContext(c)
	defer cancel()

	// Callbacks are serialized, so one parser serves them all.
	p := parser.New()
	defer p.Close()

	watcher.SetCallback(func(changedPath string) {
		result, err := svc.TransformFile(ctx, p, changedPath)
		rewriteOne(c.App.Writer, svc, result, err)
	})

	err = watcher.Start(ctx)
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		fmt.Fprintln(c.App.Writer, "\nStopping watch...")
		return nil
	}
	return err
}

// rewriteOne writes one watched file back when it changed and reports what
// happened.
func rewriteOne(w io.Writer, svc *rewrite.Service, result *transform.Result, err error) {
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "Error: %v\n", err)
		return
	}
	if !result.Changed {
		color.New(color.FgGreen).Fprintln(w, "Up to date")
		return
	}
	if _, err := svc.Write([]*transform.Result{result}, rewrite.WriteOptions{}); err != nil {
		color.New(color.FgRed).Fprintf(w, "Error: %v\n", err)
		return
	}
	color.New(color.FgYellow).Fprintf(w, "Rewrote %d declarations and %d assignments\n",
		result.Stats.Declarations, result.Stats.Assignments)
}
