package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/reactify/internal/fileproc"
	"github.com/panbanda/reactify/internal/output"
	"github.com/panbanda/reactify/internal/report"
	"github.com/panbanda/reactify/internal/service/rewrite"
	scannerSvc "github.com/panbanda/reactify/internal/service/scanner"
	"github.com/panbanda/reactify/pkg/config"
	"github.com/panbanda/reactify/pkg/transform"
)

func scanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "changed",
			Usage: "Only files with uncommitted changes in the git working tree",
		},
		&cli.BoolFlag{
			Name:  "untracked",
			Usage: "With --changed, include untracked files",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Maximum parallel workers (default from config)",
		},
	}
}

func transformCmd() *cli.Command {
	return &cli.Command{
		Name:      "transform",
		Aliases:   []string{"tx"},
		Usage:     "Rewrite component and hook state into useState pairs",
		ArgsUsage: "[path...]",
		Description: `Rewrites every source file under the given paths.

A single file is printed to stdout. Several files produce a report unless
--write rewrites them in place or --out mirrors them into a directory.

Examples:
  reactify transform src/App.jsx           # print the rewritten file
  reactify transform --write src           # rewrite in place
  reactify transform --out build/src src   # write a mirror tree
  reactify transform --changed --write .   # only files changed in git
  reactify tx -f json -o report.json src   # JSON report`,
		Flags: append(scanFlags(),
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Rewrite changed files in place",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Write every file into this directory, mirroring the source tree",
			},
			&cli.BoolFlag{
				Name:  "allow-dirty",
				Usage: "With --write, also rewrite files that have uncommitted changes",
			},
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "Include unified diffs in the report",
			},
		),
		Action: runTransformCmd,
	}
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Show the diff for files that would be rewritten; exit 1 if any would",
		ArgsUsage: "[path...]",
		Flags:     scanFlags(),
		Action:    runCheckCmd,
	}
}

// run is the state shared by transform and check.
type run struct {
	cfg     *config.Config
	svc     *rewrite.Service
	scan    *scannerSvc.ScanResult
	results []*transform.Result
	errs    *fileproc.ProcessingErrors
}

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

func startRun(c *cli.Context, cfg *config.Config, format output.Format) (*run, error) {
	if n := c.Int("workers"); n > 0 {
		cfg.Workers = n
	}
	log := logger(c)

	scanner := scannerSvc.New(scannerSvc.WithConfig(cfg))
	paths := getPaths(c)
	spinner := newSpinner(c, format, "Scanning")
	var scanResult *scannerSvc.ScanResult
	var err error
	if c.Bool("changed") {
		scanResult, err = scanner.ScanChanged(paths, c.Bool("untracked"))
	} else {
		scanResult, err = scanner.ScanPaths(paths)
	}
	switch {
	case err != nil:
		spinner.FinishError(err)
		return nil, err
	case len(scanResult.Files) == 0:
		spinner.FinishSkipped("no source files")
	default:
		spinner.FinishSuccess()
	}
	log.Debug("scanned", "files", len(scanResult.Files), "repository", scanResult.RepoRoot)

	cc, err := openCache(c, cfg)
	if err != nil {
		return nil, err
	}
	svc := rewrite.New(rewrite.WithConfig(cfg), rewrite.WithCache(cc), rewrite.WithLogger(log))

	r := &run{cfg: cfg, svc: svc, scan: scanResult}
	if len(scanResult.Files) == 0 {
		return r, nil
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	tracker := newTracker(c, format, "Transforming...", len(scanResult.Files))
	r.results, r.errs = svc.TransformFiles(ctx, scanResult.Files, rewrite.Options{OnProgress: tracker.Tick})
	if r.errs.HasErrors() {
		tracker.FinishError(r.errs)
	} else {
		tracker.FinishSuccess()
	}
	return r, nil
}

func (r *run) report(c *cli.Context, command string, written bool, diffs bool) (*report.Report, error) {
	return report.New(report.Metadata{
		Command:    command,
		Repository: r.scan.RepoRoot,
		Ref:        r.scan.Ref,
		Version:    version,
		Paths:      getPaths(c),
		Written:    written,
	}, r.results, r.errs, report.Options{Root: workingRoot(r.scan.RepoRoot), Diffs: diffs})
}

// singleFile reports whether the run names exactly one existing file.
func singleFile(c *cli.Context) bool {
	if c.Args().Len() != 1 || c.Bool("changed") {
		return false
	}
	info, err := os.Stat(c.Args().First())
	return err == nil && !info.IsDir()
}

func runTransformCmd(c *cli.Context) error {
	write := c.Bool("write")
	outDir := c.String("out")
	if write && outDir != "" {
		return fmt.Errorf("--write and --out are mutually exclusive")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	format := outputFormat(c, cfg)
	printCode := singleFile(c) && !write && outDir == "" && format == output.FormatText

	r, err := startRun(c, cfg, format)
	if err != nil {
		return err
	}
	if len(r.scan.Files) == 0 {
		color.New(color.FgYellow).Fprintln(c.App.ErrWriter, "No source files found")
		return nil
	}

	if printCode {
		if r.errs.HasErrors() {
			return r.errs.Errors[0].Err
		}
		w := c.App.Writer
		if path := c.String("output"); path != "" {
			return os.WriteFile(path, r.results[0].Code, 0o644)
		}
		_, err := w.Write(r.results[0].Code)
		return err
	}

	if write {
		dirty, err := scannerSvc.New(scannerSvc.WithConfig(r.cfg)).DirtyFiles(changedPaths(r.results))
		if err != nil {
			return err
		}
		if len(dirty) > 0 && !c.Bool("allow-dirty") {
			return fmt.Errorf("refusing to rewrite files with uncommitted changes (use --allow-dirty):\n  %s",
				strings.Join(dirty, "\n  "))
		}
	}

	var written []string
	if write || outDir != "" {
		root := workingRoot(r.scan.RepoRoot)
		if outDir != "" {
			if root, err = commonRoot(getPaths(c)); err != nil {
				return err
			}
		}
		written, err = r.svc.Write(r.results, rewrite.WriteOptions{OutDir: outDir, Root: root})
		if err != nil {
			return err
		}
	}

	rep, err := r.report(c, "transform", len(written) > 0, c.Bool("diff"))
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, r.cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()
	if err := formatter.Output(rep); err != nil {
		return err
	}

	if format == output.FormatText {
		if len(written) > 0 {
			formatter.Success("Wrote %d files", len(written))
		} else if rep.HasChanges() && outDir == "" {
			formatter.Info("Dry run: use --write to rewrite %d files in place", rep.Summary.Changed)
		}
	}
	if r.errs.HasErrors() {
		return r.errs
	}
	return nil
}

func runCheckCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	format := outputFormat(c, cfg)

	r, err := startRun(c, cfg, format)
	if err != nil {
		return err
	}
	if len(r.scan.Files) == 0 {
		color.New(color.FgYellow).Fprintln(c.App.ErrWriter, "No source files found")
		return nil
	}

	formatter, err := newFormatter(c, r.cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	rep, err := r.report(c, "check", false, true)
	if err != nil {
		return err
	}

	if format == output.FormatText {
		for _, f := range rep.Files {
			if f.Diff != "" {
				formatter.Diff(f.Diff)
			}
		}
		for _, f := range rep.Files {
			if f.Status == report.StatusFailed {
				formatter.Error("%s: %s", f.Path, f.Error)
			}
		}
		if rep.HasChanges() {
			formatter.Warning("%d of %d files would be rewritten", rep.Summary.Changed, rep.Summary.Files)
		} else if !rep.HasFailures() {
			formatter.Success("All %d files are up to date", rep.Summary.Files)
		}
	} else if err := formatter.Output(rep); err != nil {
		return err
	}

	switch {
	case r.errs.HasErrors():
		return r.errs
	case rep.HasChanges():
		return errCheckFailed
	}
	return nil
}

func changedPaths(results []*transform.Result) []string {
	var paths []string
	for _, r := range results {
		if r.Changed {
			paths = append(paths, r.Path)
		}
	}
	return paths
}

// commonRoot returns the deepest directory containing every path. A file
// argument contributes its parent directory.
func commonRoot(paths []string) (string, error) {
	var root string
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("invalid path %s: %w", p, err)
		}
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			abs = filepath.Dir(abs)
		}
		if i == 0 {
			root = abs
			continue
		}
		for !isWithin(abs, root) {
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}
	return root, nil
}

func isWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && filepath.IsLocal(rel)
}
