package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/reactify/internal/output"
	scannerSvc "github.com/panbanda/reactify/internal/service/scanner"
	"github.com/panbanda/reactify/pkg/parser"
	"github.com/panbanda/reactify/pkg/reactive"
	"github.com/panbanda/reactify/pkg/transform"
)

// inspectedFile is one file in the inspect output.
type inspectedFile struct {
	Path      string              `json:"path" toon:"path"`
	Functions []reactive.Function `json:"functions" toon:"functions"`
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "List functions and whether the rewrite treats them as components or hooks",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Include functions that are neither components nor hooks",
			},
		},
		Action: runInspectCmd,
	}
}

func runInspectCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	scanResult, err := scannerSvc.New(scannerSvc.WithConfig(cfg)).ScanPaths(getPaths(c))
	if err != nil {
		return err
	}

	t := transform.New(cfg, transform.WithLogger(logger(c)))
	p := parser.New()
	defer p.Close()

	root := workingRoot(scanResult.RepoRoot)
	var files []inspectedFile
	var rows [][]string
	for _, path := range scanResult.Files {
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		fns, err := t.Inspect(c.Context, p, source, parser.DetectLanguage(path), path)
		if err != nil {
			return err
		}

		rel := relTo(root, path)
		var kept []reactive.Function
		for _, fn := range fns {
			if fn.Role == reactive.RoleNone && !c.Bool("all") {
				continue
			}
			fn.Location.File = rel
			kept = append(kept, fn)
			rows = append(rows, []string{
				rel,
				displayName(fn),
				string(fn.Role),
				strconv.Itoa(fn.Location.StartLine),
				strings.Join(fn.State, ", "),
			})
		}
		if len(kept) > 0 {
			files = append(files, inspectedFile{Path: rel, Functions: kept})
		}
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	table := output.NewTable("Components and hooks",
		[]string{"File", "Function", "Role", "Line", "State"},
		rows,
		[]string{fmt.Sprintf("%d functions", len(rows)), "", "", "", ""},
		files)
	return formatter.Output(table)
}

func displayName(fn reactive.Function) string {
	switch {
	case fn.Name == "":
		return "(anonymous)"
	case fn.ExpressionBody:
		return fn.Name + " (expression body)"
	default:
		return fn.Name
	}
}

func relTo(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
