package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/panbanda/reactify/pkg/config"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new reactify configuration file",
		Description: `Creates a new reactify.toml configuration file in the current directory
with sensible defaults. The format follows the file extension (.toml, .yaml,
.yml or .json).

Examples:
  reactify init                            # Creates reactify.toml
  reactify init -o .reactify/reactify.yaml # YAML config in .reactify
  reactify init --force                    # Overwrite existing config file`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "reactify.toml",
				Usage:   "Output file path",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite existing config file",
			},
		},
		Action: runInit,
	}
}

func runInit(c *cli.Context) error {
	outputPath := c.String("output")

	if _, err := os.Stat(outputPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	content, err := marshalConfig(config.DefaultConfig(), outputPath, true)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	color.New(color.FgGreen).Fprintf(c.App.Writer, "Created %s\n", outputPath)
	fmt.Fprintln(c.App.Writer, "Edit this file to customize the rewrite.")
	return nil
}

// marshalConfig encodes cfg in the format named by path's extension. JSON
// has no comments, so the header is only written for TOML and YAML.
func marshalConfig(cfg *config.Config, path string, header bool) ([]byte, error) {
	var (
		content []byte
		err     error
	)
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		content, err = yaml.Marshal(cfg)
	case ".json":
		content, err = json.MarshalIndent(cfg, "", "  ")
		content = append(content, '\n')
	default:
		content, err = toml.Marshal(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if !header || ext == ".json" {
		return content, nil
	}

	var buf strings.Builder
	buf.WriteString("# reactify configuration\n")
	buf.WriteString("# Documentation: https://github.com/panbanda/reactify\n\n")
	buf.Write(content)
	return []byte(buf.String()), nil
}
