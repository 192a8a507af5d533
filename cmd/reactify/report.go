package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/reactify/internal/report"
)

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Work with saved run reports",
		Subcommands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "Render a JSON report as a standalone HTML page",
				ArgsUsage: "<report.json>",
				Description: `Renders a report saved with --format json into HTML.

Examples:
  reactify transform -f json -o report.json src
  reactify report render -o report.html report.json`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "report.html",
						Usage:   "HTML output path",
					},
				},
				Action: runReportRender,
			},
		},
	}
}

func runReportRender(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected one report file, got %d", c.Args().Len())
	}

	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}
	out := c.String("output")
	if err := renderer.RenderFile(c.Args().First(), out); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	color.New(color.FgGreen).Fprintf(c.App.Writer, "Report written to %s\n", out)
	return nil
}
