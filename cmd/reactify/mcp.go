package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/reactify/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the rewrite as tools
that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "reactify": {
        "command": "reactify",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - transform_source   Rewrite one source text
  - transform_files    Rewrite files and directories, optionally in place
  - inspect_source     Classify the functions in a source text`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:  "manifest",
				Usage: "Print the MCP server manifest (server.json)",
				Action: func(c *cli.Context) error {
					data, err := mcpserver.GenerateManifest(version)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(c.App.Writer, string(data))
					return err
				},
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cc, err := openCache(c, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	server := mcpserver.NewServer(version,
		mcpserver.WithConfig(cfg),
		mcpserver.WithCache(cc),
		mcpserver.WithLogger(logger(c)),
	)
	return server.Run(ctx)
}
