package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/panbanda/reactify/internal/output"
	"github.com/panbanda/reactify/internal/report"
	"github.com/panbanda/reactify/internal/service/rewrite"
	scannerSvc "github.com/panbanda/reactify/internal/service/scanner"
	"github.com/panbanda/reactify/pkg/parser"
	"github.com/panbanda/reactify/pkg/reactive"
)

// SourceInput is the input of the tools that work on a single source text.
type SourceInput struct {
	Source   string `json:"source" jsonschema:"The source code to process."`
	Filename string `json:"filename,omitempty" jsonschema:"File name used to detect the language and in messages. Default input.jsx."`
	Language string `json:"language,omitempty" jsonschema:"Language override: js, jsx, ts or tsx."`
	Format   string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// FilesInput is the input of transform_files.
type FilesInput struct {
	Paths  []string `json:"paths,omitempty" jsonschema:"Files or directories to rewrite. Defaults to current directory if empty."`
	Write  bool     `json:"write,omitempty" jsonschema:"Write changed files in place. Default false, which only reports diffs."`
	Format string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// SourceResult is the result of transform_source.
type SourceResult struct {
	Filename string         `json:"filename" toon:"filename"`
	Language string         `json:"language" toon:"language"`
	Changed  bool           `json:"changed" toon:"changed"`
	Stats    reactive.Stats `json:"stats" toon:"stats"`
	Code     string         `json:"code" toon:"code"`
	Diff     string         `json:"diff,omitempty" toon:"diff,omitempty"`
}

// InspectResult is the result of inspect_source.
type InspectResult struct {
	Filename  string              `json:"filename" toon:"filename"`
	Functions []reactive.Function `json:"functions" toon:"functions"`
}

func getPaths(paths []string) []string {
	if len(paths) == 0 {
		return []string{"."}
	}
	return paths
}

func getFormat(format string) output.Format {
	switch format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func (in SourceInput) filename() string {
	if in.Filename == "" {
		return "input.jsx"
	}
	return in.Filename
}

func (in SourceInput) language() parser.Language {
	if in.Language != "" {
		return parser.ParseLanguage(in.Language)
	}
	return parser.DetectLanguage(in.filename())
}

func formatOutput(data any, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		if r, ok := data.(output.Renderable); ok {
			var buf bytes.Buffer
			if err := r.RenderMarkdown(&buf); err != nil {
				return "", err
			}
			return buf.String(), nil
		}
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return "```\n" + string(out) + "\n```", nil
	default:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) rewriter() *rewrite.Service {
	opts := []rewrite.Option{rewrite.WithConfig(s.config), rewrite.WithLogger(s.logger)}
	if s.cache != nil {
		opts = append(opts, rewrite.WithCache(s.cache))
	}
	return rewrite.New(opts...)
}

func (s *Server) handleTransformSource(ctx context.Context, req *mcp.CallToolRequest, input SourceInput) (*mcp.CallToolResult, any, error) {
	lang := input.language()
	if lang == parser.LangUnknown {
		return toolError(fmt.Sprintf("cannot detect language of %q, set language to js, jsx, ts or tsx", input.filename()))
	}

	result, err := s.rewriter().Transformer().TransformSource(ctx, []byte(input.Source), lang, input.filename())
	if err != nil {
		return toolError(err.Error())
	}
	diff, err := result.Diff()
	if err != nil {
		return toolError(err.Error())
	}

	return toolResult(SourceResult{
		Filename: input.filename(),
		Language: string(lang),
		Changed:  result.Changed,
		Stats:    result.Stats,
		Code:     string(result.Code),
		Diff:     diff,
	}, getFormat(input.Format))
}

func (s *Server) handleTransformFiles(ctx context.Context, req *mcp.CallToolRequest, input FilesInput) (*mcp.CallToolResult, any, error) {
	paths := getPaths(input.Paths)

	scanner := scannerSvc.New(scannerSvc.WithConfig(s.config))
	scanResult, err := scanner.ScanPaths(paths)
	if err != nil {
		return toolError(err.Error())
	}
	if len(scanResult.Files) == 0 {
		return toolError("no source files found")
	}

	svc := s.rewriter()
	results, errs := svc.TransformFiles(ctx, scanResult.Files, rewrite.Options{})

	if input.Write {
		if _, err := svc.Write(results, rewrite.WriteOptions{}); err != nil {
			return toolError(err.Error())
		}
	}

	root := scanResult.RepoRoot
	if root == "" {
		root, _ = filepath.Abs(paths[0])
	}
	rep, err := report.New(report.Metadata{
		Command:    "transform",
		Repository: scanResult.RepoRoot,
		Ref:        scanResult.Ref,
		Version:    s.version,
		Paths:      paths,
		Written:    input.Write,
	}, results, errs, report.Options{Root: root, Diffs: !input.Write})
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(rep, getFormat(input.Format))
}

func (s *Server) handleInspectSource(ctx context.Context, req *mcp.CallToolRequest, input SourceInput) (*mcp.CallToolResult, any, error) {
	lang := input.language()
	if lang == parser.LangUnknown {
		return toolError(fmt.Sprintf("cannot detect language of %q, set language to js, jsx, ts or tsx", input.filename()))
	}

	p := parser.New()
	defer p.Close()
	fns, err := s.rewriter().Transformer().Inspect(ctx, p, []byte(input.Source), lang, input.filename())
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(InspectResult{Filename: input.filename(), Functions: fns}, getFormat(input.Format))
}
