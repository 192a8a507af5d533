package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/reactify/internal/report"
	"github.com/panbanda/reactify/internal/testutil"
	"github.com/panbanda/reactify/pkg/config"
	"github.com/panbanda/reactify/pkg/reactive"
)

const (
	appSource = "function App() { let n = 0; n += 1; }\n"
	appOutput = "import { useState } from \"react\";\nfunction App() { const [n, setn] = useState(0); setn(_unique => _unique += 1); }\n"
	utilSrc   = "export function add(a, b) { let s = a; s += b; return s; }\n"
)

// runApp runs the CLI with args and returns everything it wrote.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(append([]string{"reactify"}, args...))
	return buf.String(), err
}

// project creates a source tree in a temp dir and makes it the working
// directory.
func project(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := testutil.Tree(t, files)
	t.Chdir(dir)
	return dir
}

func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{"no args defaults to current dir", []string{}, []string{"."}},
		{"single path", []string{"src"}, []string{"src"}},
		{"multiple paths", []string{"src", "lib"}, []string{"src", "lib"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := flag.NewFlagSet("test", flag.ContinueOnError)
			require.NoError(t, set.Parse(tt.args))
			ctx := cli.NewContext(newApp(), set, nil)
			assert.Equal(t, tt.expected, getPaths(ctx))
		})
	}
}

func TestTransformSingleFile(t *testing.T) {
	dir := project(t, map[string]string{"App.jsx": appSource})

	out, err := runApp(t, "transform", "App.jsx")
	require.NoError(t, err)
	assert.Equal(t, appOutput, out)
	assert.Equal(t, appSource, testutil.ReadFile(t, filepath.Join(dir, "App.jsx")), "printing must not touch the file")
}

func TestTransformSingleFileToOutput(t *testing.T) {
	dir := project(t, map[string]string{"App.jsx": appSource})

	out, err := runApp(t, "-o", "out.jsx", "transform", "App.jsx")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, appOutput, testutil.ReadFile(t, filepath.Join(dir, "out.jsx")))
}

func TestTransformSyntaxError(t *testing.T) {
	project(t, map[string]string{"Bad.jsx": "function App( {"})

	_, err := runApp(t, "transform", "Bad.jsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestTransformWrite(t *testing.T) {
	dir := project(t, map[string]string{
		"src/App.jsx":      appSource,
		"src/util.js":      utilSrc,
		"src/App.test.jsx": appSource,
	})

	out, err := runApp(t, "--no-cache", "transform", "--write", "src")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 files")

	assert.Equal(t, appOutput, testutil.ReadFile(t, filepath.Join(dir, "src/App.jsx")))
	assert.Equal(t, utilSrc, testutil.ReadFile(t, filepath.Join(dir, "src/util.js")))
	assert.Equal(t, appSource, testutil.ReadFile(t, filepath.Join(dir, "src/App.test.jsx")), "excluded files are left alone")

	// A second run finds nothing left to do.
	out, err = runApp(t, "--no-cache", "transform", "--write", "src")
	require.NoError(t, err)
	assert.NotContains(t, out, "Wrote")
}

func TestTransformOut(t *testing.T) {
	dir := project(t, map[string]string{
		"src/App.jsx":     appSource,
		"src/lib/util.js": utilSrc,
	})

	_, err := runApp(t, "--no-cache", "transform", "--out", "build", "src")
	require.NoError(t, err)

	assert.Equal(t, appOutput, testutil.ReadFile(t, filepath.Join(dir, "build/App.jsx")))
	assert.Equal(t, utilSrc, testutil.ReadFile(t, filepath.Join(dir, "build/lib/util.js")), "unchanged files are mirrored")
	assert.Equal(t, appSource, testutil.ReadFile(t, filepath.Join(dir, "src/App.jsx")))
}

func TestTransformWriteAndOutConflict(t *testing.T) {
	project(t, map[string]string{"App.jsx": appSource})

	_, err := runApp(t, "transform", "--write", "--out", "build", ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestTransformNoFiles(t *testing.T) {
	project(t, map[string]string{"README.md": "# hi\n"})

	out, err := runApp(t, "transform", ".")
	require.NoError(t, err)
	assert.Contains(t, out, "No source files found")
}

func TestTransformJSONReportAndRender(t *testing.T) {
	dir := project(t, map[string]string{
		"App.jsx": appSource,
		"util.js": utilSrc,
	})

	_, err := runApp(t, "--no-cache", "-f", "json", "-o", "report.json", "transform", "--diff", ".")
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(testutil.ReadFile(t, filepath.Join(dir, "report.json"))), &rep))
	assert.Equal(t, "transform", rep.Metadata.Command)
	assert.False(t, rep.Metadata.Written)
	assert.Equal(t, 2, rep.Summary.Files)
	assert.Equal(t, 1, rep.Summary.Changed)
	assert.Equal(t, 1, rep.Summary.Declarations)
	assert.Equal(t, 1, rep.Summary.Assignments)

	var app *report.File
	for i := range rep.Files {
		if rep.Files[i].Path == "App.jsx" {
			app = &rep.Files[i]
		}
	}
	require.NotNil(t, app)
	assert.Equal(t, report.StatusChanged, app.Status)
	assert.Contains(t, app.Diff, "--- a/App.jsx")

	out, err := runApp(t, "report", "render", "-o", "report.html", "report.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to report.html")
	assert.Contains(t, testutil.ReadFile(t, filepath.Join(dir, "report.html")), "App.jsx")
}

func TestReportRenderArgs(t *testing.T) {
	project(t, nil)

	_, err := runApp(t, "report", "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one report file")

	_, err = runApp(t, "report", "render", "missing.json")
	require.Error(t, err)
}

func TestCheck(t *testing.T) {
	dir := project(t, map[string]string{
		"App.jsx": appSource,
		"util.js": utilSrc,
	})

	out, err := runApp(t, "--no-cache", "check", ".")
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "--- a/App.jsx")
	assert.Contains(t, out, "+++ b/App.jsx")
	assert.Contains(t, out, "1 of 2 files would be rewritten")
	assert.Equal(t, appSource, testutil.ReadFile(t, filepath.Join(dir, "App.jsx")), "check never writes")

	_, err = runApp(t, "--no-cache", "transform", "--write", ".")
	require.NoError(t, err)

	out, err = runApp(t, "--no-cache", "check", ".")
	require.NoError(t, err)
	assert.Contains(t, out, "All 2 files are up to date")
}

func TestCheckJSON(t *testing.T) {
	project(t, map[string]string{"App.jsx": appSource})

	out, err := runApp(t, "--no-cache", "-f", "json", "check", ".")
	require.ErrorIs(t, err, errCheckFailed)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "check", rep.Metadata.Command)
	assert.Equal(t, 1, rep.Summary.Changed)
	require.Len(t, rep.Files, 1)
	assert.NotEmpty(t, rep.Files[0].Diff)
}

func TestCheckUsesCache(t *testing.T) {
	dir := project(t, map[string]string{"App.jsx": appSource})

	_, err := runApp(t, "check", ".")
	require.ErrorIs(t, err, errCheckFailed)
	entries, err := os.ReadDir(filepath.Join(dir, ".reactify", "cache"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	out, err := runApp(t, "-f", "json", "check", ".")
	require.ErrorIs(t, err, errCheckFailed)
	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 1, rep.Summary.Cached)
}

func TestInspectJSON(t *testing.T) {
	project(t, map[string]string{
		"App.jsx": appSource + "function helper() { let x = 1; }\nconst useToggle = () => { let on = false; };\n",
	})

	out, err := runApp(t, "-f", "json", "inspect", ".")
	require.NoError(t, err)

	var files []inspectedFile
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 1)
	assert.Equal(t, "App.jsx", files[0].Path)

	require.Len(t, files[0].Functions, 2)
	assert.Equal(t, "App", files[0].Functions[0].Name)
	assert.Equal(t, reactive.RoleComponent, files[0].Functions[0].Role)
	assert.Equal(t, []string{"n"}, files[0].Functions[0].State)
	assert.Equal(t, "useToggle", files[0].Functions[1].Name)
	assert.Equal(t, reactive.RoleHook, files[0].Functions[1].Role)

	out, err = runApp(t, "-f", "json", "inspect", "--all", ".")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	assert.Len(t, files[0].Functions, 3)
}

func TestInspectText(t *testing.T) {
	project(t, map[string]string{"App.jsx": appSource})

	out, err := runApp(t, "inspect", ".")
	require.NoError(t, err)
	assert.Contains(t, out, "App.jsx")
	assert.Contains(t, out, "component")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "(anonymous)", displayName(reactive.Function{}))
	assert.Equal(t, "App", displayName(reactive.Function{Name: "App"}))
	assert.Equal(t, "App (expression body)", displayName(reactive.Function{Name: "App", ExpressionBody: true}))
}

func TestInit(t *testing.T) {
	for _, name := range []string{"reactify.toml", "reactify.yaml", "reactify.json"} {
		t.Run(name, func(t *testing.T) {
			dir := project(t, nil)

			out, err := runApp(t, "init", "-o", name)
			require.NoError(t, err)
			assert.Contains(t, out, "Created "+name)

			// The generated file loads and validates.
			cfg, err := config.Load(filepath.Join(dir, name))
			require.NoError(t, err)
			assert.Equal(t, config.DefaultConfig().Runtime, cfg.Runtime)
			assert.Equal(t, config.DefaultConfig().Cache, cfg.Cache)

			_, err = runApp(t, "init", "-o", name)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "already exists")

			_, err = runApp(t, "init", "-o", name, "--force")
			require.NoError(t, err)
		})
	}
}

func TestInitNestedDirectory(t *testing.T) {
	dir := project(t, nil)

	_, err := runApp(t, "init", "-o", ".reactify/reactify.yaml")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, ".reactify", "reactify.yaml"))

	out, err := runApp(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
}

func TestMarshalConfigHeader(t *testing.T) {
	cfg := config.DefaultConfig()

	content, err := marshalConfig(cfg, "reactify.toml", true)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# reactify configuration")

	content, err = marshalConfig(cfg, "reactify.json", true)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "#")
	assert.True(t, json.Valid(content))
}

func TestConfigValidate(t *testing.T) {
	project(t, nil)

	out, err := runApp(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "No config file found")

	require.NoError(t, os.WriteFile("reactify.toml", []byte("[runtime]\nmodule = \"preact/hooks\"\n"), 0o644))
	out, err = runApp(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid: reactify.toml")

	require.NoError(t, os.WriteFile("bad.toml", []byte("workers = \"many\"\n"), 0o644))
	out, err = runApp(t, "-c", "bad.toml", "config", "validate")
	require.Error(t, err)
	assert.Contains(t, out, "Configuration validation failed")
}

func TestConfigShow(t *testing.T) {
	project(t, map[string]string{"reactify.toml": "[runtime]\nmodule = \"preact/hooks\"\n"})

	out, err := runApp(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Configuration from: reactify.toml")
	assert.Contains(t, out, "preact/hooks")

	out, err = runApp(t, "config", "show", "--as", "json")
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "preact/hooks", cfg.Runtime.Module)
	assert.Equal(t, "useState", cfg.Runtime.Export)
}

func TestConfigRuntimeOverride(t *testing.T) {
	project(t, map[string]string{
		"reactify.toml": "[runtime]\nmodule = \"preact/hooks\"\n\n[rewrite]\nsetter_case = \"capitalize\"\n",
		"App.jsx":       appSource,
	})

	out, err := runApp(t, "--no-cache", "transform", "App.jsx")
	require.NoError(t, err)
	assert.Contains(t, out, "import { useState } from \"preact/hooks\";")
	assert.Contains(t, out, "const [n, setN] = useState(0);")
}

func TestCacheStatsAndClear(t *testing.T) {
	dir := project(t, map[string]string{"App.jsx": appSource})

	_, err := runApp(t, "transform", "App.jsx")
	require.NoError(t, err)

	out, err := runApp(t, "-f", "json", "cache", "stats")
	require.NoError(t, err)
	var stats struct {
		Entries int `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 1, stats.Entries)

	out, err = runApp(t, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries")

	out, err = runApp(t, "cache", "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 entries")

	out, err = runApp(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared")

	entries, err := os.ReadDir(filepath.Join(dir, ".reactify", "cache"))
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestNoCacheSkipsCacheDirectory(t *testing.T) {
	dir := project(t, map[string]string{"App.jsx": appSource})

	_, err := runApp(t, "--no-cache", "transform", "App.jsx")
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dir, ".reactify", "cache"))
}

func TestMCPManifest(t *testing.T) {
	out, err := runApp(t, "mcp", "manifest")
	require.NoError(t, err)

	var manifest map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &manifest))
	assert.Equal(t, "io.github.panbanda/reactify", manifest["name"])
}

func TestCommonRoot(t *testing.T) {
	dir := project(t, map[string]string{
		"src/a/App.jsx": appSource,
		"src/b/util.js": utilSrc,
		"lib/x.js":      utilSrc,
	})

	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"single directory", []string{"src"}, filepath.Join(dir, "src")},
		{"single file uses its directory", []string{"src/a/App.jsx"}, filepath.Join(dir, "src", "a")},
		{"siblings", []string{"src/a", "src/b/util.js"}, filepath.Join(dir, "src")},
		{"disjoint", []string{"src/a", "lib"}, dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := commonRoot(tt.paths)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.n))
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
