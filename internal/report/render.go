package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/panbanda/reactify/internal/output"
)

//go:embed template.html
var templateFS embed.FS

var printer = message.NewPrinter(language.English)

func num(n int) string {
	return printer.Sprintf("%d", n)
}

func ms(v float64) string {
	return printer.Sprintf("%.1fms", v)
}

func (r *Report) title() string {
	cmd := r.Metadata.Command
	if cmd == "" {
		cmd = "transform"
	}
	return "reactify " + cases.Title(language.English).String(cmd)
}

// filesTable lists every file with its outcome. Colored output tints the
// status column.
func (r *Report) filesTable(colored bool) *output.Table {
	rows := make([][]string, 0, len(r.Files))
	for _, f := range r.Files {
		status := string(f.Status)
		if f.Cached {
			status += " (cached)"
		}
		if colored {
			status = output.StatusColor(string(f.Status), status)
		}
		detail := f.Error
		if detail == "" {
			detail = fmt.Sprintf("%d/%d functions", f.Qualifying, f.Functions)
		}
		rows = append(rows, []string{
			f.Path,
			status,
			num(f.Declarations),
			num(f.Assignments),
			detail,
		})
	}
	return output.NewTable("Files",
		[]string{"File", "Status", "Declarations", "Assignments", "Detail"},
		rows,
		[]string{"Total", num(r.Summary.Files), num(r.Summary.Declarations), num(r.Summary.Assignments), ""},
		nil,
	)
}

func (r *Report) summarySection() *output.Section {
	s := r.Summary
	lines := []string{
		fmt.Sprintf("Files:        %s (%s changed, %s unchanged, %s failed, %s cached)",
			num(s.Files), num(s.Changed), num(s.Unchanged), num(s.Failed), num(s.Cached)),
		fmt.Sprintf("Functions:    %s visited, %s components or hooks", num(s.Functions), num(s.Qualifying)),
		fmt.Sprintf("Rewrites:     %s declarations, %s assignments", num(s.Declarations), num(s.Assignments)),
		fmt.Sprintf("Time:         %s total, p50 %s, p95 %s", ms(s.TotalMS), ms(s.P50MS), ms(s.P95MS)),
	}
	return &output.Section{Title: "Summary", Content: strings.Join(lines, "\n")}
}

func (r *Report) diffSections() []output.Renderable {
	var out []output.Renderable
	for _, f := range r.Files {
		if f.Diff == "" {
			continue
		}
		out = append(out, &output.Section{Title: f.Path, Code: f.Diff, Lang: "diff"})
	}
	return out
}

func (r *Report) document(colored bool) *output.Document {
	parts := []output.Renderable{r.filesTable(colored), r.summarySection()}
	return &output.Document{Title: r.title(), Parts: append(parts, r.diffSections()...)}
}

// RenderText implements output.Renderable.
func (r *Report) RenderText(w io.Writer, colored bool) error {
	return r.document(colored).RenderText(w, colored)
}

// RenderMarkdown implements output.Renderable.
func (r *Report) RenderMarkdown(w io.Writer) error {
	return r.document(false).RenderMarkdown(w)
}

// RenderData implements output.Renderable.
func (r *Report) RenderData() any {
	return r
}

// Renderer handles HTML report generation.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a new renderer with the embedded template.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"num":   num,
		"ms":    ms,
		"title": cases.Title(language.English).String,
		"statusClass": func(s Status) string {
			switch s {
			case StatusChanged:
				return "warning"
			case StatusFailed:
				return "danger"
			default:
				return "good"
			}
		},
		"diffLines": func(diff string) []string {
			return strings.Split(strings.TrimRight(diff, "\n"), "\n")
		},
		"lineClass": func(line string) string {
			switch {
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
				return "meta"
			case strings.HasPrefix(line, "@@"):
				return "hunk"
			case strings.HasPrefix(line, "+"):
				return "add"
			case strings.HasPrefix(line, "-"):
				return "del"
			default:
				return ""
			}
		},
		"json": func(v any) template.JS {
			b, _ := json.Marshal(v)
			return template.JS(b)
		},
	}

	tmplContent, err := templateFS.ReadFile("template.html")
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(string(tmplContent))
	if err != nil {
		return nil, err
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the report as a standalone HTML page.
func (r *Renderer) Render(rep *Report, w io.Writer) error {
	return r.tmpl.Execute(w, struct {
		Title string
		*Report
	}{rep.title(), rep})
}

// RenderFile reads a JSON report written by a previous run and renders it
// to outputPath.
func (r *Renderer) RenderFile(reportPath, outputPath string) error {
	rep, err := Load(reportPath)
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := r.Render(rep, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a JSON report.
func Load(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rep Report
	if err := json.NewDecoder(f).Decode(&rep); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return &rep, nil
}
