package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Section is a titled block of prose, an optional code block and nested
// sections.
type Section struct {
	Title    string    `json:"title,omitempty"`
	Content  string    `json:"content,omitempty"`
	Code     string    `json:"code,omitempty"`
	Lang     string    `json:"lang,omitempty"`
	Sections []Section `json:"sections,omitempty"`
	Data     any       `json:"data,omitempty"`
}

func (s *Section) RenderData() any {
	if s.Data != nil {
		return s.Data
	}
	return s
}

func (s *Section) RenderText(w io.Writer, colored bool) error {
	s.renderText(w, colored, 0)
	return nil
}

func (s *Section) renderText(w io.Writer, colored bool, depth int) {
	if s.Title != "" {
		underline := byte('=')
		if depth > 0 {
			underline = '-'
		}
		heading(w, s.Title, underline, colored, color.Bold)
	}
	if s.Content != "" {
		fmt.Fprintln(w, s.Content)
	}
	if s.Code != "" {
		code := strings.TrimRight(s.Code, "\n") + "\n"
		if s.Lang == "diff" {
			WriteDiff(w, code, colored)
		} else {
			_, _ = io.WriteString(w, code)
		}
	}
	for i := range s.Sections {
		fmt.Fprintln(w)
		s.Sections[i].renderText(w, colored, depth+1)
	}
}

func (s *Section) RenderMarkdown(w io.Writer) error {
	s.renderMarkdown(w, 2)
	return nil
}

func (s *Section) renderMarkdown(w io.Writer, level int) {
	if s.Title != "" {
		fmt.Fprintf(w, "%s %s\n\n", strings.Repeat("#", level), s.Title)
	}
	if s.Content != "" {
		fmt.Fprintf(w, "%s\n\n", s.Content)
	}
	if s.Code != "" {
		fmt.Fprintf(w, "```%s\n%s\n```\n\n", s.Lang, strings.TrimRight(s.Code, "\n"))
	}
	for i := range s.Sections {
		s.Sections[i].renderMarkdown(w, level+1)
	}
}

// Document is a titled sequence of tables and sections.
type Document struct {
	Title string
	Parts []Renderable
	Data  any
}

func (d *Document) RenderData() any {
	if d.Data != nil {
		return d.Data
	}
	parts := make([]any, len(d.Parts))
	for i, p := range d.Parts {
		parts[i] = p.RenderData()
	}
	return map[string]any{"title": d.Title, "sections": parts}
}

func (d *Document) RenderText(w io.Writer, colored bool) error {
	if d.Title != "" {
		heading(w, d.Title, '=', colored, color.Bold, color.FgCyan)
		fmt.Fprintln(w)
	}
	for i, p := range d.Parts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := p.RenderText(w, colored); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) RenderMarkdown(w io.Writer) error {
	if d.Title != "" {
		fmt.Fprintf(w, "# %s\n\n", d.Title)
	}
	for _, p := range d.Parts {
		if err := p.RenderMarkdown(w); err != nil {
			return err
		}
	}
	return nil
}
