package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	toon "github.com/toon-format/toon-go"
)

// Renderable is a result that can render itself in every format.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	// RenderData returns the value serialized for JSON and TOON.
	RenderData() any
}

// Formatter writes results and status messages in one format.
type Formatter struct {
	format  Format
	w       io.Writer
	file    *os.File
	colored bool
}

// NewFormatterTo creates a formatter writing to w.
func NewFormatterTo(format Format, w io.Writer, colored bool) *Formatter {
	return &Formatter{format: format, w: w, colored: colored}
}

// NewFormatter creates a formatter writing to the file at path, creating
// parent directories as needed. File output is never colored.
func NewFormatter(format Format, path string) (*Formatter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Formatter{format: format, w: f, file: f}, nil
}

// Close closes the output file, if any.
func (f *Formatter) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

func (f *Formatter) Writer() io.Writer { return f.w }
func (f *Formatter) Format() Format    { return f.format }
func (f *Formatter) Colored() bool     { return f.colored }

// Output writes data in the configured format. Plain values have no text
// rendering and fall back to JSON.
func (f *Formatter) Output(data any) error {
	r, ok := data.(Renderable)
	switch f.format {
	case FormatJSON, FormatTOON:
		if ok {
			data = r.RenderData()
		}
		return f.encode(data)
	case FormatMarkdown:
		if ok {
			return r.RenderMarkdown(f.w)
		}
		fmt.Fprintln(f.w, "```json")
		if err := f.encodeJSON(data); err != nil {
			return err
		}
		_, err := fmt.Fprintln(f.w, "```")
		return err
	default:
		if ok {
			return r.RenderText(f.w, f.colored)
		}
		return f.encodeJSON(data)
	}
}

func (f *Formatter) encode(data any) error {
	if f.format == FormatTOON {
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.w, string(out))
		return err
	}
	return f.encodeJSON(data)
}

func (f *Formatter) encodeJSON(data any) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Diff writes a unified diff, colored when the formatter is.
func (f *Formatter) Diff(diff string) {
	WriteDiff(f.w, diff, f.colored)
}

// Status messages. Without color, warnings and errors carry a prefix so they
// stay recognisable in files and pipes.

func (f *Formatter) message(attr color.Attribute, prefix, format string, args ...any) {
	if f.colored {
		color.New(attr).Fprintf(f.w, format+"\n", args...)
		return
	}
	fmt.Fprintf(f.w, prefix+format+"\n", args...)
}

func (f *Formatter) Success(format string, args ...any) {
	f.message(color.FgGreen, "", format, args...)
}

func (f *Formatter) Warning(format string, args ...any) {
	f.message(color.FgYellow, "WARNING: ", format, args...)
}

func (f *Formatter) Error(format string, args ...any) {
	f.message(color.FgRed, "ERROR: ", format, args...)
}

func (f *Formatter) Info(format string, args ...any) {
	f.message(color.FgCyan, "", format, args...)
}
