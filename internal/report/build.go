package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/panbanda/reactify/internal/fileproc"
	"github.com/panbanda/reactify/pkg/stats"
	"github.com/panbanda/reactify/pkg/transform"
)

// Options controls how results become a report.
type Options struct {
	// Root makes file paths relative when set.
	Root string
	// Diffs attaches a unified diff to every changed file.
	Diffs bool
}

// New builds a report from per-file results and the errors of the files
// that failed. Files are sorted by path.
func New(meta Metadata, results []*transform.Result, errs *fileproc.ProcessingErrors, opts Options) (*Report, error) {
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now().UTC()
	}
	r := &Report{Metadata: meta}

	for _, res := range results {
		f := File{
			Path:         relPath(opts.Root, res.Path),
			Language:     string(res.Language),
			Status:       StatusUnchanged,
			Cached:       res.Cached,
			Functions:    res.Stats.Functions,
			Qualifying:   res.Stats.Qualifying,
			Declarations: res.Stats.Declarations,
			Assignments:  res.Stats.Assignments,
			DurationMS:   float64(res.Duration) / float64(time.Millisecond),
		}
		if res.Changed {
			f.Status = StatusChanged
			if opts.Diffs {
				diff, err := res.DiffAs(f.Path)
				if err != nil {
					return nil, err
				}
				f.Diff = diff
			}
		}
		r.Files = append(r.Files, f)
	}

	if errs != nil {
		for _, pe := range errs.Errors {
			r.Files = append(r.Files, File{
				Path:   relPath(opts.Root, pe.Path),
				Status: StatusFailed,
				Error:  errorText(pe.Err),
			})
		}
	}

	sort.SliceStable(r.Files, func(i, j int) bool { return r.Files[i].Path < r.Files[j].Path })
	r.Summary = summarize(r.Files)
	return r, nil
}

// errorText drops the path prefix that syntax errors carry, since the
// report shows the path in its own column.
func errorText(err error) string {
	var se *transform.SyntaxError
	if errors.As(err, &se) {
		return fmt.Sprintf("syntax error at line %d, column %d", se.Line, se.Column)
	}
	return err.Error()
}

func summarize(files []File) Summary {
	var s Summary
	durations := make([]float64, 0, len(files))
	for _, f := range files {
		s.Files++
		switch f.Status {
		case StatusChanged:
			s.Changed++
		case StatusUnchanged:
			s.Unchanged++
		case StatusFailed:
			s.Failed++
			continue
		}
		if f.Cached {
			s.Cached++
		}
		s.Functions += f.Functions
		s.Qualifying += f.Qualifying
		s.Declarations += f.Declarations
		s.Assignments += f.Assignments
		durations = append(durations, f.DurationMS)
	}
	d := stats.Describe(durations)
	s.TotalMS, s.P50MS, s.P95MS = d.Total, d.P50, d.P95
	return s
}

// HasChanges reports whether any file was or would be rewritten.
func (r *Report) HasChanges() bool {
	return r.Summary.Changed > 0
}

// HasFailures reports whether any file failed.
func (r *Report) HasFailures() bool {
	return r.Summary.Failed > 0
}

func relPath(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
