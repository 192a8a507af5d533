// Package report summarises a multi-file rewrite for people and tools.
package report

import "time"

// Status is the outcome of one file.
type Status string

const (
	StatusChanged   Status = "changed"
	StatusUnchanged Status = "unchanged"
	StatusFailed    Status = "failed"
)

// Metadata contains report generation metadata.
type Metadata struct {
	Command     string    `json:"command" toon:"command"`
	Repository  string    `json:"repository,omitempty" toon:"repository,omitempty"`
	Ref         string    `json:"ref,omitempty" toon:"ref,omitempty"`
	GeneratedAt time.Time `json:"generated_at" toon:"generated_at"`
	Version     string    `json:"version" toon:"version"`
	Paths       []string  `json:"paths" toon:"paths"`
	Written     bool      `json:"written" toon:"written"`
}

// File is the outcome of rewriting one file.
type File struct {
	Path         string  `json:"path" toon:"path"`
	Language     string  `json:"language,omitempty" toon:"language,omitempty"`
	Status       Status  `json:"status" toon:"status"`
	Cached       bool    `json:"cached" toon:"cached"`
	Functions    int     `json:"functions" toon:"functions"`
	Qualifying   int     `json:"qualifying" toon:"qualifying"`
	Declarations int     `json:"declarations" toon:"declarations"`
	Assignments  int     `json:"assignments" toon:"assignments"`
	DurationMS   float64 `json:"duration_ms" toon:"duration_ms"`
	Error        string  `json:"error,omitempty" toon:"error,omitempty"`
	Diff         string  `json:"diff,omitempty" toon:"diff,omitempty"`
}

// Summary aggregates every file in a report.
type Summary struct {
	Files        int     `json:"files" toon:"files"`
	Changed      int     `json:"changed" toon:"changed"`
	Unchanged    int     `json:"unchanged" toon:"unchanged"`
	Failed       int     `json:"failed" toon:"failed"`
	Cached       int     `json:"cached" toon:"cached"`
	Functions    int     `json:"functions" toon:"functions"`
	Qualifying   int     `json:"qualifying" toon:"qualifying"`
	Declarations int     `json:"declarations" toon:"declarations"`
	Assignments  int     `json:"assignments" toon:"assignments"`
	TotalMS      float64 `json:"total_ms" toon:"total_ms"`
	P50MS        float64 `json:"p50_ms" toon:"p50_ms"`
	P95MS        float64 `json:"p95_ms" toon:"p95_ms"`
}

// Report is the result of one transform or check run.
type Report struct {
	Metadata Metadata `json:"metadata" toon:"metadata"`
	Summary  Summary  `json:"summary" toon:"summary"`
	Files    []File   `json:"files" toon:"files"`
}
