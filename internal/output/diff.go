package output

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// WriteDiff writes a unified diff. Colored output tints file headers bold,
// additions green and removals red.
func WriteDiff(w io.Writer, diff string, colored bool) {
	if !colored {
		_, _ = io.WriteString(w, diff)
		return
	}
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			color.New(color.Bold).Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			color.New(color.FgCyan).Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			color.New(color.FgGreen).Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			color.New(color.FgRed).Fprint(w, line)
		default:
			_, _ = io.WriteString(w, line)
		}
	}
}

// StatusColor colors text by the outcome of a file.
func StatusColor(status, text string) string {
	switch strings.ToLower(status) {
	case "failed":
		return color.RedString(text)
	case "changed":
		return color.YellowString(text)
	case "unchanged":
		return color.GreenString(text)
	default:
		return text
	}
}
