package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	title := "Run"
	if s.Operation != "" {
		title = strings.ToUpper(s.Operation[:1]) + s.Operation[1:]
	}
	fmt.Fprintf(&b, "# %s Summary\n\n", title)
	fmt.Fprintf(&b, "- Run ID: `%s`\n", s.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if s.WebRoot != "" {
		fmt.Fprintf(&b, "- Web root: `%s`\n", s.WebRoot)
	}
	if s.ServerName != "" {
		fmt.Fprintf(&b, "- Server name: %s\n", s.ServerName)
	}
	if s.Mode != "" {
		fmt.Fprintf(&b, "- Mode: %s (%d workers)\n", s.Mode, s.Workers)
	}

	b.WriteString("\n## Totals\n\n")
	b.WriteString("| Paths | Succeeded | Failed | Written | Duration |\n")
	b.WriteString("|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %s | %d ms |\n",
		len(s.Rows), s.Succeeded(), s.Failed(), formatBytes(s.TotalBytes()), s.Duration.Milliseconds())

	if len(s.Rows) == 0 {
		return b.String()
	}

	b.WriteString("\n## Paths\n\n")
	b.WriteString("| Path | File | Bytes | Time | Result |\n")
	b.WriteString("|---|---|---:|---:|---|\n")
	for _, r := range s.Rows {
		result := "ok"
		if r.Error != "" {
			result = "failed: " + escapeCell(r.Error)
		}
		fmt.Fprintf(&b, "| `%s` | `%s` | %d | %d ms | %s |\n",
			escapeCell(r.Path), escapeCell(r.File), r.Bytes, r.DurationMs, result)
	}
	return b.String()
}

// formatBytes formats a byte count with a binary unit.
func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
