package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/oops"
	"k8s.io/utils/clock"

	gh "github.com/vswatch/vswatch/pkg/github"
	"github.com/vswatch/vswatch/pkg/types"
)

const (
	reportFile = "report.md"

	// Rendered in place of a runtime version that could not be resolved.
	absentToken = "n/a"
)

var banners = map[types.Severity]string{
	types.SeverityNone:    "No bundled runtime changes detected.",
	types.SeverityNotice:  "The current release changed its bundled runtime versions.",
	types.SeverityWarning: "An upcoming release bundles new runtime versions.",
}

// Banner returns the fixed report banner for a severity.
func Banner(severity types.Severity) string {
	if banner, ok := banners[severity]; ok {
		return banner
	}
	return banners[types.SeverityNone]
}

// Writer renders the lineage report and persists it to the cache directory.
type Writer struct {
	filePath string
	clock    clock.PassiveClock
}

type Option func(*Writer)

func WithClock(c clock.PassiveClock) Option {
	return func(w *Writer) {
		w.clock = c
	}
}

func NewWriter(cacheDir string, opts ...Option) Writer {
	w := Writer{
		filePath: Path(cacheDir),
		clock:    clock.RealClock{},
	}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

func Path(cacheDir string) string {
	return filepath.Join(cacheDir, reportFile)
}

// Render produces the full markdown report: title, severity banner,
// timestamp, the lineage table and, when present, the open tracking issues.
func (w Writer) Render(lineage types.Lineage, severity types.Severity, issues []gh.TrackingIssue) string {
	var sb strings.Builder

	sb.WriteString("# VS Code bundled runtime versions\n\n")
	sb.WriteString(Banner(severity) + "\n\n")
	fmt.Fprintf(&sb, "Updated at %s.\n\n", w.clock.Now().UTC().Format(time.RFC3339))

	tbl := table.NewWriter()
	tbl.AppendHeader(table.Row{"Release", "Electron", "Node.js", "Chromium"})
	for _, rec := range lineage {
		tbl.AppendRow(table.Row{
			rec.Release.String(),
			orAbsent(rec.Electron),
			orAbsent(rec.Node),
			orAbsent(rec.Chromium),
		})
	}
	sb.WriteString(tbl.RenderMarkdown())
	sb.WriteString("\n")

	if len(issues) > 0 {
		sb.WriteString("\n## Open tracking issues\n\n")
		itbl := table.NewWriter()
		itbl.AppendHeader(table.Row{"Title", "Author", "Created", "Updated"})
		for _, issue := range issues {
			itbl.AppendRow(table.Row{
				fmt.Sprintf("[%s](%s)", issue.Title, issue.URL),
				issue.Author,
				issue.CreatedAt.Format("2006-01-02"),
				issue.UpdatedAt.Format("2006-01-02"),
			})
		}
		sb.WriteString(itbl.RenderMarkdown())
		sb.WriteString("\n")
	}

	return sb.String()
}

// Write replaces the report file with content.
func (w Writer) Write(content string) error {
	eb := oops.With("file_path", w.filePath)

	if err := os.MkdirAll(filepath.Dir(w.filePath), 0o744); err != nil {
		return eb.Wrapf(err, "mkdir error")
	}
	if err := os.WriteFile(w.filePath, []byte(content), 0o644); err != nil {
		return eb.Wrapf(err, "file write error")
	}
	return nil
}

// StatusMessage composes the short notification text. Each stage contributes
// its own fragment; the pieces are joined here instead of being accumulated
// in shared state.
func StatusMessage(lineage types.Lineage, severity types.Severity, issueCount int) string {
	fragments := []string{Banner(severity)}

	if len(lineage) > 0 {
		head := lineage[0]
		fragments = append(fragments, fmt.Sprintf("%s: Electron %s, Node.js %s, Chromium %s.",
			head.Release, orAbsent(head.Electron), orAbsent(head.Node), orAbsent(head.Chromium)))
	}
	if issueCount > 0 {
		fragments = append(fragments, fmt.Sprintf("%d open tracking issue(s).", issueCount))
	}
	return strings.Join(fragments, " ")
}

func orAbsent(v string) string {
	if v == "" {
		return absentToken
	}
	return v
}
