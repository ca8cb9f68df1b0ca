package report_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	gh "github.com/vswatch/vswatch/pkg/github"
	"github.com/vswatch/vswatch/pkg/report"
	"github.com/vswatch/vswatch/pkg/types"
)

var fixedTime = time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC)

func newWriter(t *testing.T) (report.Writer, string) {
	t.Helper()
	dir := t.TempDir()
	w := report.NewWriter(dir, report.WithClock(clocktesting.NewFakePassiveClock(fixedTime)))
	return w, dir
}

func TestWriter_Render(t *testing.T) {
	w, _ := newWriter(t)

	lineage := types.Lineage{
		{Release: types.ReleaseLatest, Electron: "11.3.0", Chromium: "89.0.4328.0"},
		{Release: "1.52.1", Electron: "11.2.1", Node: "12.18.3", Chromium: "87.0.4280.141"},
	}

	got := w.Render(lineage, types.SeverityWarning, nil)

	assert.Contains(t, got, "# VS Code bundled runtime versions")
	assert.Contains(t, got, "An upcoming release bundles new runtime versions.")
	assert.Contains(t, got, "Updated at 2021-02-03T04:05:06Z.")
	assert.Contains(t, got, "Latest")
	assert.Contains(t, got, "1.52.1")
	// The unresolved Node version of the head renders as the absent token.
	assert.Contains(t, got, "n/a")
	assert.NotContains(t, got, "Open tracking issues")
}

func TestWriter_Render_Issues(t *testing.T) {
	w, _ := newWriter(t)

	issues := []gh.TrackingIssue{
		{
			Title:     "Update to Electron 12",
			URL:       "https://github.com/microsoft/vscode/issues/1",
			Author:    "octocat",
			CreatedAt: time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2021, 2, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	got := w.Render(types.Lineage{{Release: types.ReleaseLatest}}, types.SeverityNone, issues)

	assert.Contains(t, got, "## Open tracking issues")
	assert.Contains(t, got, "[Update to Electron 12](https://github.com/microsoft/vscode/issues/1)")
	assert.Contains(t, got, "octocat")
	assert.Contains(t, got, "2021-01-02")
}

func TestWriter_Write(t *testing.T) {
	w, dir := newWriter(t)

	require.NoError(t, w.Write("# report\n"))

	data, err := os.ReadFile(report.Path(dir))
	require.NoError(t, err)
	assert.Equal(t, "# report\n", string(data))
}

func TestBanner(t *testing.T) {
	assert.Equal(t, "No bundled runtime changes detected.", report.Banner(types.SeverityNone))
	assert.NotEqual(t, report.Banner(types.SeverityNotice), report.Banner(types.SeverityWarning))
	// Out-of-range severities fall back to the quiet banner.
	assert.Equal(t, report.Banner(types.SeverityNone), report.Banner(types.Severity(42)))
}

func TestStatusMessage(t *testing.T) {
	lineage := types.Lineage{
		{Release: types.ReleaseLatest, Electron: "11.3.0"},
	}

	msg := report.StatusMessage(lineage, types.SeverityWarning, 2)
	assert.Contains(t, msg, "An upcoming release bundles new runtime versions.")
	assert.Contains(t, msg, "Latest: Electron 11.3.0, Node.js n/a, Chromium n/a.")
	assert.Contains(t, msg, "2 open tracking issue(s).")

	msg = report.StatusMessage(nil, types.SeverityNone, 0)
	assert.Equal(t, "No bundled runtime changes detected.", msg)
}
