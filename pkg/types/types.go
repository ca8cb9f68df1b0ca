package types

import (
	"regexp"

	"github.com/fatih/color"
)

// Release identifies a published VS Code version ("1.52.1", optionally
// "-insiders" suffixed) or the unreleased head of the default branch.
type Release string

// ReleaseLatest is the synthetic identifier for the unreleased head.
const ReleaseLatest Release = "Latest"

var releasePattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-insiders)?$`)

// Valid reports whether r is a well-formed release identifier: a
// MAJOR.MINOR.PATCH version, or the Latest sentinel.
func (r Release) Valid() bool {
	return r == ReleaseLatest || releasePattern.MatchString(string(r))
}

func (r Release) IsLatest() bool {
	return r == ReleaseLatest
}

func (r Release) String() string {
	return string(r)
}

// VersionRecord holds the runtime versions bundled by one release. Any of the
// runtime fields may be empty when extraction from upstream failed; that is
// expected data, not an error.
type VersionRecord struct {
	Release  Release `json:"release"`
	Electron string  `json:"electron,omitempty"`
	Node     string  `json:"node,omitempty"`
	Chromium string  `json:"chromium,omitempty"`
}

// Lineage is the resolved release history, newest first. Release values are
// unique within a lineage.
type Lineage []VersionRecord

// Releases returns the release identifiers in lineage order.
func (l Lineage) Releases() []Release {
	releases := make([]Release, 0, len(l))
	for _, rec := range l {
		releases = append(releases, rec.Release)
	}
	return releases
}

// Trim returns the lineage with its newest entry removed. The trimmed form is
// what gets persisted: the dropped head is re-resolved as the head of the next
// run, so the snapshot never regrows.
func (l Lineage) Trim() Lineage {
	if len(l) == 0 {
		return l
	}
	return l[1:]
}

type Severity int

const (
	SeverityNone Severity = iota
	SeverityNotice
	SeverityWarning
)

var (
	SeverityNames = []string{
		"NONE",
		"NOTICE",
		"WARNING",
	}
	SeverityColor = []func(a ...interface{}) string{
		color.New(color.FgGreen).SprintFunc(),
		color.New(color.FgYellow).SprintFunc(),
		color.New(color.FgRed).SprintFunc(),
	}
)

func (s Severity) String() string {
	if s < 0 || int(s) >= len(SeverityNames) {
		return "NONE"
	}
	return SeverityNames[s]
}
