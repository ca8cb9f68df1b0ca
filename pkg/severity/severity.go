package severity

import (
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/vswatch/vswatch/pkg/types"
)

// Classify computes the alert severity from the head of the lineage.
// Warning: the upcoming release (head) already bundles different runtimes
// than the current one. Notice: the current release differs from its
// predecessor. Lineages shorter than the compared window classify as None.
func Classify(lineage types.Lineage) types.Severity {
	if len(lineage) >= 2 && changed(lineage[0], lineage[1]) {
		return types.SeverityWarning
	}
	if len(lineage) >= 3 && changed(lineage[1], lineage[2]) {
		return types.SeverityNotice
	}
	return types.SeverityNone
}

func changed(a, b types.VersionRecord) bool {
	return componentChanged(a.Electron, b.Electron) ||
		componentChanged(a.Node, b.Node) ||
		componentChanged(a.Chromium, b.Chromium)
}

// componentChanged reports whether two version strings differ in their major
// component, or in their minor component when both declare one. An absent
// value never counts as a change. Components compare as integers: 9.x to
// 10.x is a major change even though "9" sorts after "10" as a string.
func componentChanged(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	av, errA := version.NewVersion(a)
	bv, errB := version.NewVersion(b)
	if errA != nil || errB != nil {
		return a != b
	}

	as, bs := av.Segments(), bv.Segments()
	if as[0] != bs[0] {
		return true
	}
	return hasMinor(a) && hasMinor(b) && as[1] != bs[1]
}

func hasMinor(v string) bool {
	return strings.Contains(v, ".")
}
