package resolve

import (
	"encoding/json"
	"regexp"
)

// Extraction rules. Each rule scrapes one semi-structured upstream file and
// reports whether it matched; a miss is expected data, never an error.

var (
	buildConfigTarget = regexp.MustCompile(`target\s+"([^"]+)"`)
	chromeVersionLine = regexp.MustCompile(`CHROME_VERSION_STRING\s+"([^"]+)"`)
	nodeMajorVersion  = regexp.MustCompile(`#define\s+NODE_MAJOR_VERSION\s+(\d+)`)
	nodeMinorVersion  = regexp.MustCompile(`#define\s+NODE_MINOR_VERSION\s+(\d+)`)
	nodePatchVersion  = regexp.MustCompile(`#define\s+NODE_PATCH_VERSION\s+(\d+)`)
)

// electronFromManifest reads the declared electronVersion field of the editor
// manifest (package.json).
func electronFromManifest(data []byte) (string, bool) {
	var manifest struct {
		ElectronVersion string `json:"electronVersion"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", false
	}
	return manifest.ElectronVersion, manifest.ElectronVersion != ""
}

// electronFromBuildConfig matches the `target "X"` line of the yarn build
// config.
func electronFromBuildConfig(data []byte) (string, bool) {
	m := buildConfigTarget.FindSubmatch(data)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}

// chromiumFromHeader matches `CHROME_VERSION_STRING "X"` in electron's
// chrome_version.h.
func chromiumFromHeader(data []byte) (string, bool) {
	m := chromeVersionLine.FindSubmatch(data)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}

// nodeFromHeader joins the three NODE_*_VERSION defines of node_version.h.
// All three must match.
func nodeFromHeader(data []byte) (string, bool) {
	major := nodeMajorVersion.FindSubmatch(data)
	minor := nodeMinorVersion.FindSubmatch(data)
	patch := nodePatchVersion.FindSubmatch(data)
	if major == nil || minor == nil || patch == nil {
		return "", false
	}
	return string(major[1]) + "." + string(minor[1]) + "." + string(patch[1]), true
}
