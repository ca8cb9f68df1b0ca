package config

import (
	"os"

	"github.com/samber/oops"
	"go.yaml.in/yaml/v4"
)

// Config names the upstream repositories and files the tracker inspects.
// The zero config tracks VS Code and its Electron toolchain; a YAML file can
// repoint any of it.
type Config struct {
	Editor         Editor `yaml:"editor"`
	Shell          Shell  `yaml:"shell"`
	Node           Node   `yaml:"node"`
	IssueQuery     string `yaml:"issueQuery"`
	NotifyEndpoint string `yaml:"notifyEndpoint"`
}

// Editor is the tracked editor repository.
type Editor struct {
	Owner           string `yaml:"owner"`
	Repo            string `yaml:"repo"`
	MainRef         string `yaml:"mainRef"` // ref fetched for the Latest sentinel
	ManifestPath    string `yaml:"manifestPath"`
	BuildConfigPath string `yaml:"buildConfigPath"`
}

// Shell is the desktop shell framework repository bundled by the editor.
type Shell struct {
	Owner              string `yaml:"owner"`
	Repo               string `yaml:"repo"`
	ChromiumHeaderPath string `yaml:"chromiumHeaderPath"`
	NodeSubmodulePath  string `yaml:"nodeSubmodulePath"`
}

// Node is the JS runtime repository vendored by the shell framework.
type Node struct {
	Owner      string `yaml:"owner"`
	Repo       string `yaml:"repo"`
	HeaderPath string `yaml:"headerPath"`
}

func Default() Config {
	return Config{
		Editor: Editor{
			Owner:           "microsoft",
			Repo:            "vscode",
			MainRef:         "main",
			ManifestPath:    "package.json",
			BuildConfigPath: ".yarnrc",
		},
		Shell: Shell{
			Owner:              "electron",
			Repo:               "electron",
			ChromiumHeaderPath: "atom/common/chrome_version.h",
			NodeSubmodulePath:  "vendor/node",
		},
		Node: Node{
			Owner:      "electron",
			Repo:       "node",
			HeaderPath: "src/node_version.h",
		},
		IssueQuery: "repo:microsoft/vscode is:issue is:open label:electron",
	}
}

// Load reads a YAML config from path, layered over Default. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	eb := oops.With("config_path", path)

	f, err := os.Open(path)
	if err != nil {
		return Config{}, eb.Wrapf(err, "failed to open config file")
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, eb.Wrapf(err, "failed to parse config file")
	}

	if cfg.Editor.Owner == "" || cfg.Editor.Repo == "" {
		return Config{}, eb.Errorf("editor repository must not be empty")
	}
	if cfg.Shell.Owner == "" || cfg.Shell.Repo == "" {
		return Config{}, eb.Errorf("shell repository must not be empty")
	}
	return cfg, nil
}
