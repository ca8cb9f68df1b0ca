package resolve_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/vswatch/vswatch/pkg/config"
	gh "github.com/vswatch/vswatch/pkg/github"
	"github.com/vswatch/vswatch/pkg/resolve"
	"github.com/vswatch/vswatch/pkg/types"
)

type fakeFetcher struct {
	files map[string]string // "owner/repo/ref/path" -> content
	subs  map[string]string // "owner/repo/path@ref" -> sha
	errs  map[string]error  // "owner/repo/ref/path" -> forced error
}

func (f fakeFetcher) RawContent(_ context.Context, owner, repo, ref, path string) ([]byte, error) {
	key := owner + "/" + repo + "/" + ref + "/" + path
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	content, ok := f.files[key]
	if !ok {
		return nil, gh.ErrNotFound
	}
	return []byte(content), nil
}

func (f fakeFetcher) SubmoduleSHA(_ context.Context, owner, repo, path, ref string) (string, error) {
	sha, ok := f.subs[owner+"/"+repo+"/"+path+"@"+ref]
	if !ok {
		return "", gh.ErrNotFound
	}
	return sha, nil
}

const nodeHeader = "#define NODE_MAJOR_VERSION 12\n#define NODE_MINOR_VERSION 18\n#define NODE_PATCH_VERSION 3\n"

func TestResolver_Resolve(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name    string
		fetcher fakeFetcher
		release types.Release
		want    types.VersionRecord
	}{
		{
			name:    "all versions resolved from manifest",
			release: "1.52.1",
			fetcher: fakeFetcher{
				files: map[string]string{
					"microsoft/vscode/1.52.1/package.json": `{"electronVersion": "11.2.1"}`,
					"electron/electron/v11.2.1/atom/common/chrome_version.h": `#define CHROME_VERSION_STRING "87.0.4280.141"`,
					"electron/node/abc123/src/node_version.h":                nodeHeader,
				},
				subs: map[string]string{
					"electron/electron/vendor/node@v11.2.1": "abc123",
				},
			},
			want: types.VersionRecord{
				Release:  "1.52.1",
				Electron: "11.2.1",
				Chromium: "87.0.4280.141",
				Node:     "12.18.3",
			},
		},
		{
			name:    "build config fallback for latest",
			release: types.ReleaseLatest,
			fetcher: fakeFetcher{
				files: map[string]string{
					"microsoft/vscode/main/package.json": `{"name": "code-oss-dev"}`,
					"microsoft/vscode/main/.yarnrc": "target \"11.3.0\"\n",
					"electron/electron/v11.3.0/atom/common/chrome_version.h": `#define CHROME_VERSION_STRING "87.0.4280.150"`,
				},
			},
			want: types.VersionRecord{
				Release:  types.ReleaseLatest,
				Electron: "11.3.0",
				Chromium: "87.0.4280.150",
			},
		},
		{
			name:    "electron unresolved skips dependent lookups",
			release: "0.10.0",
			fetcher: fakeFetcher{
				files: map[string]string{
					"microsoft/vscode/0.10.0/package.json": `{"name": "code-oss-dev"}`,
				},
			},
			want: types.VersionRecord{Release: "0.10.0"},
		},
		{
			name:    "node submodule missing leaves node absent",
			release: "1.52.1",
			fetcher: fakeFetcher{
				files: map[string]string{
					"microsoft/vscode/1.52.1/package.json": `{"electronVersion": "11.2.1"}`,
					"electron/electron/v11.2.1/atom/common/chrome_version.h": `#define CHROME_VERSION_STRING "87.0.4280.141"`,
				},
			},
			want: types.VersionRecord{
				Release:  "1.52.1",
				Electron: "11.2.1",
				Chromium: "87.0.4280.141",
			},
		},
		{
			name:    "chromium header pattern miss is not fatal",
			release: "1.52.1",
			fetcher: fakeFetcher{
				files: map[string]string{
					"microsoft/vscode/1.52.1/package.json": `{"electronVersion": "11.2.1"}`,
					"electron/electron/v11.2.1/atom/common/chrome_version.h": "// moved elsewhere",
					"electron/node/abc123/src/node_version.h":                nodeHeader,
				},
				subs: map[string]string{
					"electron/electron/vendor/node@v11.2.1": "abc123",
				},
			},
			want: types.VersionRecord{
				Release:  "1.52.1",
				Electron: "11.2.1",
				Node:     "12.18.3",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resolve.NewResolver(tt.fetcher, cfg)
			got, err := r.Resolve(context.Background(), tt.release)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_Resolve_TransportError(t *testing.T) {
	boom := xerrors.New("connection reset")
	fetcher := fakeFetcher{
		errs: map[string]error{
			"microsoft/vscode/1.52.1/package.json": boom,
		},
	}

	r := resolve.NewResolver(fetcher, config.Default())
	_, err := r.Resolve(context.Background(), "1.52.1")
	assert.ErrorIs(t, err, boom)
}
