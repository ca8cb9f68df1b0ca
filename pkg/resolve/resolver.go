package resolve

import (
	"context"

	"golang.org/x/xerrors"

	"github.com/vswatch/vswatch/pkg/config"
	gh "github.com/vswatch/vswatch/pkg/github"
	"github.com/vswatch/vswatch/pkg/log"
	"github.com/vswatch/vswatch/pkg/types"
)

// ContentFetcher is the upstream surface the resolver reads from.
// github.Client satisfies it.
type ContentFetcher interface {
	RawContent(ctx context.Context, owner, repo, ref, path string) ([]byte, error)
	SubmoduleSHA(ctx context.Context, owner, repo, path, ref string) (string, error)
}

// Resolver derives the Electron, Node and Chromium versions bundled by one
// editor release. Every step is best effort: a file or pattern that does not
// match leaves its field empty and the rest of the record intact. Only
// transport failures abort.
type Resolver struct {
	fetcher ContentFetcher
	cfg     config.Config
	logger  *log.Logger
}

func NewResolver(fetcher ContentFetcher, cfg config.Config) Resolver {
	return Resolver{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  log.WithPrefix("resolve"),
	}
}

// Resolve builds the VersionRecord for release. When the Electron version
// cannot be determined the dependent Chromium and Node lookups are skipped,
// since both key off the Electron tag.
func (r Resolver) Resolve(ctx context.Context, release types.Release) (types.VersionRecord, error) {
	rec := types.VersionRecord{Release: release}

	ref := release.String()
	if release.IsLatest() {
		ref = r.cfg.Editor.MainRef
	}

	electron, err := r.resolveElectron(ctx, ref)
	if err != nil {
		return rec, err
	}
	if electron == "" {
		r.logger.Debug("electron version not found", log.Release(release))
		return rec, nil
	}
	rec.Electron = electron

	shellRef := "v" + electron
	if rec.Chromium, err = r.resolveChromium(ctx, shellRef); err != nil {
		return rec, err
	}
	if rec.Chromium == "" {
		r.logger.Debug("chromium version not found", log.Release(release), log.String("electron", electron))
	}

	if rec.Node, err = r.resolveNode(ctx, shellRef); err != nil {
		return rec, err
	}
	if rec.Node == "" {
		r.logger.Debug("node version not found", log.Release(release), log.String("electron", electron))
	}

	return rec, nil
}

func (r Resolver) resolveElectron(ctx context.Context, ref string) (string, error) {
	editor := r.cfg.Editor

	data, err := r.fetcher.RawContent(ctx, editor.Owner, editor.Repo, ref, editor.ManifestPath)
	if err != nil && !xerrors.Is(err, gh.ErrNotFound) {
		return "", xerrors.Errorf("failed to fetch manifest at %s: %w", ref, err)
	}
	if err == nil {
		if v, ok := electronFromManifest(data); ok {
			return v, nil
		}
	}

	data, err = r.fetcher.RawContent(ctx, editor.Owner, editor.Repo, ref, editor.BuildConfigPath)
	if err != nil {
		if xerrors.Is(err, gh.ErrNotFound) {
			return "", nil
		}
		return "", xerrors.Errorf("failed to fetch build config at %s: %w", ref, err)
	}
	if v, ok := electronFromBuildConfig(data); ok {
		return v, nil
	}
	return "", nil
}

func (r Resolver) resolveChromium(ctx context.Context, shellRef string) (string, error) {
	shell := r.cfg.Shell

	data, err := r.fetcher.RawContent(ctx, shell.Owner, shell.Repo, shellRef, shell.ChromiumHeaderPath)
	if err != nil {
		if xerrors.Is(err, gh.ErrNotFound) {
			return "", nil
		}
		return "", xerrors.Errorf("failed to fetch chromium header at %s: %w", shellRef, err)
	}
	if v, ok := chromiumFromHeader(data); ok {
		return v, nil
	}
	return "", nil
}

func (r Resolver) resolveNode(ctx context.Context, shellRef string) (string, error) {
	shell := r.cfg.Shell
	node := r.cfg.Node

	sha, err := r.fetcher.SubmoduleSHA(ctx, shell.Owner, shell.Repo, shell.NodeSubmodulePath, shellRef)
	if err != nil {
		if xerrors.Is(err, gh.ErrNotFound) {
			return "", nil
		}
		return "", xerrors.Errorf("failed to resolve node submodule at %s: %w", shellRef, err)
	}

	data, err := r.fetcher.RawContent(ctx, node.Owner, node.Repo, sha, node.HeaderPath)
	if err != nil {
		if xerrors.Is(err, gh.ErrNotFound) {
			return "", nil
		}
		return "", xerrors.Errorf("failed to fetch node header at %s: %w", sha, err)
	}
	if v, ok := nodeFromHeader(data); ok {
		return v, nil
	}
	return "", nil
}
