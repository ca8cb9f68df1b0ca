package lineage

import (
	"context"

	"golang.org/x/xerrors"

	"github.com/vswatch/vswatch/pkg/config"
	"github.com/vswatch/vswatch/pkg/log"
	"github.com/vswatch/vswatch/pkg/set"
	"github.com/vswatch/vswatch/pkg/types"
)

// TagLister lists release tags of a repository. github.Client satisfies it.
type TagLister interface {
	ListAllTags(ctx context.Context, owner, repo string) ([]string, error)
}

// Resolver resolves the runtime versions of one release. resolve.Resolver
// satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, release types.Release) (types.VersionRecord, error)
}

// Builder assembles the release lineage: the Latest sentinel plus every
// well-formed release tag, newest first, resolved once and merged with the
// cached lineage of the previous run.
type Builder struct {
	tags     TagLister
	resolver Resolver
	editor   config.Editor
	logger   *log.Logger

	// OnResolve, when set, is called before each release is resolved.
	// Used for progress reporting.
	OnResolve func(release types.Release)
}

func NewBuilder(tags TagLister, resolver Resolver, editor config.Editor) *Builder {
	return &Builder{
		tags:     tags,
		resolver: resolver,
		editor:   editor,
		logger:   log.WithPrefix("lineage"),
	}
}

// Build returns fresh-resolved records followed by the cached lineage.
// A release already present in the cache is never re-resolved, even when its
// cached record has absent fields; incomplete entries only heal by aging out
// of the retained window.
func (b *Builder) Build(ctx context.Context, cached types.Lineage) (types.Lineage, error) {
	tagNames, err := b.tags.ListAllTags(ctx, b.editor.Owner, b.editor.Repo)
	if err != nil {
		return nil, xerrors.Errorf("failed to list releases: %w", err)
	}

	// The sentinel goes first so the head of the lineage is always the
	// unreleased branch; tags follow in API order, newest first.
	candidates := []types.Release{types.ReleaseLatest}
	for _, name := range tagNames {
		if release := types.Release(name); release.Valid() {
			candidates = append(candidates, release)
		}
	}

	known := set.New(cached.Releases()...)

	var fresh types.Lineage
	for _, release := range candidates {
		if known.Contains(release) {
			continue
		}
		known.Append(release)

		if b.OnResolve != nil {
			b.OnResolve(release)
		}
		rec, err := b.resolver.Resolve(ctx, release)
		if err != nil {
			return nil, xerrors.Errorf("failed to resolve %s: %w", release, err)
		}
		fresh = append(fresh, rec)
	}
	b.logger.Info("lineage built",
		log.Int("fresh", len(fresh)), log.Int("cached", len(cached)))

	return append(fresh, cached...), nil
}
