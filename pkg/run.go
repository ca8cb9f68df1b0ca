package pkg

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/urfave/cli"
	"golang.org/x/xerrors"

	"github.com/vswatch/vswatch/pkg/config"
	"github.com/vswatch/vswatch/pkg/github"
	"github.com/vswatch/vswatch/pkg/lineage"
	"github.com/vswatch/vswatch/pkg/log"
	"github.com/vswatch/vswatch/pkg/notify"
	"github.com/vswatch/vswatch/pkg/report"
	"github.com/vswatch/vswatch/pkg/resolve"
	"github.com/vswatch/vswatch/pkg/severity"
	"github.com/vswatch/vswatch/pkg/snapshot"
	"github.com/vswatch/vswatch/pkg/types"
)

func (ac *AppConfig) run(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return xerrors.Errorf("config error: %w", err)
	}
	if endpoint := c.String("notify-endpoint"); endpoint != "" {
		cfg.NotifyEndpoint = endpoint
	}

	cacheDir := c.String("cache-dir")
	snap := snapshot.NewClient(cacheDir)
	cached, err := snap.Load()
	if err != nil {
		return xerrors.Errorf("snapshot load error: %w", err)
	}

	builder := lineage.NewBuilder(ac.Client, resolve.NewResolver(ac.Client, cfg), cfg.Editor)

	stopProgress := func() {}
	if !c.Bool("quiet") {
		s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
		s.Suffix = " resolving releases"
		builder.OnResolve = func(release types.Release) {
			s.Suffix = fmt.Sprintf(" resolving %s", release)
		}
		s.Start()
		stopProgress = s.Stop
	}

	lin, err := builder.Build(ctx, cached)
	stopProgress()
	if err != nil {
		return xerrors.Errorf("lineage build error: %w", err)
	}

	sev := severity.Classify(lin)
	fmt.Fprintf(os.Stderr, "Severity: %s\n", types.SeverityColor[sev](sev.String()))

	var issues []github.TrackingIssue
	if !c.Bool("no-issues") && cfg.IssueQuery != "" {
		if issues, err = ac.Client.SearchOpenIssues(ctx, cfg.IssueQuery); err != nil {
			return xerrors.Errorf("issue search error: %w", err)
		}
	}

	writer := report.NewWriter(cacheDir)
	content := writer.Render(lin, sev, issues)

	if c.Bool("dry-run") {
		fmt.Print(content)
		return nil
	}

	if err = writer.Write(content); err != nil {
		return xerrors.Errorf("report write error: %w", err)
	}
	if err = snap.Save(lin); err != nil {
		return xerrors.Errorf("snapshot save error: %w", err)
	}

	if !c.Bool("no-notify") {
		message := report.StatusMessage(lin, sev, len(issues))
		if err = notify.New(cfg.NotifyEndpoint).Send(ctx, message); err != nil {
			return xerrors.Errorf("notification error: %w", err)
		}
	}

	log.Info("run complete",
		log.Int("lineage", len(lin)),
		log.Int("issues", len(issues)),
		log.String("severity", sev.String()))
	return nil
}

func (ac *AppConfig) timestamp(c *cli.Context) error {
	info, err := os.Stat(snapshot.Path(c.String("cache-dir")))
	if err != nil {
		return xerrors.Errorf("snapshot stat error: %w", err)
	}
	fmt.Println(info.ModTime().UTC().Format(time.RFC3339))
	return nil
}
