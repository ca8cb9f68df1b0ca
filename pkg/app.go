package pkg

import (
	"github.com/urfave/cli"

	"github.com/vswatch/vswatch/pkg/github"
	"github.com/vswatch/vswatch/pkg/utils"
)

type AppConfig struct {
	Client github.Client
}

func (ac *AppConfig) NewApp(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "vswatch"
	app.Version = version

	app.Usage = "VS Code release and bundled runtime tracker"

	cacheDirFlag := cli.StringFlag{
		Name:  "cache-dir",
		Usage: "cache directory path",
		Value: utils.CacheDir(),
	}

	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "poll releases, resolve bundled runtimes and write the report",
			Action: ac.run,
			Flags: []cli.Flag{
				cacheDirFlag,
				cli.StringFlag{
					Name:   "config, c",
					Usage:  "tracker config file path",
					EnvVar: "VSWATCH_CONFIG",
				},
				cli.StringFlag{
					Name:   "notify-endpoint",
					Usage:  "status notification endpoint, overrides the config file",
					EnvVar: "VSWATCH_NOTIFY_ENDPOINT",
				},
				cli.BoolFlag{
					Name:  "no-issues",
					Usage: "skip the open tracking issue search",
				},
				cli.BoolFlag{
					Name:  "no-notify",
					Usage: "skip status notification delivery",
				},
				cli.BoolFlag{
					Name:  "dry-run",
					Usage: "print the report instead of writing files and notifying",
				},
				cli.BoolFlag{
					Name:  "quiet, q",
					Usage: "disable the progress spinner",
				},
			},
		},
		{
			Name:   "timestamp",
			Usage:  "print the time of the last persisted snapshot",
			Action: ac.timestamp,
			Flags: []cli.Flag{
				cacheDirFlag,
			},
		},
	}

	return app
}
