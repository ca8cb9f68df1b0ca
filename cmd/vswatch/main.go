package main

import (
	"context"
	"log"
	"os"

	"github.com/vswatch/vswatch/pkg/github"

	"github.com/vswatch/vswatch/pkg"
)

var (
	version = "0.0.1"
)

func main() {
	ctx := context.Background()
	ac := pkg.AppConfig{
		Client: github.NewClient(ctx,
			github.WithCredentials(os.Getenv("GITHUB_CLIENT_ID"), os.Getenv("GITHUB_CLIENT_SECRET"))),
	}

	app := ac.NewApp(version)
	err := app.Run(os.Args)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}
