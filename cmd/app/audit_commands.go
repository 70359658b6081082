package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/orchestrator/cmd/app/commands"
	"github.com/allisson/orchestrator/internal/app"
	"github.com/allisson/orchestrator/internal/config"
)

func getAuditCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "export-events",
			Usage: "Export the automation audit report as CSV to a bucket",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "report",
					Aliases: []string{"r"},
					Value:   "events",
					Usage:   "Report to export: 'events' or 'errors'",
				},
				&cli.StringFlag{
					Name:     "bucket-url",
					Aliases:  []string{"b"},
					Required: true,
					Usage:    "Destination bucket URL (e.g., file:///var/exports)",
				},
				&cli.StringFlag{
					Name:    "key",
					Aliases: []string{"k"},
					Usage:   "Object key (defaults to rpa_<report>_<date>.csv)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.RPAUseCase()
				if err != nil {
					return err
				}

				return commands.RunExportEvents(
					ctx,
					useCase,
					container.Logger(),
					cmd.String("report"),
					cmd.String("bucket-url"),
					cmd.String("key"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
