package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/orchestrator/cmd/app/commands"
	"github.com/allisson/orchestrator/internal/app"
	"github.com/allisson/orchestrator/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server, worker gateway and lease reaper",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Apply or roll back database migrations",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "dir",
					Value: commands.DefaultMigrationsDir,
					Usage: "Directory holding the postgresql and mysql migration sets",
				},
				&cli.IntFlag{
					Name:  "steps",
					Usage: "Number of migrations to apply, negative to roll back (default: all pending)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString,
					commands.MigrationOptions{
						Dir:   cmd.String("dir"),
						Steps: int(cmd.Int("steps")),
					})
			},
		},
	}
}
