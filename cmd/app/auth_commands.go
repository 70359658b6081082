package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/orchestrator/cmd/app/commands"
	"github.com/allisson/orchestrator/internal/app"
	"github.com/allisson/orchestrator/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-api-key",
			Usage: "Generate an operator API key and its Argon2id hash",
			Flags: []cli.Flag{
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())

				return commands.RunCreateAPIKey(
					container.APIKeyService(),
					container.Logger(),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
