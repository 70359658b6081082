package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/orchestrator/cmd/app/commands"
	"github.com/allisson/orchestrator/internal/app"
	"github.com/allisson/orchestrator/internal/config"
)

func getQueueCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-queue",
			Usage: "Create a new work queue",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Unique queue name",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "Free-form description",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.QueueUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateQueue(
					ctx,
					useCase,
					container.Logger(),
					cmd.String("name"),
					cmd.String("description"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "toggle-queue",
			Usage: "Pause an active queue or resume a paused one",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Queue name",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.QueueUseCase()
				if err != nil {
					return err
				}

				return commands.RunToggleQueue(
					ctx,
					useCase,
					container.Logger(),
					cmd.String("name"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
