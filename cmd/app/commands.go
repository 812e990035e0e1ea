package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/secretgate/internal/app"
	"github.com/allisson/secretgate/internal/config"
)

func getCommands(version string) []*cli.Command {
	var cmds []*cli.Command
	for _, group := range [][]*cli.Command{
		getSystemCommands(version),
		getKeyCommands(),
		getAdminCommands(),
	} {
		cmds = append(cmds, group...)
	}
	return cmds
}

// withContainer builds a container from the environment for one command run
// and releases whatever the action opened once it returns.
func withContainer(action func(ctx context.Context, cmd *cli.Command, c *app.Container) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		container := app.NewContainer(cfg)
		defer func() { _ = container.Shutdown(ctx) }()
		return action(ctx, cmd, container)
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
