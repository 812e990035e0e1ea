package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/secretgate/cmd/app/commands"
	accessUseCase "github.com/allisson/secretgate/internal/access/usecase"
	"github.com/allisson/secretgate/internal/app"
)

func principalFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "principal",
		Aliases:  []string{"p"},
		Required: true,
		Usage:    "Principal email as asserted by the identity proxy",
	}
}

// withAdmins resolves the admin use case before running action.
func withAdmins(
	action func(ctx context.Context, cmd *cli.Command, c *app.Container, uc accessUseCase.AdminUseCase) error,
) cli.ActionFunc {
	return withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
		uc, err := c.AdminUseCase()
		if err != nil {
			return err
		}
		return action(ctx, cmd, c, uc)
	})
}

func getAdminCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "grant-admin",
			Usage: "Allow a principal to retrieve and manage secrets",
			Flags: []cli.Flag{principalFlag()},
			Action: withAdmins(func(ctx context.Context, cmd *cli.Command, c *app.Container, uc accessUseCase.AdminUseCase) error {
				return commands.RunGrantAdmin(ctx, uc, c.Logger(), commands.Output(), cmd.String("principal"))
			}),
		},
		{
			Name:  "revoke-admin",
			Usage: "Remove the admin capability from a principal",
			Flags: []cli.Flag{principalFlag()},
			Action: withAdmins(func(ctx context.Context, cmd *cli.Command, c *app.Container, uc accessUseCase.AdminUseCase) error {
				return commands.RunRevokeAdmin(ctx, uc, c.Logger(), commands.Output(), cmd.String("principal"))
			}),
		},
		{
			Name:  "list-admins",
			Usage: "List every admin principal",
			Flags: []cli.Flag{formatFlag()},
			Action: withAdmins(func(ctx context.Context, cmd *cli.Command, _ *app.Container, uc accessUseCase.AdminUseCase) error {
				return commands.RunListAdmins(ctx, uc, commands.Output(), cmd.String("format"))
			}),
		},
	}
}
