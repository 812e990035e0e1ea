package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/secretgate/cmd/app/commands"
	"github.com/allisson/secretgate/internal/app"
	cryptoService "github.com/allisson/secretgate/internal/crypto/service"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-key",
			Usage: "Generate a new SECRET_KEY, optionally wrapped by a KMS key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "Keeper URI (base64key://, awskms://, gcpkms://, azurekeyvault://, hashivault://); defaults to KMS_KEY_URI",
				},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
				kmsKeyURI := cmd.String("kms-key-uri")
				if kmsKeyURI == "" {
					kmsKeyURI = c.Config().KMSKeyURI
				}
				loader := cryptoService.NewKeyLoader(c.KMSService(), kmsKeyURI)
				return commands.RunCreateKey(ctx, loader, c.Logger(), commands.Output(),
					kmsKeyURI, cmd.String("format"))
			}),
		},
		{
			Name:  "rewrap-secrets",
			Usage: "Re-encrypt every secret still under PREVIOUS_SECRET_KEY with SECRET_KEY",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "batch-size", Aliases: []string{"b"}, Value: 100,
					Usage: "Secrets read per page"},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
				previous, err := c.PreviousCipherEngine()
				if err != nil {
					return err
				}
				secretUseCase, err := c.SecretUseCase()
				if err != nil {
					return err
				}
				return commands.RunRewrapSecrets(ctx, secretUseCase, previous, c.Logger(),
					commands.Output(), int(cmd.Int("batch-size")), cmd.String("format"))
			}),
		},
	}
}
