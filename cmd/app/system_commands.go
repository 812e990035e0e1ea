package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/secretgate/cmd/app/commands"
	"github.com/allisson/secretgate/internal/app"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Serve the retrieval gateway and the management API",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:   "migrate",
			Usage:  "Create the tables (or MongoDB indexes) for the configured store",
			Action: withContainer(runMigrate),
		},
		{
			Name:  "clean-audit-logs",
			Usage: "Delete audit log entries older than a number of days",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Required: true,
					Usage: "Retention in days; older entries are deleted"},
				&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"},
					Usage: "Only count the entries that would be deleted"},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
				auditLogUseCase, err := c.AuditLogUseCase()
				if err != nil {
					return err
				}
				return commands.RunCleanAuditLogs(ctx, auditLogUseCase, c.Logger(), commands.Output(),
					int(cmd.Int("days")), cmd.Bool("dry-run"), cmd.String("format"))
			}),
		},
		{
			Name:  "verify-audit-logs",
			Usage: "Check the HMAC signature of every audit log entry in a time range",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "start-date", Aliases: []string{"s"}, Required: true,
					Usage: "Range start, YYYY-MM-DD or YYYY-MM-DD HH:MM:SS (UTC)"},
				&cli.StringFlag{Name: "end-date", Aliases: []string{"e"}, Required: true,
					Usage: "Range end, YYYY-MM-DD or YYYY-MM-DD HH:MM:SS (UTC)"},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
				auditLogUseCase, err := c.AuditLogUseCase()
				if err != nil {
					return err
				}
				return commands.RunVerifyAuditLogs(ctx, auditLogUseCase, c.Logger(), commands.Output(),
					cmd.String("start-date"), cmd.String("end-date"), cmd.String("format"))
			}),
		},
	}
}

func runMigrate(ctx context.Context, _ *cli.Command, c *app.Container) error {
	cfg := c.Config()
	if cfg.DBDriver != app.DriverMongoDB {
		return commands.RunMigrations(c.Logger(), cfg.DBDriver, cfg.DBConnectionString)
	}

	db, err := c.MongoDatabase()
	if err != nil {
		return err
	}
	return commands.RunMongoMigrations(ctx, db, c.Logger())
}
