package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	accessUseCase "github.com/allisson/secretgate/internal/access/usecase"
)

// RunGrantAdmin gives principal the admin capability.
func RunGrantAdmin(
	ctx context.Context,
	adminUseCase accessUseCase.AdminUseCase,
	logger *slog.Logger,
	writer io.Writer,
	principal string,
) error {
	admin, err := adminUseCase.Grant(ctx, principal)
	if err != nil {
		return fmt.Errorf("failed to grant admin: %w", err)
	}

	logger.Info("admin granted", slog.String("principal", admin.Principal))
	_, _ = fmt.Fprintf(writer, "Granted admin to %s\n", admin.Principal)
	return nil
}

// RunRevokeAdmin removes the admin capability from principal.
func RunRevokeAdmin(
	ctx context.Context,
	adminUseCase accessUseCase.AdminUseCase,
	logger *slog.Logger,
	writer io.Writer,
	principal string,
) error {
	if err := adminUseCase.Revoke(ctx, principal); err != nil {
		return fmt.Errorf("failed to revoke admin: %w", err)
	}

	logger.Info("admin revoked", slog.String("principal", principal))
	_, _ = fmt.Fprintf(writer, "Revoked admin from %s\n", principal)
	return nil
}

type adminOutput struct {
	Principal string    `json:"principal"`
	CreatedAt time.Time `json:"created_at"`
}

// RunListAdmins prints every admin.
func RunListAdmins(
	ctx context.Context,
	adminUseCase accessUseCase.AdminUseCase,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	admins, err := adminUseCase.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}

	if format == formatJSON {
		output := make([]adminOutput, 0, len(admins))
		for _, admin := range admins {
			output = append(output, adminOutput{Principal: admin.Principal, CreatedAt: admin.CreatedAt})
		}
		return writeJSON(writer, output)
	}

	if len(admins) == 0 {
		_, _ = fmt.Fprintln(writer, "No admins")
		return nil
	}
	for _, admin := range admins {
		_, _ = fmt.Fprintf(writer, "%s\t%s\n", admin.Principal, admin.CreatedAt.Format(time.RFC3339))
	}
	return nil
}
