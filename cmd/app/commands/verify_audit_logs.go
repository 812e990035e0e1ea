package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	auditUseCase "github.com/allisson/secretgate/internal/audit/usecase"
)

// dateLayouts are tried in order; dates without a time start at midnight UTC.
var dateLayouts = []string{time.DateTime, time.DateOnly}

type verifyOutput struct {
	TotalChecked  int64    `json:"total_checked"`
	SignedCount   int64    `json:"signed_count"`
	UnsignedCount int64    `json:"unsigned_count"`
	ValidCount    int64    `json:"valid_count"`
	InvalidCount  int64    `json:"invalid_count"`
	InvalidLogs   []string `json:"invalid_logs"`
	Passed        bool     `json:"passed"`
}

// RunVerifyAuditLogs checks the HMAC signature of every audit log in
// [startDate, endDate] and fails when any of them does not match.
func RunVerifyAuditLogs(
	ctx context.Context,
	auditLogUseCase auditUseCase.AuditLogUseCase,
	logger *slog.Logger,
	writer io.Writer,
	startDate, endDate string,
	format string,
) error {
	start, err := parseDate(startDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := parseDate(endDate)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	if !end.After(start) {
		return errors.New("end date must be after start date")
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("verifying audit logs", slog.Time("start_date", start), slog.Time("end_date", end))

	report, err := auditLogUseCase.VerifyBatch(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to verify audit logs: %w", err)
	}

	out := verifyOutput{
		TotalChecked:  report.TotalChecked,
		SignedCount:   report.SignedCount,
		UnsignedCount: report.UnsignedCount,
		ValidCount:    report.ValidCount,
		InvalidCount:  report.InvalidCount,
		InvalidLogs:   make([]string, 0, len(report.InvalidLogs)),
		Passed:        report.InvalidCount == 0,
	}
	for _, id := range report.InvalidLogs {
		out.InvalidLogs = append(out.InvalidLogs, id.String())
	}

	if format == formatJSON {
		if err := writeJSON(writer, out); err != nil {
			return err
		}
	} else {
		writeVerifyText(writer, out, start, end)
	}

	logger.Info("audit log verification completed",
		slog.Int64("total_checked", report.TotalChecked),
		slog.Int64("invalid", report.InvalidCount))

	if !out.Passed {
		return fmt.Errorf("integrity check failed: %d invalid signature(s)", report.InvalidCount)
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is neither YYYY-MM-DD nor YYYY-MM-DD HH:MM:SS", value)
}

func writeVerifyText(writer io.Writer, out verifyOutput, start, end time.Time) {
	_, _ = fmt.Fprintf(writer, "Audit log verification, %s to %s\n\n",
		start.Format(time.DateTime), end.Format(time.DateTime))

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "checked\t%d\n", out.TotalChecked)
	_, _ = fmt.Fprintf(tw, "signed\t%d\n", out.SignedCount)
	_, _ = fmt.Fprintf(tw, "unsigned\t%d\n", out.UnsignedCount)
	_, _ = fmt.Fprintf(tw, "valid\t%d\n", out.ValidCount)
	_, _ = fmt.Fprintf(tw, "invalid\t%d\n", out.InvalidCount)
	_ = tw.Flush()
	_, _ = fmt.Fprintln(writer)

	switch {
	case !out.Passed:
		_, _ = fmt.Fprintf(writer, "Result: FAILED, %d entries do not match their signature:\n", out.InvalidCount)
		for _, id := range out.InvalidLogs {
			_, _ = fmt.Fprintf(writer, "  %s\n", id)
		}
	case out.TotalChecked == 0:
		_, _ = fmt.Fprintln(writer, "Result: no audit logs in range")
	default:
		_, _ = fmt.Fprintln(writer, "Result: PASSED")
	}
}
