// Package commands implements the secretgate CLI subcommands. Every Run*
// function takes its collaborators and an output writer so it can be driven
// from tests without a container.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// Output is where command results are printed. Logs go to the logger.
func Output() io.Writer {
	return os.Stdout
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid options: %s, %s)", format, formatText, formatJSON)
	}
}

func writeJSON(writer io.Writer, v any) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}
