package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "triplog",
		Short: "Generate FMCSA hours-of-service duty logs for a truck trip.",
		Long: `triplog simulates a property-carrying driver's trip under the 11/14/70 ` +
			`hours-of-service rules and prints the daily log sheets and stops as JSON.`,
		SilenceUsage: true,
	}

	root.AddCommand(newSimulateCmd(), newPlanCmd())
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// parseStart reads an RFC 3339 start time; empty means now (UTC).
func parseStart(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--start must be RFC 3339: %w", err)
	}
	return t, nil
}
