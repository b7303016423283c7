package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"trip-log-service/internal/api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSimulateCommand(t *testing.T) {
	out, err := runCLI(t, "simulate", "--start", "2026-03-02T06:00:00Z", "--hours", "20", "--miles", "800")
	require.NoError(t, err)

	var res dto.SimulationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 22, res.FinalCycleUsedHours, 1e-6)
	assert.Len(t, res.DailyLogs, 3)
}

func TestSimulateCommandProfile(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "hos.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("name: quick\nrules:\n  pickup_hours: 0.5\n  dropoff_hours: 0.5\n"), 0o600))

	out, err := runCLI(t, "simulate", "--start", "2026-03-02T08:00:00Z", "--hours", "2", "--miles", "100", "--profile", profile)
	require.NoError(t, err)

	var res dto.SimulationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 3, res.FinalCycleUsedHours, 1e-6)
}

func TestSimulateCommandErrors(t *testing.T) {
	_, err := runCLI(t, "simulate", "--hours=-1", "--miles=0")
	assert.Error(t, err)

	_, err = runCLI(t, "simulate", "--start", "yesterday", "--hours", "1", "--miles", "1")
	assert.Error(t, err)

	_, err = runCLI(t, "simulate", "--miles", "1")
	assert.Error(t, err, "--hours is required")
}
