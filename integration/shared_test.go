//go:build basic || database

// Package integration contains integration tests for pmc.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// With database containers: go test -tags database ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedPMCPath holds the path to a shared pmc binary built once for all tests.
	sharedPMCPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getPMCBinary returns the path to the pmc binary, building it once if needed.
func getPMCBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "pmc-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		pmcPath := filepath.Join(tempDir, "pmc")
		buildCmd := exec.Command("go", "build", "-o", pmcPath, "./cmd/pmc")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build pmc: %v\n%s", err, out))
		}

		sharedPMCPath = pmcPath
	})

	return sharedPMCPath
}

// runPMC runs the pmc binary with extra environment variables and returns stdout.
func runPMC(t *testing.T, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(getPMCBinary(), args...)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), output, stderr)
	}
	require.NoError(t, err)
	return string(output)
}

// writeWorkouts writes a small CSV of observations and returns its path.
func writeWorkouts(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workouts.csv")
	data := "date,planned,sport,title,duration,tss\n" +
		"2025-01-01,no,bike,Endurance,7200,100\n" +
		"2025-01-02,no,run,Easy,2700,40\n" +
		"2025-01-04,no,bike,Intervals,5400,120\n" +
		"2025-01-06,yes,bike,Long ride,10800,180\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}
