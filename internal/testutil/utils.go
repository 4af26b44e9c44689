package testutil

import (
	"log"
	"os"
	"testing"
)

// TestLogger returns a logger prefixed with the running test's name, so
// relay and handler output is attributable when tests run in parallel.
func TestLogger(t *testing.T) *log.Logger {
	t.Helper()

	logger := log.New(os.Stdout, "["+t.Name()+"] ", log.LstdFlags)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
	})
	return logger
}
