// Package testutil holds helpers shared by the package test suites.
package testutil

import (
	"log"
	"os"
	"testing"
)

// TestLogger returns a logger whose output is prefixed with the running
// test's name so interleaved output from server goroutines stays readable.
func TestLogger(t *testing.T) *log.Logger {
	logger := log.New(os.Stdout, "["+t.Name()+"] ", log.LstdFlags)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
	})
	return logger
}
