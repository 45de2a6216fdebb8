// Package testlog routes component logs into the running test.
package testlog

import (
	"testing"

	"github.com/rs/zerolog"
)

// New returns a debug level logger that writes through t.Log.
func New(t testing.TB) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel).With().Str("test", t.Name()).Logger()
}
