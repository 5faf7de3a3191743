// =============================================================================
// testlog.go - Test Logging
// =============================================================================
//
// Configures test logging and marks the start of each test in the log.
//
// =============================================================================

package testlog

import (
	"testing"

	"github.com/rs/zerolog/log"

	"github.com/segment-dev/segment-cli/internal/logging"
)

func Start(t testing.TB) {
	t.Helper()
	logging.ConfigureTests()
	log.Info().Str("test", t.Name()).Msg("start")
}
