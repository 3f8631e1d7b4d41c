// Package logging is a thin facade over zerolog shared by every component.
// On the stdio transport the log stream must stay off stdout, which carries
// the MCP protocol, so everything goes to stderr.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.TimeOnly,
}).Level(zerolog.InfoLevel).With().Timestamp().Logger()

// Disable turns off all logging.
func Disable() {
	logger = logger.Output(io.Discard).Level(zerolog.Disabled)
}

// SetVerbose lowers the level to debug.
func SetVerbose() {
	logger = logger.Level(zerolog.DebugLevel)
}

// Infof logs a formatted info message.
func Infof(format string, v ...any) {
	logger.Info().Msgf(format, v...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, v ...any) {
	logger.Warn().Msgf(format, v...)
}

// Errorf logs a formatted error message.
func Errorf(format string, v ...any) {
	logger.Error().Msgf(format, v...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, v ...any) {
	logger.Debug().Msgf(format, v...)
}
