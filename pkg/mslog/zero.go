package mslog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var Zero = NewZeroLogger("", "info", false)

var logFile *os.File

// NewZeroLogger builds a logger writing to filepath (stdout when empty).
// pretty switches from JSON lines to the human-readable console writer.
// A file that cannot be opened falls back to stdout, use ReloadLogger to
// get the error instead.
func NewZeroLogger(filepath string, logLevel string, pretty bool) *zerolog.Logger {
	logger, file, err := openZeroLogger(filepath, logLevel, pretty)
	if err != nil {
		logger, _, _ = openZeroLogger("", logLevel, pretty)
		logger.Error().Err(err).Str("file", filepath).Msg("failed to open log file, logging to stdout")
		return logger
	}
	if file != nil {
		logFile = file
	}
	return logger
}

func openZeroLogger(filepath string, logLevel string, pretty bool) (*zerolog.Logger, *os.File, error) {
	file, writer, err := newWriter(filepath)
	if err != nil {
		return nil, nil, err
	}
	if pretty {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}
	logger := zerolog.New(writer).With().Timestamp().Logger().Level(parseLevel(logLevel))
	return &logger, file, nil
}

// ReloadLogger reopens the global logger on filepath, keeping the current
// level. On error the current logger stays in place.
func ReloadLogger(filepath string, pretty bool) error {
	if filepath == "" && !pretty {
		return nil // this means os.Stdout, so no need to open new file
	}
	logger, file, err := openZeroLogger(filepath, Zero.GetLevel().String(), pretty)
	if err != nil {
		return err
	}
	oldFile := logFile
	Zero = logger
	logFile = file
	if oldFile != nil && oldFile != file {
		_ = oldFile.Close()
	}
	return nil
}

func UpdateZeroLogLevel(logLevel string) error {
	level := parseLevel(logLevel)
	zeroLogger := Zero.With().Logger().Level(level)
	Zero = &zeroLogger
	return nil
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
