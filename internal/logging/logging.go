// Package logging configures the process-wide zerolog logger.
//
// Console output is always enabled. File output goes through a size-capped
// rotating log so long-running routers don't fill their overlay filesystem.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02 15:04:05"

// New builds the root logger. level falls back to info when unrecognized,
// matching the original CLI behavior of tolerating bad --log-level values.
func New(level, logFile string, noFileLog bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: timeFormat,
	}

	var w io.Writer = console
	if !noFileLog && logFile != "" {
		w = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    5, // megabytes
			MaxBackups: 2,
			MaxAge:     14, // days
		})
	}

	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
