// Package logger configures the global zerolog logger used by the ChainDB
// tools and provides helpers for keeping credentials out of log lines.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogType selects the output encoding.
type LogType string

const (
	LogTypeDefault LogType = "default"
	LogTypeJSON    LogType = "json"
)

const (
	envLogLevel = "LOG_LEVEL"
	envLogType  = "LOG_TYPE"
)

var stderr io.Writer = os.Stderr

// Configure sets the global logger from LOG_LEVEL and LOG_TYPE.
func Configure() {
	ConfigureWith(os.Getenv(envLogLevel), LogType(strings.ToLower(os.Getenv(envLogType))))
}

// ConfigureWith sets the global level and output format explicitly.
func ConfigureWith(level string, logType LogType) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(ParseLevel(level))

	var w io.Writer
	switch logType {
	case LogTypeJSON:
		w = stderr
	default:
		w = consoleWriter(stderr)
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func consoleWriter(out io.Writer, opts ...func(w *zerolog.ConsoleWriter)) zerolog.ConsoleWriter {
	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	defaults := func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.NoColor = noColor
		w.TimeFormat = "15:04:05.999 |"
		w.FormatFieldName = func(i interface{}) string {
			return fmt.Sprintf("[%s:", i)
		}
		w.FormatFieldValue = func(i interface{}) string {
			if i == nil {
				i = ""
			}
			return fmt.Sprintf("%s]", i)
		}
	}
	return zerolog.NewConsoleWriter(append([]func(w *zerolog.ConsoleWriter){defaults}, opts...)...)
}

type tTesting interface {
	Log(args ...interface{})
	Logf(format string, args ...interface{})
	Helper()
	Cleanup(f func())
}

// ConfigureTestLogging routes the global logger into t's output for the
// duration of the test.
func ConfigureTestLogging(t tTesting) {
	oldLogger := log.Logger
	oldContextLogger := zerolog.DefaultContextLogger
	oldLevel := zerolog.GlobalLevel()

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(zerolog.NewConsoleWriter(zerolog.ConsoleTestWriter(t))).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger

	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.DefaultContextLogger = oldContextLogger
		zerolog.SetGlobalLevel(oldLevel)
	})
}
