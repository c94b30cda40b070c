package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = New(os.Stdout, os.Stderr)
}

// New builds a console logger that sends debug, info and warn events to out
// and everything from error upwards to errOut.
func New(out, errOut io.Writer) zerolog.Logger {
	writer := zerolog.MultiLevelWriter(
		SpecificLevelWriter{
			Writer: zerolog.ConsoleWriter{
				Out:        out,
				TimeFormat: time.RFC3339,
			},
			Levels: []zerolog.Level{
				zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel,
			},
		},
		SpecificLevelWriter{
			Writer: zerolog.ConsoleWriter{
				Out: errOut,
			},
			Levels: []zerolog.Level{
				zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel,
			},
		},
	)
	return zerolog.New(writer).With().Timestamp().Logger()
}

// SetOutput replaces the package logger with a plain JSON logger writing to w.
func SetOutput(w io.Writer) {
	logger = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel sets the global minimum level ("debug", "info", "warn", ...).
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// With starts a child logger context for events that carry fields.
func With() zerolog.Context {
	return logger.With()
}

func Info(msg string) {
	logger.Info().Msg(msg)
}

func Infof(format string, args ...interface{}) {
	logger.Info().Msgf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	logger.Warn().Msgf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	logger.Error().Msgf(format, args...)
}

func Debugf(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}

// SpecificLevelWriter forwards only the events whose level is listed.
type SpecificLevelWriter struct {
	io.Writer
	Levels []zerolog.Level
}

func (w SpecificLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	for _, l := range w.Levels {
		if l == level {
			return w.Write(p)
		}
	}
	return len(p), nil
}
