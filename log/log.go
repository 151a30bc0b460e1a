// Package log wraps zerolog behind a small package-level API so the rest of
// voteflow never imports zerolog directly.
package log

import (
	"cmp"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	timeFormat = "2006-01-02T15:04:05.000Z07:00"
)

var (
	logger zerolog.Logger
	mu     sync.RWMutex
)

func init() {
	// $LOG_LEVEL lets a host tune verbosity without this library exposing
	// its own configuration surface (it has no CLI/daemon of its own).
	Init(cmp.Or(os.Getenv("LOG_LEVEL"), "error"))
}

// Init (re)configures the global logger at the given level, writing to
// stderr. Panics on an unrecognized level: a bad level string is a
// programmer-contract violation, not untrusted input.
func Init(level string) {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat}
	l := zerolog.New(out).With().Timestamp().Logger()

	switch level {
	case LevelDebug:
		l = l.Level(zerolog.DebugLevel)
	case LevelInfo:
		l = l.Level(zerolog.InfoLevel)
	case LevelWarn:
		l = l.Level(zerolog.WarnLevel)
	case LevelError:
		l = l.Level(zerolog.ErrorLevel)
	default:
		panic(fmt.Sprintf("log: invalid level %q", level))
	}

	mu.Lock()
	logger = l
	mu.Unlock()
}

func get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(args ...any) { get().Debug().Msg(fmt.Sprint(args...)) }
func Info(args ...any)  { get().Info().Msg(fmt.Sprint(args...)) }
func Warn(args ...any)  { get().Warn().Msg(fmt.Sprint(args...)) }
func Error(args ...any) { get().Error().Msg(fmt.Sprint(args...)) }

func Debugf(tpl string, args ...any) { get().Debug().Msgf(tpl, args...) }
func Infof(tpl string, args ...any)  { get().Info().Msgf(tpl, args...) }
func Warnf(tpl string, args ...any)  { get().Warn().Msgf(tpl, args...) }
func Errorf(tpl string, args ...any) { get().Error().Msgf(tpl, args...) }

// Warnw logs a warning with structured key/value fields, e.g.
// log.Warnw("ignoring transition", "trustee", id, "state", s).
func Warnw(msg string, keyvals ...any) { get().Warn().Fields(keyvals).Msg(msg) }

// Debugw logs a debug message with structured key/value fields.
func Debugw(msg string, keyvals ...any) { get().Debug().Fields(keyvals).Msg(msg) }

// Errorw logs an error with its cause attached as a structured field.
func Errorw(err error, msg string) { get().Error().Err(err).Msg(msg) }
