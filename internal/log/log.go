// Package log 封装一个始终写到 stderr 的 zerolog logger，stdout 只留给表格与 JSON 快照。
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

var logger zerolog.Logger

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.DurationFieldInteger = true
	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger = zerolog.New(os.Stderr).With().Timestamp().Stack().Logger().Level(zerolog.InfoLevel)
}

// Setup 重新配置全局 logger。console=true 时使用人类可读的 ConsoleWriter。
func Setup(w io.Writer, verbose, console bool) {
	if w == nil {
		w = os.Stderr
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(w).With().Timestamp().Stack().Logger().Level(level)
}

func Debug() *zerolog.Event { return logger.Debug() }

func Info() *zerolog.Event { return logger.Info() }

func Warn() *zerolog.Event { return logger.Warn() }

func Error() *zerolog.Event { return logger.Error() }
