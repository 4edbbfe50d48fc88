// Package logger описывает интерфейс логгера приложения и его реализацию поверх zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger: форматирующий логгер, который используют все слои приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
	With(key string, value any) Logger
}

// ZerologLogger реализует Logger поверх zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger создает логгер с указанным уровнем ("debug", "info", ...) и форматом ("json" или "console").
// Неизвестный уровень трактуется как info.
func NewZerologLogger(level string, format string) *ZerologLogger {
	return newZerologLogger(os.Stdout, level, format)
}

// NewNopLogger возвращает логгер, который ничего не пишет. Используется в тестах.
func NewNopLogger() *ZerologLogger {
	return &ZerologLogger{log: zerolog.Nop()}
}

func newZerologLogger(w io.Writer, level string, format string) *ZerologLogger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return &ZerologLogger{
		log: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
	}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msg(fmt.Sprintf(format, args...))
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *ZerologLogger) Errorf(err error, format string, args ...any) {
	l.log.Error().Err(err).Msg(fmt.Sprintf(format, args...))
}

// With возвращает дочерний логгер с дополнительным полем.
func (l *ZerologLogger) With(key string, value any) Logger {
	return &ZerologLogger{log: l.log.With().Interface(key, value).Logger()}
}
