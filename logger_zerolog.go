package fluentdb

import (
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger, Logger arayüzünü bir zerolog.Logger üzerine uygular.
// Başarılı ifadeler debug, başarısız ifadeler error seviyesinde yazılır.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger, verilen zerolog logger'ı için bir adaptör oluşturur.
func NewZerologLogger(log zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: log}
}

// Log, Logger arayüzünü uygular.
func (l *ZerologLogger) Log(query string, args []any, duration time.Duration, err error) {
	ev := l.log.Debug()
	if err != nil {
		ev = l.log.Error().Err(err)
	}
	ev.Str("sql", query).
		Interface("args", args).
		Dur("duration", duration).
		Msg("sql")
}
