package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// PgxZerologAdapter adapts zerolog.Logger to pgx's tracelog.Logger interface
type PgxZerologAdapter struct {
	logger zerolog.Logger
}

// NewPgxZerologAdapter creates a new adapter
func NewPgxZerologAdapter(logger zerolog.Logger) *PgxZerologAdapter {
	return &PgxZerologAdapter{logger: logger}
}

// Log implements tracelog.Logger
func (a *PgxZerologAdapter) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]interface{}) {
	var event *zerolog.Event

	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		event = a.logger.Debug()
	case tracelog.LogLevelInfo:
		event = a.logger.Info()
	case tracelog.LogLevelWarn:
		event = a.logger.Warn()
	case tracelog.LogLevelError:
		event = a.logger.Error()
	default:
		event = a.logger.Info()
	}

	for k, v := range data {
		event = event.Interface(k, v)
	}

	event.Msg(msg)
}
