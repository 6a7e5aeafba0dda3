package store

import (
	"time"

	"six-cities/internal/core/port"
)

// LoggerMiddleware пишет в лог каждое действие. Ошибки rejected-действий пишутся на уровне Warn.
func LoggerMiddleware(logger port.LoggerPort) Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(action Action) {
			start := time.Now()
			next(action)

			fields := port.Fields{
				"action":   string(action.Type),
				"duration": time.Since(start).String(),
			}
			if action.Meta.RequestID != "" {
				fields["request_id"] = action.Meta.RequestID
			}
			if action.Error != "" {
				fields["error"] = action.Error
				logger.Warn("Action dispatched", fields)
				return
			}
			logger.Debug("Action dispatched", fields)
		}
	}
}

// JournalMiddleware записывает каждое действие сессии в журнал.
func JournalMiddleware(journal port.ActionJournalPort, sessionID string) Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(action Action) {
			next(action)
			journal.Record(port.JournalEntry{
				SessionID: sessionID,
				Type:      string(action.Type),
				RequestID: action.Meta.RequestID,
				Error:     action.Error,
				At:        time.Now().UTC(),
			})
		}
	}
}
