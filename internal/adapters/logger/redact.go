package logger_adapter

import (
	"strings"

	"six-cities/internal/core/port"
)

const redacted = "[REDACTED]"

// sensitiveKeys - поля, значения которых не должны попадать в логи.
var sensitiveKeys = []string{"token", "password", "x-token"}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if key == s || strings.HasSuffix(key, "_"+s) {
			return true
		}
	}
	return false
}

// redactFields возвращает копию полей со скрытыми секретами.
func redactFields(fields port.Fields) port.Fields {
	if len(fields) == 0 {
		return fields
	}
	out := make(port.Fields, len(fields))
	for k, v := range fields {
		if isSensitive(k) {
			out[k] = redacted
			continue
		}
		out[k] = v
	}
	return out
}
