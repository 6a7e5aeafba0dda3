package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"six-cities/internal/core/domain"
	"six-cities/internal/core/store"
)

// WriteJSONError отправляет ошибку в формате {"error": "..."}
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// statusForRejection переводит ошибку асинхронного действия в HTTP-статус.
// Коды 4xx бэкенда передаются как есть, остальное - 502.
func statusForRejection(err error) int {
	var reqErr *domain.RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode >= 400 && reqErr.StatusCode < 500 {
		return reqErr.StatusCode
	}
	return http.StatusBadGateway
}

// writeRejection отвечает сообщением rejected-действия.
func writeRejection(w http.ResponseWriter, err error) {
	message := err.Error()
	var rejected *store.RejectedError
	if errors.As(err, &rejected) {
		message = rejected.Message
	}
	WriteJSONError(w, statusForRejection(err), message)
}
