package store

import (
	"context"
	"errors"

	"six-cities/internal/constants"
	"six-cities/internal/contextkeys"
	"six-cities/internal/core/domain"
	"six-cities/internal/core/port"

	"github.com/google/uuid"
)

// ThunkAPI - то, что получает асинхронное действие при запуске.
type ThunkAPI struct {
	Dispatch  func(action Action)
	GetState  func() RootState
	Extra     Extra
	RequestID string
	Logger    port.LoggerPort
}

// PayloadCreator выполняет запрос и возвращает полезную нагрузку fulfilled-действия.
type PayloadCreator[Arg, Result any] func(ctx context.Context, arg Arg, api ThunkAPI) (Result, error)

// AsyncThunk описывает асинхронное действие с тремя фазами: pending, fulfilled, rejected.
type AsyncThunk[Arg, Result any] struct {
	typePrefix string
	fallback   string
	create     PayloadCreator[Arg, Result]

	pending   ActionType
	fulfilled ActionType
	rejected  ActionType
}

// NewAsyncThunk создаёт асинхронное действие. fallback используется как сообщение
// rejected-действия, если сервер не вернул своё.
func NewAsyncThunk[Arg, Result any](typePrefix, fallback string, create PayloadCreator[Arg, Result]) *AsyncThunk[Arg, Result] {
	return &AsyncThunk[Arg, Result]{
		typePrefix: typePrefix,
		fallback:   fallback,
		create:     create,
		pending:    ActionType(typePrefix + "/pending"),
		fulfilled:  ActionType(typePrefix + "/fulfilled"),
		rejected:   ActionType(typePrefix + "/rejected"),
	}
}

func (t *AsyncThunk[Arg, Result]) TypePrefix() string   { return t.typePrefix }
func (t *AsyncThunk[Arg, Result]) Pending() ActionType   { return t.pending }
func (t *AsyncThunk[Arg, Result]) Fulfilled() ActionType { return t.fulfilled }
func (t *AsyncThunk[Arg, Result]) Rejected() ActionType  { return t.rejected }

// RejectedError возвращается из Dispatch, если действие завершилось rejected.
type RejectedError struct {
	Type    ActionType
	Message string
	Err     error
}

func (e *RejectedError) Error() string { return e.Message }
func (e *RejectedError) Unwrap() error { return e.Err }

// Dispatch запускает действие: pending, запрос, затем fulfilled или rejected.
// Результат и ошибка возвращаются вызывающему, чтобы он мог показать их пользователю.
func (t *AsyncThunk[Arg, Result]) Dispatch(ctx context.Context, s *Store, arg Arg) (Result, error) {
	requestID := uuid.New().String()
	meta := Meta{RequestID: requestID, Arg: arg}

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"action":     t.typePrefix,
		"request_id": requestID,
	})

	s.Dispatch(Action{Type: t.pending, Meta: meta})
	logger.Debug("Async action started", nil)

	result, err := t.create(ctx, arg, ThunkAPI{
		Dispatch:  s.Dispatch,
		GetState:  s.GetState,
		Extra:     s.Extra(),
		RequestID: requestID,
		Logger:    logger,
	})
	if err != nil {
		message := rejectionMessage(err, t.fallback)
		s.Dispatch(Action{Type: t.rejected, Error: message, Meta: meta})
		logger.Warn("Async action rejected", port.Fields{"error": err.Error()})

		var zero Result
		return zero, &RejectedError{Type: t.rejected, Message: message, Err: err}
	}

	s.Dispatch(Action{Type: t.fulfilled, Payload: result, Meta: meta})
	logger.Debug("Async action fulfilled", nil)
	return result, nil
}

func rejectionMessage(err error, fallback string) string {
	var reqErr *domain.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	if fallback != "" {
		return fallback
	}
	return constants.ErrDefault
}
