package port

import "context"

// TokenStoragePort - хранилище токена одной сессии.
// Токен непрозрачен: ядро его только сохраняет и удаляет.
type TokenStoragePort interface {
	GetToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	DropToken(ctx context.Context) error
}

// TokenRepositoryPort - общее хранилище токенов всех сессий.
// Отсутствующий ключ - не ошибка, Get возвращает пустую строку.
type TokenRepositoryPort interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Save(ctx context.Context, sessionID, token string) error
	Delete(ctx context.Context, sessionID string) error
}
