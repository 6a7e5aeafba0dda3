package tokenstorage

import (
	"context"
	"sync"

	"six-cities/internal/core/port"
)

// MemoryTokenRepository - хранилище токенов в памяти процесса. Используется, если DATABASE_URL не задан.
type MemoryTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]string
}

var _ port.TokenRepositoryPort = (*MemoryTokenRepository)(nil)

func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{tokens: make(map[string]string)}
}

func (r *MemoryTokenRepository) Get(ctx context.Context, sessionID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tokens[sessionID], nil
}

func (r *MemoryTokenRepository) Save(ctx context.Context, sessionID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[sessionID] = token
	return nil
}

func (r *MemoryTokenRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, sessionID)
	return nil
}
