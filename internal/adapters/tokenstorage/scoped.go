package tokenstorage

import (
	"context"

	"six-cities/internal/core/port"
)

// Scoped привязывает общее хранилище к одной сессии.
type Scoped struct {
	repo      port.TokenRepositoryPort
	sessionID string
}

var _ port.TokenStoragePort = (*Scoped)(nil)

func NewScoped(repo port.TokenRepositoryPort, sessionID string) *Scoped {
	return &Scoped{repo: repo, sessionID: sessionID}
}

func (s *Scoped) GetToken(ctx context.Context) (string, error) {
	return s.repo.Get(ctx, s.sessionID)
}

func (s *Scoped) SaveToken(ctx context.Context, token string) error {
	return s.repo.Save(ctx, s.sessionID, token)
}

func (s *Scoped) DropToken(ctx context.Context) error {
	return s.repo.Delete(ctx, s.sessionID)
}
