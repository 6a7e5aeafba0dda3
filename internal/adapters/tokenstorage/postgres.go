package tokenstorage

import (
	"context"
	"errors"
	"fmt"

	"six-cities/internal/contextkeys"
	"six-cities/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableQuery = `
CREATE TABLE IF NOT EXISTS session_tokens (
	session_id TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresTokenRepository хранит токены сессий в таблице session_tokens.
// Токены переживают перезапуск сервиса, как localStorage переживает перезагрузку вкладки.
type PostgresTokenRepository struct {
	pool *pgxpool.Pool
}

var _ port.TokenRepositoryPort = (*PostgresTokenRepository)(nil)

func NewPostgresTokenRepository(pool *pgxpool.Pool) (*PostgresTokenRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresTokenRepository{pool: pool}, nil
}

// EnsureSchema создаёт таблицу, если её ещё нет.
func (r *PostgresTokenRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createTableQuery); err != nil {
		return fmt.Errorf("failed to create session_tokens table: %w", err)
	}
	return nil
}

func (r *PostgresTokenRepository) Get(ctx context.Context, sessionID string) (string, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresTokenRepository",
		"method":     "Get",
		"session_id": sessionID,
	})

	query := `SELECT token FROM session_tokens WHERE session_id = $1`
	var token string
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		repoLogger.Error("Failed to read token", err, nil)
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

func (r *PostgresTokenRepository) Save(ctx context.Context, sessionID, token string) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresTokenRepository",
		"method":     "Save",
		"session_id": sessionID,
	})

	query := `
		INSERT INTO session_tokens (session_id, token, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (session_id) DO UPDATE SET token = EXCLUDED.token, updated_at = now()`
	if _, err := r.pool.Exec(ctx, query, sessionID, token); err != nil {
		repoLogger.Error("Failed to save token", err, nil)
		return fmt.Errorf("failed to save token: %w", err)
	}
	repoLogger.Debug("Token saved.", nil)
	return nil
}

func (r *PostgresTokenRepository) Delete(ctx context.Context, sessionID string) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresTokenRepository",
		"method":     "Delete",
		"session_id": sessionID,
	})

	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM session_tokens WHERE session_id = $1`, sessionID)
	if err != nil {
		repoLogger.Error("Failed to delete token", err, nil)
		return fmt.Errorf("failed to delete token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Debug("No token to delete.", nil)
	}
	return nil
}
