// Package session mantém o mapeamento token → usuário autenticado.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/agiseventos/agenda/internal/auth"
)

// ErrNotFound indica token desconhecido, revogado ou expirado.
var ErrNotFound = errors.New("sessão inválida")

// Session associa um token a um usuário.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store guarda sessões indexadas pelo hash do token.
type Store interface {
	// Create emite novo token para o usuário.
	Create(ctx context.Context, userID int64) (string, Session, error)
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
	// Clear revoga todas as sessões.
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

func newSession(userID int64, now time.Time) (raw, hash string, sess Session, err error) {
	raw, hash, err = auth.NewSessionToken()
	if err != nil {
		return "", "", Session{}, err
	}
	return raw, hash, Session{ID: uuid.New(), UserID: userID, CreatedAt: now}, nil
}
