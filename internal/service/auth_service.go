package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/agiseventos/agenda/internal/auth"
	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/session"
	"github.com/agiseventos/agenda/internal/store"
)

var (
	// ErrInvalidCredentials indica falha na autenticação.
	ErrInvalidCredentials = errors.New("email ou senha inválidos")
	// ErrAccountDisabled indica conta desativada.
	ErrAccountDisabled = errors.New("conta desativada")
)

// AuthService concentra login, cadastro e sessões.
type AuthService struct {
	users    store.Users
	sessions session.Store
}

// NewAuthService cria novo serviço.
func NewAuthService(users store.Users, sessions session.Store) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// AuthResult é o retorno de login e cadastro.
type AuthResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Login autentica por email e senha e emite novo token.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*AuthResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn().Msg("login: usuário não encontrado")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(creds.Password, user.PasswordHash)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("login: verify password failed")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn().Int64("user_id", user.ID).Msg("login: senha inválida")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	if auth.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, creds.Password)
	}

	return s.issue(ctx, user)
}

// Register cria usuário e já devolve sessão autenticada.
func (s *AuthService) Register(ctx context.Context, in domain.NewUser) (*AuthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, store.ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash senha: %w", err)
	}

	user, err := s.users.CreateUser(ctx, in.User(hash))
	if err != nil {
		return nil, err
	}
	log.Info().Int64("user_id", user.ID).Str("user_type", user.UserType).Msg("usuário cadastrado")

	return s.issue(ctx, user)
}

// Authenticate resolve o token para o usuário atual, relido do store.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.GetUser(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, session.ErrNotFound
		}
		return domain.User{}, err
	}
	if !user.IsActive {
		return domain.User{}, ErrAccountDisabled
	}
	return user, nil
}

// Logout revoga o token informado.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func (s *AuthService) issue(ctx context.Context, user domain.User) (*AuthResult, error) {
	token, _, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("criar sessão: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// rehash regrava o hash com os parâmetros atuais; falha não impede o login.
func (s *AuthService) rehash(ctx context.Context, userID int64, password string) {
	hash, err := auth.Hash(password)
	if err == nil {
		_, err = s.users.UpdateUser(ctx, userID, domain.UserChanges{PasswordHash: &hash})
	}
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("login: falha ao atualizar hash da senha")
	}
}
