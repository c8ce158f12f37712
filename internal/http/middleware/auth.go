package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/agiseventos/agenda/internal/auth"
	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/service"
	"github.com/agiseventos/agenda/internal/session"
)

type contextKey string

const (
	ContextKeyUser  contextKey = "user"
	ContextKeyToken contextKey = "token"
)

// Authenticator resolve um token bearer para o usuário da sessão.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.User, error)
}

// Auth valida o token de sessão e injeta o usuário no contexto.
func Auth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, "AUTH", "Token de acesso necessário")
				return
			}

			user, err := authenticator.Authenticate(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, session.ErrNotFound):
				writeError(w, http.StatusUnauthorized, "AUTH", "Token inválido")
				return
			case errors.Is(err, service.ErrAccountDisabled):
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Conta desativada")
				return
			default:
				log.Error().Err(err).Msg("auth: falha ao validar sessão")
				writeError(w, http.StatusInternalServerError, "INTERNAL", "erro ao validar sessão")
				return
			}

			annotateUser(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, token)))
		})
	}
}

// WithUser injeta usuário autenticado e token no contexto.
func WithUser(ctx context.Context, user domain.User, token string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUser, user)
	return context.WithValue(ctx, ContextKeyToken, token)
}

// GetUser recupera o usuário autenticado do contexto.
func GetUser(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(domain.User)
	return user, ok
}

// GetToken recupera o token da sessão atual.
func GetToken(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyToken).(string)
	return val
}

// RequireAdmin garante que o usuário autenticado é administrador.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireUserType(domain.UserTypeAdmin)(next)
}

// RequireUserType garante que o usuário possua um dos tipos informados.
func RequireUserType(types ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "AUTH", "Token de acesso necessário")
				return
			}
			for _, t := range types {
				if user.UserType == t {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Acesso negado")
		})
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
