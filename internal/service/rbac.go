package service

import (
	"errors"

	"github.com/agiseventos/agenda/internal/domain"
)

var (
	// ErrForbidden indica ausência de permissão.
	ErrForbidden = errors.New("acesso negado")
)

// RequireAdmin libera apenas administradores.
func RequireAdmin(actor domain.User) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// RequireOwnerOrAdmin libera o dono do recurso ou administradores.
func RequireOwnerOrAdmin(actor domain.User, ownerID int64) error {
	if !actor.CanManage(ownerID) {
		return ErrForbidden
	}
	return nil
}

// RequireParticipantOrAdmin libera participantes da reunião ou administradores.
func RequireParticipantOrAdmin(actor domain.User, m domain.Meeting) error {
	if actor.IsAdmin() || m.HasParticipant(actor.ID) {
		return nil
	}
	return ErrForbidden
}
