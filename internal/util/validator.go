package util

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength é o tamanho mínimo aceito para senhas.
const MinPasswordLength = 6

// ValidateEmail retorna erro para e-mails inválidos.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("Email é obrigatório")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("Email inválido")
	}
	return nil
}

// ValidatePassword verifica requisitos mínimos de senha.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("Senha é obrigatória")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return errors.New("Senha deve ter pelo menos 6 caracteres")
	}
	return nil
}

// RequireString garante string não vazia.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(field + " é obrigatório")
	}
	return nil
}

// MaxLength limita o tamanho de campos texto (em caracteres).
func MaxLength(value, field string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return errors.New(field + " excede o tamanho máximo")
	}
	return nil
}

// TrimPtr remove espaços de um ponteiro opcional; string vazia vira nil.
func TrimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
