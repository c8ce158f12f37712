package domain

import "errors"

// ValidationError descreve campo inválido com mensagem pronta para o usuário.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid cria um ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation extrai ValidationError da cadeia de erros.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func wrapField(field string, err error) error {
	if err == nil {
		return nil
	}
	return Invalid(field, err.Error())
}
