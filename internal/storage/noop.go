package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured indica que UPLOAD_PROVIDER não aponta para nenhum backend.
var ErrNotConfigured = errors.New("storage: uploader não configurado")

// NoopUploader recusa todo upload; é o padrão quando UPLOAD_PROVIDER=noop.
type NoopUploader struct{}

func (NoopUploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotConfigured, input.Key)
}

// Enabled indica se u grava os arquivos de fato.
func Enabled(u Uploader) bool {
	switch u.(type) {
	case nil, NoopUploader, *NoopUploader:
		return false
	default:
		return true
	}
}
