package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader grava arquivos em disco e devolve URL sob PublicURL.
type LocalUploader struct {
	dir       string
	publicURL string
}

func NewLocalUploader(dir, publicURL string) (*LocalUploader, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage: diretório de upload ausente")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalUploader{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (u *LocalUploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := filepath.Clean(filepath.FromSlash(strings.TrimLeft(input.Key, "/")))
	if strings.HasPrefix(key, "..") {
		return nil, errors.New("storage: chave inválida")
	}
	target := filepath.Join(u.dir, key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(target, input.Body, 0o644); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(input.Body)
	return &UploadResult{
		URL:  u.publicURL + "/" + filepath.ToSlash(key),
		ETag: hex.EncodeToString(sum[:8]),
	}, nil
}

func validateInput(input UploadInput) error {
	if strings.TrimSpace(input.Key) == "" {
		return errors.New("storage: chave do objeto obrigatória")
	}
	if len(input.Body) == 0 {
		return errors.New("storage: corpo vazio")
	}
	return nil
}
