// Package storage envia imagens de perfil para o backend configurado.
package storage

import (
	"context"
	"path"
	"strconv"
	"strings"
)

// UploadInput representa uma operação de upload simples.
type UploadInput struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

// UploadResult descreve o artefato persistido.
type UploadResult struct {
	URL  string
	ETag string
}

// Uploader define comportamento básico para armazenar blobs.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}

// ObjectKey monta a chave avatars/<userID>/<nome> a partir do nome original.
func ObjectKey(userID int64, id, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("avatars", strconv.FormatInt(userID, 10), id+ext)
}
