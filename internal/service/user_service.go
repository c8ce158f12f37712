package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/agiseventos/agenda/internal/auth"
	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/storage"
	"github.com/agiseventos/agenda/internal/store"
)

// MaxAvatarSize limita o tamanho da imagem de perfil.
const MaxAvatarSize = 5 << 20

// UserService expõe consulta e edição de perfis.
type UserService struct {
	store    store.Users
	uploader storage.Uploader
}

func NewUserService(users store.Users, uploader storage.Uploader) *UserService {
	if uploader == nil {
		uploader = storage.NoopUploader{}
	}
	return &UserService{store: users, uploader: uploader}
}

// AvatarsEnabled indica se há backend para imagens de perfil.
func (s *UserService) AvatarsEnabled() bool {
	return storage.Enabled(s.uploader)
}

// UserFilter restringe a listagem de usuários.
type UserFilter struct {
	Type       string
	ActiveOnly bool
}

func (s *UserService) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	var (
		users []domain.User
		err   error
	)
	if filter.Type != "" {
		users, err = s.store.ListUsersByType(ctx, strings.ToLower(filter.Type))
	} else {
		users, err = s.store.ListUsers(ctx)
	}
	if err != nil || !filter.ActiveOnly {
		return users, err
	}

	active := users[:0:0]
	for _, u := range users {
		if u.IsActive {
			active = append(active, u)
		}
	}
	return active, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// Update aplica alteração parcial. Tipo e status de ativação só mudam por admin.
func (s *UserService) Update(ctx context.Context, actor domain.User, id int64, patch domain.UserPatch) (domain.User, error) {
	if err := RequireOwnerOrAdmin(actor, id); err != nil {
		return domain.User{}, err
	}
	if !actor.IsAdmin() && (patch.UserType != nil || patch.IsActive != nil) {
		return domain.User{}, ErrForbidden
	}
	if err := patch.Validate(); err != nil {
		return domain.User{}, err
	}

	var passwordHash *string
	if patch.Password != nil {
		hash, err := auth.Hash(*patch.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash senha: %w", err)
		}
		passwordHash = &hash
	}

	return s.store.UpdateUser(ctx, id, patch.Changes(passwordHash))
}

// AvatarUpload descreve o arquivo enviado como imagem de perfil.
type AvatarUpload struct {
	Filename string
	Body     []byte
}

// SetProfileImage envia a imagem ao storage e grava a URL no perfil.
func (s *UserService) SetProfileImage(ctx context.Context, actor domain.User, id int64, upload AvatarUpload) (domain.User, error) {
	if err := RequireOwnerOrAdmin(actor, id); err != nil {
		return domain.User{}, err
	}
	if len(upload.Body) == 0 {
		return domain.User{}, domain.Invalid("file", "Arquivo é obrigatório")
	}
	if len(upload.Body) > MaxAvatarSize {
		return domain.User{}, domain.Invalid("file", "Arquivo excede o tamanho máximo")
	}
	contentType := http.DetectContentType(upload.Body)
	if !strings.HasPrefix(contentType, "image/") {
		return domain.User{}, domain.Invalid("file", "Arquivo deve ser uma imagem")
	}

	if _, err := s.store.GetUser(ctx, id); err != nil {
		return domain.User{}, err
	}

	res, err := s.uploader.Upload(ctx, storage.UploadInput{
		Key:          storage.ObjectKey(id, uuid.NewString(), upload.Filename),
		Body:         upload.Body,
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000",
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("upload avatar: %w", err)
	}

	url := res.URL
	return s.store.UpdateUser(ctx, id, domain.UserChanges{ProfileImage: &url})
}
