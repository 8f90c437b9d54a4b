package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/NazarChaban/RestAPI-app/internal/domain"
	"github.com/NazarChaban/RestAPI-app/internal/repository"
)

// AvatarStore is the blob store avatars are uploaded to. Upload returns the
// public URL of the stored object.
type AvatarStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type UserService struct {
	users   repository.UserRepository
	avatars AvatarStore
	log     *slog.Logger
}

func NewUserService(users repository.UserRepository, avatars AvatarStore, log *slog.Logger) *UserService {
	return &UserService{users: users, avatars: avatars, log: log}
}

// UpdateAvatar uploads the image and points the user's avatar URL at it. The
// object key is derived from the username, so a re-upload overwrites the
// previous avatar instead of accumulating objects.
func (s *UserService) UpdateAvatar(ctx context.Context, user *domain.User, file io.Reader, contentType string) (*domain.User, error) {
	key := fmt.Sprintf("avatars/%s", user.Username)

	url, err := s.avatars.Upload(ctx, key, file, contentType)
	if err != nil {
		return nil, fmt.Errorf("uploading avatar: %w", err)
	}

	if err := s.users.SetAvatar(ctx, user.ID, url); err != nil {
		return nil, err
	}

	user.AvatarURL = url
	return user, nil
}
