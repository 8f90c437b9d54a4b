package service

import (
	"log/slog"

	"github.com/NazarChaban/RestAPI-app/internal/mailer"
	"github.com/NazarChaban/RestAPI-app/internal/repository"
	"github.com/NazarChaban/RestAPI-app/internal/token"
)

type Services struct {
	Auth    *AuthService
	User    *UserService
	Contact *ContactService
}

func NewServices(repos *repository.Repositories, tokens *token.Manager, mail mailer.Publisher, avatars AvatarStore, log *slog.Logger) *Services {
	hasher := NewPasswordHasher()
	return &Services{
		Auth:    NewAuthService(repos.User, tokens, hasher, mail, log),
		User:    NewUserService(repos.User, avatars, log),
		Contact: NewContactService(repos.Contact),
	}
}
