package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/NazarChaban/RestAPI-app/internal/domain"
	"github.com/NazarChaban/RestAPI-app/internal/mailer"
	"github.com/NazarChaban/RestAPI-app/internal/repository"
	"github.com/NazarChaban/RestAPI-app/internal/token"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotConfirmed       = errors.New("email is not confirmed")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type AuthService struct {
	users  repository.UserRepository
	tokens *token.Manager
	hasher *PasswordHasher
	mail   mailer.Publisher
	log    *slog.Logger
}

func NewAuthService(users repository.UserRepository, tokens *token.Manager, hasher *PasswordHasher, mail mailer.Publisher, log *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		mail:   mail,
		log:    log,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Signup creates an unconfirmed user and queues a confirmation email.
// Uniqueness of username and email is enforced by the credential store, not
// checked here first, so concurrent signups with the same identity cannot
// both succeed. A failed email publish is logged but does not fail the
// signup; confirmation can be re-requested later.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publishConfirmation(ctx, user)

	return user, nil
}

// Login authenticates by username or email. Unknown identifier and wrong
// password are indistinguishable to the caller; an unconfirmed email is
// reported separately so the client can prompt for confirmation.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.Confirmed {
		return nil, ErrNotConfirmed
	}

	return s.issuePair(ctx, user)
}

// Refresh exchanges a refresh token for a new token pair. Refresh tokens are
// single-use: only the last issued one is accepted, and presenting any other
// revokes the stored one so a stolen copy cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	email, err := s.tokens.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if user.RefreshToken != refreshToken {
		if err := s.users.SetRefreshToken(ctx, user.ID, ""); err != nil {
			s.log.Error("failed to revoke refresh token", "user_id", user.ID, "error", err)
		}
		return nil, ErrInvalidToken
	}

	return s.issuePair(ctx, user)
}

// Authenticate verifies an access token and resolves it to the user it was
// issued for. Any token defect or an unknown subject yields ErrInvalidToken;
// the caller must not reveal which.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	email, err := s.tokens.Verify(accessToken, token.KindAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}

// ConfirmEmail marks the token's subject as confirmed. Confirming an already
// confirmed user is a no-op, so replaying a live token is harmless.
func (s *AuthService) ConfirmEmail(ctx context.Context, confirmationToken string) error {
	email, err := s.tokens.Verify(confirmationToken, token.KindEmail)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	if user.Confirmed {
		return nil
	}

	return s.users.SetConfirmed(ctx, user.ID)
}

// RequestConfirmation re-queues the confirmation email. It reports success
// for unknown addresses and already-confirmed users alike, so callers cannot
// probe which emails have accounts.
func (s *AuthService) RequestConfirmation(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	if user.Confirmed {
		return nil
	}

	s.publishConfirmation(ctx, user)
	return nil
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.tokens.Issue(user.Email, token.KindAccess)
	if err != nil {
		return nil, err
	}

	refresh, err := s.tokens.Issue(user.Email, token.KindRefresh)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) publishConfirmation(ctx context.Context, user *domain.User) {
	err := s.mail.PublishConfirmation(ctx, mailer.ConfirmationEmail{
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		s.log.Error("failed to queue confirmation email", "email", user.Email, "error", err)
	}
}
