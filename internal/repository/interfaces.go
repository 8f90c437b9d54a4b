package repository

import (
	"context"

	"github.com/NazarChaban/RestAPI-app/internal/domain"
	"github.com/google/uuid"
)

// UserRepository is the credential store. Create must rely on the storage
// layer's unique constraints for username and email so that two concurrent
// signups with the same identity cannot both succeed; a duplicate surfaces as
// domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByUsernameOrEmail resolves a login identifier that may be either key.
	// The email candidate is compared after lowercase normalization, matching
	// how Create stores emails; the username candidate is compared exactly.
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	// SetConfirmed is idempotent: confirming an already-confirmed user is a no-op.
	SetConfirmed(ctx context.Context, id uuid.UUID) error
	SetAvatar(ctx context.Context, id uuid.UUID, url string) error
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error
}

// ContactSearch holds the exact-match filters for contact lookup. Zero-valued
// fields are ignored.
type ContactSearch struct {
	Name    string
	Surname string
	Email   string
}

type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Contact, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Contact, error)
	Search(ctx context.Context, userID uuid.UUID, filter ContactSearch) ([]*domain.Contact, error)
	Update(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type Repositories struct {
	User    UserRepository
	Contact ContactRepository
}
