package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/NazarChaban/RestAPI-app/internal/domain"
	"github.com/NazarChaban/RestAPI-app/internal/repository"
	"github.com/google/uuid"
)

// MemoryUserRepository is an in-memory credential store with the same
// uniqueness semantics as the postgres implementation: Create checks and
// inserts under one lock, so concurrent signups with the same identity see
// exactly one success.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return domain.ErrUserExists
		}
	}

	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *MemoryUserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(identifier)
	for _, u := range r.users {
		if u.Username == identifier || u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *MemoryUserRepository) SetConfirmed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		u.Confirmed = true
	}
	return nil
}

func (r *MemoryUserRepository) SetAvatar(ctx context.Context, id uuid.UUID, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		u.AvatarURL = url
	}
	return nil
}

func (r *MemoryUserRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		u.RefreshToken = token
	}
	return nil
}

// MemoryContactRepository mirrors the postgres contact repository, including
// owner scoping on every lookup.
type MemoryContactRepository struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]*domain.Contact
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{contacts: make(map[uuid.UUID]*domain.Contact)}
}

func (r *MemoryContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *contact
	r.contacts[contact.ID] = &cp
	return nil
}

func (r *MemoryContactRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.contacts[id]; ok && c.UserID == userID {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrContactNotFound
}

func (r *MemoryContactRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var owned []*domain.Contact
	for _, c := range r.contacts {
		if c.UserID == userID {
			cp := *c
			owned = append(owned, &cp)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.Before(owned[j].CreatedAt) })

	if offset > len(owned) {
		offset = len(owned)
	}
	owned = owned[offset:]
	if limit > 0 && limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (r *MemoryContactRepository) Search(ctx context.Context, userID uuid.UUID, filter repository.ContactSearch) ([]*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := make([]*domain.Contact, 0)
	for _, c := range r.contacts {
		if c.UserID != userID {
			continue
		}
		if filter.Name != "" && c.Name != filter.Name {
			continue
		}
		if filter.Surname != "" && c.Surname != filter.Surname {
			continue
		}
		if filter.Email != "" && c.Email != filter.Email {
			continue
		}
		cp := *c
		matches = append(matches, &cp)
	}
	return matches, nil
}

func (r *MemoryContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.contacts[contact.ID]; ok && c.UserID == contact.UserID {
		cp := *contact
		r.contacts[contact.ID] = &cp
		return nil
	}
	return domain.ErrContactNotFound
}

func (r *MemoryContactRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.contacts[id]; ok && c.UserID == userID {
		delete(r.contacts, id)
		return nil
	}
	return domain.ErrContactNotFound
}
