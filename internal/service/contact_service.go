package service

import (
	"context"
	"errors"
	"time"

	"github.com/NazarChaban/RestAPI-app/internal/domain"
	"github.com/NazarChaban/RestAPI-app/internal/repository"
	"github.com/google/uuid"
)

var ErrNoSearchFilter = errors.New("at least one search filter must be provided")

// BirthdayWindowDays is how far ahead the upcoming-birthdays query looks.
const BirthdayWindowDays = 7

type ContactService struct {
	contacts repository.ContactRepository
}

func NewContactService(contacts repository.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

type ContactInput struct {
	Name      string
	Surname   string
	Email     string
	Phone     string
	BirthDate time.Time
	Note      string
}

// ContactPatch carries a partial update; nil fields are left unchanged.
type ContactPatch struct {
	Name    *string
	Surname *string
	Email   *string
	Phone   *string
	Note    *string
}

func (s *ContactService) Create(ctx context.Context, userID uuid.UUID, input ContactInput) (*domain.Contact, error) {
	now := time.Now()
	contact := &domain.Contact{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      input.Name,
		Surname:   input.Surname,
		Email:     input.Email,
		Phone:     input.Phone,
		BirthDate: input.BirthDate,
		Note:      input.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Contact, error) {
	return s.contacts.GetByID(ctx, userID, id)
}

func (s *ContactService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Contact, error) {
	return s.contacts.ListByUser(ctx, userID, limit, offset)
}

func (s *ContactService) Search(ctx context.Context, userID uuid.UUID, filter repository.ContactSearch) ([]*domain.Contact, error) {
	if filter.Name == "" && filter.Surname == "" && filter.Email == "" {
		return nil, ErrNoSearchFilter
	}
	return s.contacts.Search(ctx, userID, filter)
}

// Update replaces every field of the contact.
func (s *ContactService) Update(ctx context.Context, userID, id uuid.UUID, input ContactInput) (*domain.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	contact.Name = input.Name
	contact.Surname = input.Surname
	contact.Email = input.Email
	contact.Phone = input.Phone
	contact.BirthDate = input.BirthDate
	contact.Note = input.Note

	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// UpdateFields applies a partial update, leaving nil fields untouched.
func (s *ContactService) UpdateFields(ctx context.Context, userID, id uuid.UUID, patch ContactPatch) (*domain.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		contact.Name = *patch.Name
	}
	if patch.Surname != nil {
		contact.Surname = *patch.Surname
	}
	if patch.Email != nil {
		contact.Email = *patch.Email
	}
	if patch.Phone != nil {
		contact.Phone = *patch.Phone
	}
	if patch.Note != nil {
		contact.Note = *patch.Note
	}

	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.contacts.Delete(ctx, userID, id)
}

// UpcomingBirthdays returns the user's contacts whose next birthday falls
// within the next BirthdayWindowDays days, starting from now. The window
// wraps across New Year.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Contact, error) {
	all, err := s.contacts.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}

	end := now.AddDate(0, 0, BirthdayWindowDays)
	upcoming := make([]*domain.Contact, 0)
	for _, c := range all {
		if !c.NextBirthday(now).After(end) {
			upcoming = append(upcoming, c)
		}
	}
	return upcoming, nil
}
