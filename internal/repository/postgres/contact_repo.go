package postgres

import (
	"context"
	"errors"

	"github.com/NazarChaban/RestAPI-app/internal/domain"
	"github.com/NazarChaban/RestAPI-app/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *contactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Contact, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at")
	// limit <= 0 means no paging
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var contacts []*domain.Contact
	if err := q.Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepository) Search(ctx context.Context, userID uuid.UUID, filter repository.ContactSearch) ([]*domain.Contact, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Name != "" {
		q = q.Where("name = ?", filter.Name)
	}
	if filter.Surname != "" {
		q = q.Where("surname = ?", filter.Surname)
	}
	if filter.Email != "" {
		q = q.Where("email = ?", filter.Email)
	}

	var contacts []*domain.Contact
	if err := q.Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Contact{}).
		Where("id = ? AND user_id = ?", contact.ID, contact.UserID).
		Select("name", "surname", "email", "phone", "birth_date", "note").
		Updates(contact)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r *contactRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}
