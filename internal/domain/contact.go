package domain

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Surname   string    `json:"surname" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null"`
	Phone     string    `json:"phoneNumber" gorm:"not null"`
	BirthDate time.Time `json:"birthDate" gorm:"not null"`
	Note      string    `json:"additionalInfo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NextBirthday returns the next occurrence of the contact's birthday on or
// after the given day. A Feb 29 birth date counts as Mar 1 in non-leap years.
func (c Contact) NextBirthday(after time.Time) time.Time {
	after = time.Date(after.Year(), after.Month(), after.Day(), 0, 0, 0, 0, after.Location())
	next := time.Date(after.Year(), c.BirthDate.Month(), c.BirthDate.Day(), 0, 0, 0, 0, after.Location())
	if next.Before(after) {
		next = time.Date(after.Year()+1, c.BirthDate.Month(), c.BirthDate.Day(), 0, 0, 0, 0, after.Location())
	}
	return next
}
