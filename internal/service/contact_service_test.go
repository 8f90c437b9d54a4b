package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/NazarChaban/RestAPI-app/internal/domain"
	"github.com/NazarChaban/RestAPI-app/internal/repository"
	"github.com/NazarChaban/RestAPI-app/internal/service"
	"github.com/NazarChaban/RestAPI-app/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func seedContact(t *testing.T, svc *service.ContactService, userID uuid.UUID, name string, birthDate time.Time) *domain.Contact {
	t.Helper()

	contact, err := svc.Create(context.Background(), userID, service.ContactInput{
		Name:      name,
		Surname:   "Tester",
		Email:     name + "@contacts.test",
		Phone:     "+380501234567",
		BirthDate: birthDate,
	})
	require.NoError(t, err)
	return contact
}

func TestContactService_OwnershipScoping(t *testing.T) {
	ctx := context.Background()
	svc := service.NewContactService(testutil.NewMemoryContactRepository())

	owner := uuid.New()
	stranger := uuid.New()

	contact := seedContact(t, svc, owner, "alice", date(1990, time.May, 10))

	_, err := svc.Get(ctx, stranger, contact.ID)
	assert.ErrorIs(t, err, domain.ErrContactNotFound)

	err = svc.Delete(ctx, stranger, contact.ID)
	assert.ErrorIs(t, err, domain.ErrContactNotFound)

	_, err = svc.Update(ctx, stranger, contact.ID, service.ContactInput{Name: "mallory"})
	assert.ErrorIs(t, err, domain.ErrContactNotFound)

	// The owner still sees the untouched contact.
	got, err := svc.Get(ctx, owner, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
}

func TestContactService_ListPagination(t *testing.T) {
	ctx := context.Background()
	svc := service.NewContactService(testutil.NewMemoryContactRepository())
	userID := uuid.New()

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		seedContact(t, svc, userID, name, date(1990, time.January, 1))
		time.Sleep(time.Millisecond)
	}

	page, err := svc.List(ctx, userID, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].Name)
	assert.Equal(t, "c", page[1].Name)

	all, err := svc.List(ctx, userID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestContactService_Search(t *testing.T) {
	ctx := context.Background()
	svc := service.NewContactService(testutil.NewMemoryContactRepository())
	userID := uuid.New()

	seedContact(t, svc, userID, "alice", date(1990, time.May, 10))
	seedContact(t, svc, userID, "bob", date(1985, time.June, 20))

	t.Run("empty filter rejected", func(t *testing.T) {
		_, err := svc.Search(ctx, userID, repository.ContactSearch{})
		assert.ErrorIs(t, err, service.ErrNoSearchFilter)
	})

	t.Run("match by name", func(t *testing.T) {
		found, err := svc.Search(ctx, userID, repository.ContactSearch{Name: "alice"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "alice", found[0].Name)
	})

	t.Run("no match", func(t *testing.T) {
		found, err := svc.Search(ctx, userID, repository.ContactSearch{Name: "nobody"})
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestContactService_UpdateFields(t *testing.T) {
	ctx := context.Background()
	svc := service.NewContactService(testutil.NewMemoryContactRepository())
	userID := uuid.New()

	contact := seedContact(t, svc, userID, "alice", date(1990, time.May, 10))

	newPhone := "+380509999999"
	updated, err := svc.UpdateFields(ctx, userID, contact.ID, service.ContactPatch{Phone: &newPhone})
	require.NoError(t, err)

	// Only the provided field changes.
	assert.Equal(t, newPhone, updated.Phone)
	assert.Equal(t, contact.Name, updated.Name)
	assert.Equal(t, contact.Email, updated.Email)

	empty := ""
	updated, err = svc.UpdateFields(ctx, userID, contact.ID, service.ContactPatch{Note: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Note)
	assert.Equal(t, newPhone, updated.Phone)
}

func TestContactService_UpcomingBirthdays(t *testing.T) {
	ctx := context.Background()
	svc := service.NewContactService(testutil.NewMemoryContactRepository())
	userID := uuid.New()

	now := date(2023, time.December, 28)

	inWindow := seedContact(t, svc, userID, "tomorrow", date(1990, time.December, 29))
	wrapped := seedContact(t, svc, userID, "newyear", date(1988, time.January, 2))
	today := seedContact(t, svc, userID, "today", date(1995, time.December, 28))
	seedContact(t, svc, userID, "toolate", date(1992, time.January, 15))
	seedContact(t, svc, userID, "passed", date(1991, time.December, 20))

	// Another user's contact never leaks into the window.
	seedContact(t, svc, uuid.New(), "other", date(1990, time.December, 29))

	upcoming, err := svc.UpcomingBirthdays(ctx, userID, now)
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(upcoming))
	for _, c := range upcoming {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{inWindow.ID, wrapped.ID, today.ID}, ids)
}

func TestContactService_UpcomingBirthdaysLeapDay(t *testing.T) {
	ctx := context.Background()
	svc := service.NewContactService(testutil.NewMemoryContactRepository())
	userID := uuid.New()

	leap := seedContact(t, svc, userID, "leapling", date(1996, time.February, 29))

	// 2023 has no Feb 29; the birthday lands on Mar 1.
	upcoming, err := svc.UpcomingBirthdays(ctx, userID, date(2023, time.February, 27))
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, leap.ID, upcoming[0].ID)

	upcoming, err = svc.UpcomingBirthdays(ctx, userID, date(2023, time.March, 2))
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}
