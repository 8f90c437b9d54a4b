package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/NazarChaban/RestAPI-app/internal/domain"
	"github.com/NazarChaban/RestAPI-app/internal/service"
	"github.com/NazarChaban/RestAPI-app/internal/testutil"
	"github.com/NazarChaban/RestAPI-app/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*service.AuthService, *testutil.MemoryUserRepository, *testutil.RecordingPublisher, *token.Manager) {
	t.Helper()

	users := testutil.NewMemoryUserRepository()
	mail := &testutil.RecordingPublisher{}
	tokens := token.NewManager([]byte("test-secret"), token.TTL{
		Access:  15 * time.Minute,
		Refresh: 7 * 24 * time.Hour,
		Email:   24 * time.Hour,
	})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := service.NewAuthService(users, tokens, service.NewPasswordHasher(), mail, log)
	return svc, users, mail, tokens
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates unconfirmed user and queues confirmation email", func(t *testing.T) {
		svc, _, mail, _ := newAuthService(t)

		user, err := svc.Signup(ctx, service.SignupInput{
			Username: "test",
			Email:    "test@api.com",
			Password: "123456789",
		})
		require.NoError(t, err)

		assert.Equal(t, "test", user.Username)
		assert.Equal(t, "test@api.com", user.Email)
		assert.False(t, user.Confirmed)
		assert.NotEqual(t, "123456789", user.PasswordHash)

		sent := mail.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "test@api.com", sent[0].Email)
		assert.Equal(t, "test", sent[0].Username)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc, _, _, _ := newAuthService(t)

		_, err := svc.Signup(ctx, service.SignupInput{Username: "first", Email: "dup@api.com", Password: "pw123456"})
		require.NoError(t, err)

		_, err = svc.Signup(ctx, service.SignupInput{Username: "second", Email: "dup@api.com", Password: "pw123456"})
		assert.ErrorIs(t, err, domain.ErrUserExists)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		svc, _, _, _ := newAuthService(t)

		_, err := svc.Signup(ctx, service.SignupInput{Username: "dup", Email: "first@api.com", Password: "pw123456"})
		require.NoError(t, err)

		_, err = svc.Signup(ctx, service.SignupInput{Username: "dup", Email: "second@api.com", Password: "pw123456"})
		assert.ErrorIs(t, err, domain.ErrUserExists)
	})

	t.Run("publisher failure does not fail signup", func(t *testing.T) {
		svc, users, mail, _ := newAuthService(t)
		mail.Err = errors.New("broker down")

		user, err := svc.Signup(ctx, service.SignupInput{Username: "test", Email: "test@api.com", Password: "pw123456"})
		require.NoError(t, err)

		stored, err := users.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})
}

func TestAuthService_ConcurrentSignupSameEmail(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	ctx := context.Background()

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Signup(ctx, service.SignupInput{
				Username: "racer",
				Email:    "race@api.com",
				Password: "pw123456",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrUserExists)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent signup must win")
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, users, _, _ := newAuthService(t)

	user, password := testutil.NewUserBuilder().
		WithUsername("loginuser").
		WithEmail("login@api.com").
		WithPassword("correctpassword").
		Build(t, users)

	unconfirmed, unconfirmedPassword := testutil.NewUserBuilder().
		WithUsername("pending").
		WithEmail("pending@api.com").
		Unconfirmed().
		Build(t, users)

	tests := []struct {
		name       string
		identifier string
		password   string
		wantErr    error
	}{
		{"login by username", user.Username, password, nil},
		{"login by email", user.Email, password, nil},
		{"login by mixed-case email", "Login@API.com", password, nil},
		{"wrong password", user.Username, "wrongpassword", service.ErrInvalidCredentials},
		{"unknown identifier", "nobody@api.com", password, service.ErrInvalidCredentials},
		{"unconfirmed email", unconfirmed.Username, unconfirmedPassword, service.ErrNotConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := svc.Login(ctx, tt.identifier, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, pair.AccessToken)
			assert.NotEmpty(t, pair.RefreshToken)
		})
	}
}

func TestAuthService_RefreshRotation(t *testing.T) {
	ctx := context.Background()
	svc, users, _, tokens := newAuthService(t)

	user, password := testutil.NewUserBuilder().WithEmail("rotate@api.com").Build(t, users)

	pair, err := svc.Login(ctx, user.Username, password)
	require.NoError(t, err)

	// The issued refresh token works once.
	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// Replaying the first token fails and revokes the stored one.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	stored, err := users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)

	// An access token is never accepted in place of a refresh token.
	access, err := tokens.Issue(user.Email, token.KindAccess)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, access)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, users, _, tokens := newAuthService(t)

	user, _ := testutil.NewUserBuilder().WithEmail("auth@api.com").Build(t, users)

	t.Run("valid access token resolves user", func(t *testing.T) {
		access, err := tokens.Issue(user.Email, token.KindAccess)
		require.NoError(t, err)

		resolved, err := svc.Authenticate(ctx, access)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
	})

	t.Run("refresh token rejected for access", func(t *testing.T) {
		refresh, err := tokens.Issue(user.Email, token.KindRefresh)
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, refresh)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("unknown subject rejected", func(t *testing.T) {
		access, err := tokens.Issue("ghost@api.com", token.KindAccess)
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, access)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("expired access token rejected", func(t *testing.T) {
		expired := token.NewManager([]byte("test-secret"), token.TTL{Access: -time.Minute})
		access, err := expired.Issue(user.Email, token.KindAccess)
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, access)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})
}

func TestAuthService_ConfirmEmail(t *testing.T) {
	ctx := context.Background()
	svc, users, _, tokens := newAuthService(t)

	user, _ := testutil.NewUserBuilder().WithEmail("confirm@api.com").Unconfirmed().Build(t, users)

	confirmation, err := tokens.Issue(user.Email, token.KindEmail)
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmEmail(ctx, confirmation))

	stored, err := users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.True(t, stored.Confirmed)

	// Replaying a live token is harmless.
	require.NoError(t, svc.ConfirmEmail(ctx, confirmation))
	stored, err = users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.True(t, stored.Confirmed)

	t.Run("access token rejected", func(t *testing.T) {
		access, err := tokens.Issue(user.Email, token.KindAccess)
		require.NoError(t, err)
		assert.ErrorIs(t, svc.ConfirmEmail(ctx, access), service.ErrInvalidToken)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		assert.ErrorIs(t, svc.ConfirmEmail(ctx, "garbage"), service.ErrInvalidToken)
	})

	t.Run("unknown subject rejected", func(t *testing.T) {
		confirmation, err := tokens.Issue("ghost@api.com", token.KindEmail)
		require.NoError(t, err)
		assert.ErrorIs(t, svc.ConfirmEmail(ctx, confirmation), service.ErrInvalidToken)
	})
}

func TestAuthService_RequestConfirmation(t *testing.T) {
	ctx := context.Background()
	svc, users, mail, _ := newAuthService(t)

	unconfirmed, _ := testutil.NewUserBuilder().WithEmail("pending@api.com").Unconfirmed().Build(t, users)
	confirmed, _ := testutil.NewUserBuilder().WithEmail("done@api.com").Build(t, users)

	// Unknown address succeeds without queueing anything.
	require.NoError(t, svc.RequestConfirmation(ctx, "nobody@api.com"))
	assert.Empty(t, mail.Sent())

	// Already confirmed: nothing to do.
	require.NoError(t, svc.RequestConfirmation(ctx, confirmed.Email))
	assert.Empty(t, mail.Sent())

	// Unconfirmed user gets a fresh email queued.
	require.NoError(t, svc.RequestConfirmation(ctx, unconfirmed.Email))
	sent := mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, unconfirmed.Email, sent[0].Email)
}
