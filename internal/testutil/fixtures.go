package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/NazarChaban/RestAPI-app/internal/domain"
	"github.com/NazarChaban/RestAPI-app/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// UserBuilder creates test users with a builder pattern.
type UserBuilder struct {
	username  string
	email     string
	password  string
	confirmed bool
}

func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username:  fmt.Sprintf("testuser_%s", suffix),
		email:     fmt.Sprintf("testuser_%s@api.com", suffix),
		password:  "testpassword123",
		confirmed: true,
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) Unconfirmed() *UserBuilder {
	b.confirmed = false
	return b
}

// Build creates the user in the repository and returns it along with the raw
// password.
func (b *UserBuilder) Build(t *testing.T, users repository.UserRepository) (*domain.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	require.NoError(t, err, "failed to hash password")

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		Email:        b.email,
		PasswordHash: string(hash),
		Confirmed:    b.confirmed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	require.NoError(t, users.Create(context.Background(), user), "failed to create user")

	return user, b.password
}

// BuildAndLogin creates the user and logs in through the API, returning the
// user and a valid access token.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.Users)

	body, _ := json.Marshal(map[string]string{
		"username": user.Username,
		"password": password,
	})
	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err, "login request failed")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "login did not succeed")

	var tokens TokenResponse
	DecodeJSON(t, resp, &tokens)
	require.NotEmpty(t, tokens.AccessToken)

	return user, tokens.AccessToken
}

// TokenResponse matches the API token payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// DecodeJSON reads the response body into v.
func DecodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.NoError(t, json.Unmarshal(body, v), "failed to unmarshal response: %s", string(body))
}

// DoJSON sends a JSON request with an optional bearer token and returns the
// response.
func DoJSON(t *testing.T, method, url, accessToken string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}
