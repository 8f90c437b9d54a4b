package testutil

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NazarChaban/RestAPI-app/internal/api"
	"github.com/NazarChaban/RestAPI-app/internal/config"
	"github.com/NazarChaban/RestAPI-app/internal/repository"
	"github.com/NazarChaban/RestAPI-app/internal/service"
	"github.com/NazarChaban/RestAPI-app/internal/token"
)

// TestConfig returns a config suitable for tests: rate limiting off, short
// but workable token TTLs.
func TestConfig() *config.Config {
	return &config.Config{
		Environment:     "test",
		BaseURL:         "http://localhost:8080",
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		EmailTokenTTL:   24 * time.Hour,
	}
}

// TestServer is the full API wired against in-memory repositories and fake
// collaborators, served over httptest.
type TestServer struct {
	Server   *httptest.Server
	Users    *MemoryUserRepository
	Contacts *MemoryContactRepository
	Mail     *RecordingPublisher
	Avatars  *FakeAvatarStore
	Tokens   *token.Manager
	Services *service.Services
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	cfg := TestConfig()
	users := NewMemoryUserRepository()
	contacts := NewMemoryContactRepository()
	mail := &RecordingPublisher{}
	avatars := NewFakeAvatarStore()

	tokens := token.NewManager([]byte(cfg.JWTSecret), token.TTL{
		Access:  cfg.AccessTokenTTL,
		Refresh: cfg.RefreshTokenTTL,
		Email:   cfg.EmailTokenTTL,
	})

	repos := &repository.Repositories{User: users, Contact: contacts}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	services := service.NewServices(repos, tokens, mail, avatars, log)

	srv := httptest.NewServer(api.NewRouter(services, cfg, log))
	t.Cleanup(srv.Close)

	return &TestServer{
		Server:   srv,
		Users:    users,
		Contacts: contacts,
		Mail:     mail,
		Avatars:  avatars,
		Tokens:   tokens,
		Services: services,
	}
}

// APIURL builds a URL for a path under /api.
func (ts *TestServer) APIURL(path string) string {
	return ts.Server.URL + "/api" + path
}
