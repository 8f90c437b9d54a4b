package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/NazarChaban/RestAPI-app/internal/mailer"
)

// RecordingPublisher captures queued confirmation emails instead of talking
// to a broker.
type RecordingPublisher struct {
	mu   sync.Mutex
	sent []mailer.ConfirmationEmail
	// Err, when set, is returned from every publish call.
	Err error
}

func (p *RecordingPublisher) PublishConfirmation(ctx context.Context, msg mailer.ConfirmationEmail) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}
	p.sent = append(p.sent, msg)
	return nil
}

func (p *RecordingPublisher) Sent() []mailer.ConfirmationEmail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mailer.ConfirmationEmail(nil), p.sent...)
}

// FakeAvatarStore pretends to be a blob store and returns a deterministic URL
// per key.
type FakeAvatarStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewFakeAvatarStore() *FakeAvatarStore {
	return &FakeAvatarStore{objects: make(map[string][]byte)}
}

func (s *FakeAvatarStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data

	return fmt.Sprintf("http://blobstore.test/%s", key), nil
}

func (s *FakeAvatarStore) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}
