// Package token issues and verifies the signed bearer tokens used by the API:
// short-lived access tokens, long-lived refresh tokens and medium-lived email
// confirmation tokens. Verification is stateless; the only server-side state
// is the signing secret held by the Manager.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind selects the TTL policy on issue and is checked on verify, so a token
// minted for one purpose cannot be presented for another.
type Kind string

const (
	KindAccess  Kind = "access_token"
	KindRefresh Kind = "refresh_token"
	KindEmail   Kind = "email_confirmation"
)

var (
	ErrMalformed        = errors.New("token is malformed")
	ErrExpired          = errors.New("token has expired")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrKindMismatch     = errors.New("token kind mismatch")
)

type Claims struct {
	jwt.RegisteredClaims
	Scope Kind `json:"scope"`
}

type TTL struct {
	Access  time.Duration
	Refresh time.Duration
	Email   time.Duration
}

type Manager struct {
	secret []byte
	ttl    TTL
}

func NewManager(secret []byte, ttl TTL) *Manager {
	return &Manager{secret: secret, ttl: ttl}
}

// Issue signs a token of the given kind for the subject. The expiry is
// issued-at plus the kind's TTL. The jti claim makes every issued token
// unique; timestamps alone have second precision, which would make two
// tokens minted in the same second identical.
func (m *Manager) Issue(subject string, kind Kind) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttlFor(kind))),
			ID:        uuid.NewString(),
		},
		Scope: kind,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks the signature, expiry and kind of the token and returns its
// subject. Each defect maps to exactly one sentinel error; an expired token is
// always reported as ErrExpired even if the kind would not have matched.
func (m *Manager) Verify(tokenString string, want Kind) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrInvalidSignature
		default:
			return "", ErrMalformed
		}
	}
	if !parsed.Valid {
		return "", ErrMalformed
	}

	if claims.Scope != want {
		return "", ErrKindMismatch
	}

	return claims.Subject, nil
}

func (m *Manager) ttlFor(kind Kind) time.Duration {
	switch kind {
	case KindRefresh:
		return m.ttl.Refresh
	case KindEmail:
		return m.ttl.Email
	default:
		return m.ttl.Access
	}
}
