package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
)

// SessionManager issues and verifies fernet session tokens carrying a user id.
type SessionManager struct {
	key *fernet.Key
	ttl time.Duration
	now func() time.Time
}

// NewSessionManager creates a manager from a base64 fernet key.
// An empty key generates a random one, which invalidates sessions on restart.
func NewSessionManager(encodedKey string, ttl time.Duration) (*SessionManager, error) {
	var key fernet.Key
	if encodedKey == "" {
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
	} else {
		k, err := fernet.DecodeKey(encodedKey)
		if err != nil {
			return nil, fmt.Errorf("invalid session key: %w", err)
		}
		key = *k
	}

	return &SessionManager{key: &key, ttl: ttl, now: time.Now}, nil
}

// TTL returns how long issued tokens stay valid.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue returns a token for uid and its expiry time.
func (m *SessionManager) Issue(uid string) (string, time.Time, error) {
	tok, err := fernet.EncryptAndSign([]byte(uid), m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return string(tok), m.now().Add(m.ttl).UTC(), nil
}

// Verify returns the user id carried by a valid, unexpired token.
func (m *SessionManager) Verify(token string) (string, error) {
	if token == "" {
		return "", apperrors.ErrMissingSession
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), m.ttl, []*fernet.Key{m.key})
	if msg == nil {
		return "", apperrors.ErrInvalidSession
	}
	uid := string(msg)
	if _, err := uuid.Parse(uid); err != nil {
		return "", apperrors.ErrInvalidSession
	}
	return uid, nil
}

type contextKey struct{}

// WithUID stores the signed-in user id in ctx.
func WithUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, contextKey{}, uid)
}

// UIDFromContext returns the user id stored by WithUID.
func UIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(contextKey{}).(string)
	return uid, ok && uid != ""
}
