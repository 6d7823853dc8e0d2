package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/config"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/enums"
	redisclient "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/redis"
)

const refreshTokenBytes = 32

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrSessionNotFound     = errors.New("session not found")
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// Identity is the account a session is opened for.
type Identity struct {
	UserID uuid.UUID  `json:"user_id"`
	Email  string     `json:"email"`
	Name   string     `json:"name"`
	Role   enums.Role `json:"role"`
}

// Session is the explicit signed-in state handed to admin handlers.
type Session struct {
	AccessID  string    `json:"access_id"`
	Identity  Identity  `json:"identity"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type record struct {
	Session
	RefreshToken string `json:"refresh_token"`
}

// Manager handles refresh token creation, storage, rotation, and change
// notification.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
	now   func() time.Time

	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := cfg.AccessTokenTTL()
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return newManager(client, client, ttl), nil
}

func newManager(store sessionStore, keyer sessionKeyer, ttl time.Duration) *Manager {
	return &Manager{
		store:     store,
		keyer:     keyer,
		ttl:       ttl,
		now:       time.Now,
		listeners: map[int]Listener{},
	}
}

// Generate opens a session for identity under accessID and returns its refresh token.
func (m *Manager) Generate(ctx context.Context, accessID string, identity Identity) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", fmt.Errorf("access id is required")
	}
	token, err := generateRefreshToken()
	if err != nil {
		return "", err
	}
	rec := m.newRecord(accessID, identity, token)
	if err := m.save(ctx, rec); err != nil {
		return "", err
	}
	m.publish(Event{Type: EventSignedIn, Session: rec.Session, At: rec.IssuedAt})
	return token, nil
}

// Rotate validates the provided refresh token, invalidates the prior session, and issues a new access/refresh pair.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, provided string) (Session, string, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return Session{}, "", ErrInvalidRefreshToken
	}

	key := m.keyer.AccessSessionKey(oldAccessID)
	stored, err := m.load(ctx, key)
	if err != nil {
		return Session{}, "", wrapNotFound(err)
	}
	if subtle.ConstantTimeCompare([]byte(stored.RefreshToken), []byte(provided)) != 1 {
		return Session{}, "", ErrInvalidRefreshToken
	}

	newToken, err := generateRefreshToken()
	if err != nil {
		return Session{}, "", err
	}
	rec := m.newRecord(NewAccessID(), stored.Identity, newToken)
	if err := m.save(ctx, rec); err != nil {
		return Session{}, "", err
	}
	if err := m.store.Del(ctx, key); err != nil {
		return Session{}, "", err
	}

	m.publish(Event{Type: EventRefreshed, Session: rec.Session, At: rec.IssuedAt})
	return rec.Session, newToken, nil
}

// Revoke deletes the session tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	key := m.keyer.AccessSessionKey(accessID)
	stored, loadErr := m.load(ctx, key)
	if err := m.store.Del(ctx, key); err != nil {
		return err
	}
	if loadErr == nil {
		m.publish(Event{Type: EventSignedOut, Session: stored.Session, At: m.now().UTC()})
	}
	return nil
}

// HasSession reports whether the provided access ID still has an active session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Current returns the live session for accessID.
func (m *Manager) Current(ctx context.Context, accessID string) (Session, error) {
	if strings.TrimSpace(accessID) == "" {
		return Session{}, ErrSessionNotFound
	}
	rec, err := m.load(ctx, m.keyer.AccessSessionKey(accessID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	return rec.Session, nil
}

func (m *Manager) newRecord(accessID string, identity Identity, token string) record {
	now := m.now().UTC()
	return record{
		Session: Session{
			AccessID:  accessID,
			Identity:  identity,
			IssuedAt:  now,
			ExpiresAt: now.Add(m.ttl),
		},
		RefreshToken: token,
	}
}

func (m *Manager) save(ctx context.Context, rec record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return m.store.Set(ctx, m.keyer.AccessSessionKey(rec.AccessID), string(payload), m.ttl)
}

func (m *Manager) load(ctx context.Context, key string) (record, error) {
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		return record{}, err
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return record{}, fmt.Errorf("decode session: %w", err)
	}
	return rec, nil
}

// NewAccessID produces a stable identifier used as the JWT jti/Redis key.
func NewAccessID() string {
	return uuid.NewString()
}

func generateRefreshToken() (string, error) {
	bytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, redislib.Nil) || errors.Is(err, ErrInvalidRefreshToken) {
		return ErrInvalidRefreshToken
	}
	return err
}
