// Package session выдаёт и проверяет сессии пользователей.
// Сессия хранится в Redis по ключу session:<id>, клиент получает подписанный HS256 токен,
// jti которого равен id сессии. Выход удаляет ключ, после чего токен перестаёт работать.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/role"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const issuer = "cleaning-backend"

var (
	ErrNoSession    = errors.New("session not found")
	ErrInvalidToken = errors.New("invalid session token")
)

// Store хранилище сессий с TTL
type Store interface {
	SaveSession(ctx context.Context, s ds.Session, ttl time.Duration) error
	GetSession(ctx context.Context, id string) (*ds.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create заводит сессию и возвращает токен для cookie
func (m *Manager) Create(ctx context.Context, userID uint, r role.Role) (string, *ds.Session, error) {
	if !r.Valid() {
		return "", nil, fmt.Errorf("unknown role %q", r)
	}

	s := ds.Session{
		ID:     uuid.NewString(),
		UserID: userID,
		Role:   r,
	}
	if err := m.store.SaveSession(ctx, s, m.ttl); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}

	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ds.SessionClaims{
		StandardClaims: jwt.StandardClaims{
			Id:        s.ID,
			ExpiresAt: now.Add(m.ttl).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    issuer,
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, &s, nil
}

// Resolve проверяет подпись токена и достаёт сессию из хранилища
func (m *Manager) Resolve(ctx context.Context, token string) (*ds.Session, error) {
	id, err := m.sessionID(token)
	if err != nil {
		return nil, err
	}

	s, err := m.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	s.ID = id
	return s, nil
}

// Destroy удаляет сессию. Повторный выход не считается ошибкой
func (m *Manager) Destroy(ctx context.Context, token string) error {
	id, err := m.sessionID(token)
	if err != nil {
		return err
	}
	return m.store.DeleteSession(ctx, id)
}

func (m *Manager) sessionID(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &ds.SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*ds.SessionClaims)
	if !ok || !parsed.Valid || claims.Id == "" {
		return "", ErrInvalidToken
	}
	return claims.Id, nil
}
