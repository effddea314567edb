// Package session persists the client's login state between exesctl runs.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/exes/food-network/internal/core/domain"
)

// Keys under which the session record is stored.
const (
	KeyToken = "auth_token"
	KeyRole  = "user_role"
)

var ErrNotFound = errors.New("session key not found")

// Store is a small string key/value store. Writes are last-write-wins.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Load reads the persisted session. Missing keys yield empty fields rather
// than an error.
func Load(ctx context.Context, s Store) (domain.Session, error) {
	token, err := get(ctx, s, KeyToken)
	if err != nil {
		return domain.Session{}, err
	}
	role, err := get(ctx, s, KeyRole)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: token, Role: role}, nil
}

// Save writes both session keys.
func Save(ctx context.Context, s Store, sess domain.Session) error {
	if err := s.Set(ctx, KeyToken, sess.Token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.Set(ctx, KeyRole, sess.Role); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes both session keys.
func Clear(ctx context.Context, s Store) error {
	if err := s.Delete(ctx, KeyToken, KeyRole); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func get(ctx context.Context, s Store, key string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session %s: %w", key, err)
	}
	return v, nil
}
