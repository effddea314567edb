// Package geolocation obtains the user's position for the locator. A position
// is always optional: callers fall back to unsorted results without one.
package geolocation

import (
	"context"
	"errors"
	"time"

	"github.com/exes/food-network/internal/core/domain"
)

// DefaultTimeout bounds a single position request.
const DefaultTimeout = 10 * time.Second

var ErrUnavailable = errors.New("position unavailable")

// Provider resolves the current position. It may block indefinitely; Acquire
// bounds it.
type Provider interface {
	Locate(ctx context.Context) (domain.Position, error)
}

type ProviderFunc func(ctx context.Context) (domain.Position, error)

func (f ProviderFunc) Locate(ctx context.Context) (domain.Position, error) { return f(ctx) }

// Static always reports the same position, e.g. one given on the command line.
type Static struct {
	Position domain.Position
}

func (s Static) Locate(context.Context) (domain.Position, error) {
	return s.Position, nil
}

// Unavailable reports that no position source exists.
type Unavailable struct{}

func (Unavailable) Locate(context.Context) (domain.Position, error) {
	return domain.Position{}, ErrUnavailable
}

type result struct {
	pos domain.Position
	err error
}

// Acquire asks p for a position, waiting at most timeout. It returns nil on
// any error, on timeout, or when the reported position is out of range.
func Acquire(ctx context.Context, p Provider, timeout time.Duration) *domain.Position {
	if p == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so a late result never blocks the provider goroutine.
	ch := make(chan result, 1)
	go func() {
		pos, err := p.Locate(ctx)
		ch <- result{pos: pos, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil
	case r := <-ch:
		if r.err != nil || r.pos.Validate() != nil {
			return nil
		}
		return &r.pos
	}
}
