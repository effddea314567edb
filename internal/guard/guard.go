// Package guard gates role-restricted views on the persisted session.
//
// Each Check is one mount: it starts in StateChecking and ends in exactly one
// of StateAuthenticated or StateRejected. A rejected check has already
// redirected the user, and has cleared the session when verification failed.
package guard

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/session"
)

type State string

const (
	StateChecking      State = "checking"
	StateAuthenticated State = "authenticated"
	StateRejected      State = "rejected"
)

var (
	ErrUnauthenticated = errors.New("not logged in")
	ErrForbidden       = errors.New("access denied for this role")
	ErrSessionExpired  = errors.New("session expired")
)

// Notice texts shown to the user on rejection.
const (
	NoticeAccessDenied   = "Access denied. You do not have permission to view this page."
	NoticeSessionExpired = "Your session has expired. Please log in again."
)

// Verifier is the auth collaborator: any error means the token is not usable.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, token string) error

func (f VerifierFunc) Verify(ctx context.Context, token string) error { return f(ctx, token) }

// Notifier surfaces user-visible notices.
type Notifier interface {
	Notify(message string)
}

// Navigator moves the user to another entry point.
type Navigator interface {
	Redirect(path string)
}

// Outcome is the terminal result of one Check.
type Outcome struct {
	State    State
	Redirect string
	Notice   string
	// Err is nil when authenticated and one of the package sentinels otherwise.
	Err error
}

// View is a role-restricted screen.
type View func(ctx context.Context) error

type Guard struct {
	store    session.Store
	verifier Verifier
	notifier Notifier
	nav      Navigator
	log      zerolog.Logger
}

func New(store session.Store, verifier Verifier, notifier Notifier, nav Navigator, log zerolog.Logger) *Guard {
	return &Guard{store: store, verifier: verifier, notifier: notifier, nav: nav, log: log}
}

// LoginPath returns the entry point for requiredRole.
func LoginPath(requiredRole string) string {
	if requiredRole == domain.RoleAdmin {
		return "/admin/login"
	}
	return "/volunteer/login"
}

// Check decides whether the stored session may open a view restricted to
// requiredRole. The verifier is only called when a complete session with the
// right role is present.
func (g *Guard) Check(ctx context.Context, requiredRole string) Outcome {
	state := StateChecking
	log := g.log.With().Str("required_role", requiredRole).Logger()
	log.Debug().Str("state", string(state)).Msg("guard mounted")

	sess, err := session.Load(ctx, g.store)
	if err != nil {
		log.Warn().Err(err).Msg("reading session failed")
		sess = domain.Session{}
	}

	if !sess.Complete() {
		return g.reject(log, requiredRole, "", ErrUnauthenticated)
	}
	if sess.Role != requiredRole {
		log.Info().Str("role", sess.Role).Msg("role mismatch")
		return g.reject(log, requiredRole, NoticeAccessDenied, ErrForbidden)
	}

	if err := g.verifier.Verify(ctx, sess.Token); err != nil {
		log.Info().Err(err).Msg("session verification failed")
		if cerr := session.Clear(ctx, g.store); cerr != nil {
			log.Error().Err(cerr).Msg("clearing session failed")
		}
		return g.reject(log, requiredRole, NoticeSessionExpired, ErrSessionExpired)
	}

	state = StateAuthenticated
	log.Debug().Str("state", string(state)).Msg("guard resolved")
	return Outcome{State: state}
}

func (g *Guard) reject(log zerolog.Logger, requiredRole, notice string, reason error) Outcome {
	path := LoginPath(requiredRole)
	if notice != "" {
		g.notifier.Notify(notice)
	}
	g.nav.Redirect(path)
	log.Debug().Str("state", string(StateRejected)).Str("redirect", path).Msg("guard resolved")
	return Outcome{State: StateRejected, Redirect: path, Notice: notice, Err: reason}
}

// Wrap returns a View that runs view only after a successful Check.
func (g *Guard) Wrap(view View, requiredRole string) View {
	return func(ctx context.Context) error {
		out := g.Check(ctx, requiredRole)
		if out.State != StateAuthenticated {
			return out.Err
		}
		return view(ctx)
	}
}
