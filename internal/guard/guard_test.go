package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/session"
)

type recordingVerifier struct {
	calls int
	token string
	err   error
}

func (v *recordingVerifier) Verify(_ context.Context, token string) error {
	v.calls++
	v.token = token
	return v.err
}

type recordingNotifier struct{ notices []string }

func (n *recordingNotifier) Notify(msg string) { n.notices = append(n.notices, msg) }

type recordingNavigator struct{ paths []string }

func (n *recordingNavigator) Redirect(path string) { n.paths = append(n.paths, path) }

type fixture struct {
	guard    *Guard
	store    *session.MemoryStore
	verifier *recordingVerifier
	notifier *recordingNotifier
	nav      *recordingNavigator
}

func newFixture(sess *domain.Session) fixture {
	f := fixture{
		store:    session.NewMemoryStore(),
		verifier: &recordingVerifier{},
		notifier: &recordingNotifier{},
		nav:      &recordingNavigator{},
	}
	if sess != nil {
		_ = session.Save(context.Background(), f.store, *sess)
	}
	f.guard = New(f.store, f.verifier, f.notifier, f.nav, zerolog.Nop())
	return f
}

func TestCheck_NoSessionRedirectsWithoutVerify(t *testing.T) {
	f := newFixture(nil)

	out := f.guard.Check(context.Background(), domain.RoleAdmin)

	if out.State != StateRejected || !errors.Is(out.Err, ErrUnauthenticated) {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if f.verifier.calls != 0 {
		t.Fatalf("verifier must not be called")
	}
	if len(f.nav.paths) != 1 || f.nav.paths[0] != "/admin/login" {
		t.Fatalf("expected redirect to /admin/login, got %v", f.nav.paths)
	}
	if len(f.notifier.notices) != 0 {
		t.Fatalf("no notice expected, got %v", f.notifier.notices)
	}
}

func TestCheck_TokenWithoutRoleIsUnauthenticated(t *testing.T) {
	f := newFixture(nil)
	_ = f.store.Set(context.Background(), session.KeyToken, "t")

	out := f.guard.Check(context.Background(), domain.RoleVolunteer)

	if !errors.Is(out.Err, ErrUnauthenticated) || out.Redirect != "/volunteer/login" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if v, _ := f.store.Get(context.Background(), session.KeyToken); v != "t" {
		t.Fatalf("session must be left untouched")
	}
}

func TestCheck_WrongRoleIsForbidden(t *testing.T) {
	f := newFixture(&domain.Session{Token: "t", Role: domain.RoleVolunteer})

	out := f.guard.Check(context.Background(), domain.RoleAdmin)

	if out.State != StateRejected || !errors.Is(out.Err, ErrForbidden) {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if f.verifier.calls != 0 {
		t.Fatalf("verifier must not be called on role mismatch")
	}
	if len(f.notifier.notices) != 1 || f.notifier.notices[0] != NoticeAccessDenied {
		t.Fatalf("expected access denied notice, got %v", f.notifier.notices)
	}
	if out.Redirect != "/admin/login" {
		t.Fatalf("expected admin entry point, got %s", out.Redirect)
	}
	sess, _ := session.Load(context.Background(), f.store)
	if !sess.Complete() {
		t.Fatalf("session must not be cleared on role mismatch")
	}
}

func TestCheck_VerifiedSessionIsAuthenticated(t *testing.T) {
	f := newFixture(&domain.Session{Token: "t", Role: domain.RoleAdmin})

	out := f.guard.Check(context.Background(), domain.RoleAdmin)

	if out.State != StateAuthenticated || out.Err != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if f.verifier.calls != 1 || f.verifier.token != "t" {
		t.Fatalf("expected one verify call with the stored token, got %d %q", f.verifier.calls, f.verifier.token)
	}
	if len(f.nav.paths) != 0 || len(f.notifier.notices) != 0 {
		t.Fatalf("no redirect or notice expected")
	}
}

func TestCheck_VerifyFailureClearsSession(t *testing.T) {
	f := newFixture(&domain.Session{Token: "t", Role: domain.RoleVolunteer})
	f.verifier.err = errors.New("401")

	out := f.guard.Check(context.Background(), domain.RoleVolunteer)

	if out.State != StateRejected || !errors.Is(out.Err, ErrSessionExpired) {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if _, err := f.store.Get(context.Background(), session.KeyToken); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("auth_token must be removed")
	}
	if _, err := f.store.Get(context.Background(), session.KeyRole); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("user_role must be removed")
	}
	if len(f.notifier.notices) != 1 || f.notifier.notices[0] != NoticeSessionExpired {
		t.Fatalf("expected session expired notice, got %v", f.notifier.notices)
	}
	if len(f.nav.paths) != 1 || f.nav.paths[0] != "/volunteer/login" {
		t.Fatalf("expected redirect to /volunteer/login, got %v", f.nav.paths)
	}
}

func TestCheck_EachCallIsIndependent(t *testing.T) {
	f := newFixture(&domain.Session{Token: "t", Role: domain.RoleAdmin})

	f.guard.Check(context.Background(), domain.RoleAdmin)
	f.guard.Check(context.Background(), domain.RoleAdmin)

	if f.verifier.calls != 2 {
		t.Fatalf("expected a fresh verification per check, got %d", f.verifier.calls)
	}
}

func TestWrap(t *testing.T) {
	ran := false
	view := func(context.Context) error {
		ran = true
		return nil
	}

	f := newFixture(&domain.Session{Token: "t", Role: domain.RoleAdmin})
	if err := f.guard.Wrap(view, domain.RoleAdmin)(context.Background()); err != nil || !ran {
		t.Fatalf("view must run when authenticated: err=%v ran=%v", err, ran)
	}

	ran = false
	f = newFixture(nil)
	err := f.guard.Wrap(view, domain.RoleAdmin)(context.Background())
	if !errors.Is(err, ErrUnauthenticated) || ran {
		t.Fatalf("view must not run when rejected: err=%v ran=%v", err, ran)
	}
}

func TestVerifierFunc(t *testing.T) {
	want := errors.New("boom")
	var v Verifier = VerifierFunc(func(context.Context, string) error { return want })
	if err := v.Verify(context.Background(), "t"); !errors.Is(err, want) {
		t.Fatalf("expected wrapped func error, got %v", err)
	}
}
