package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/exes/food-network/internal/core/domain"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, email, role string) (*domain.User, error) {
			if username != "alice" || role != "volunteer" || email != "a@example.com" {
				t.Fatalf("unexpected args: %s %s %s", username, role, email)
			}
			return &domain.User{ID: "u1", Username: username, Email: email, Role: role}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"username":"alice","password":"secret-pw","email":"a@example.com","role":"volunteer"}`)
	c, rec := newJSONContext(e, http.MethodPost, "/auth/register", body)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusCreated)

	var resp authResponse
	decodeData(t, rec, &resp)
	if resp.User == nil || resp.User.Username != "alice" || resp.User.Role != "volunteer" {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password hash must never be serialised")
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, string, string, string, string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	})

	c, _ := newJSONContext(e, http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"bob","password":"secret-pw","email":"b@example.com","role":"admin"}`))

	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_RejectsMachineRole(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, string, string, string, string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	c, _ := newJSONContext(e, http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"k","password":"secret-pw","email":"k@example.com","role":"machine"}`))

	if code := httpCode(handler.Register(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, string, string, string, string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	c, _ := newJSONContext(e, http.MethodPost, "/auth/register", strings.NewReader("not-json"))

	if code := httpCode(handler.Register(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{Username: "alice", Role: "admin"}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"secret"}`))

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var resp authResponse
	decodeData(t, rec, &resp)
	if resp.Token != "token123" {
		t.Fatalf("expected token, got %q", resp.Token)
	}
	if resp.User == nil || resp.User.Username != "alice" || resp.User.Role != "admin" {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	for _, svcErr := range []error{domain.ErrInvalidCredentials, domain.ErrUserNotFound} {
		t.Run(svcErr.Error(), func(t *testing.T) {
			e := newEcho()
			handler := NewAuthHandler(&stubAuthService{
				loginFn: func(context.Context, string, string) (string, *domain.User, error) {
					return "", nil, svcErr
				},
			})
			c, _ := newJSONContext(e, http.MethodPost, "/auth/login",
				strings.NewReader(`{"email":"alice@example.com","password":"bad"}`))

			if code := httpCode(handler.Login(c)); code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", code)
			}
		})
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	})

	c, _ := newJSONContext(e, http.MethodPost, "/auth/login", strings.NewReader("{"))

	if code := httpCode(handler.Login(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := newJSONContext(e, http.MethodGet, "/auth/verify", nil)
	withClaims(c, "vera", domain.RoleVolunteer, "")

	if err := handler.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp verifyResponse
	decodeData(t, rec, &resp)
	if resp.Username != "vera" || resp.Role != domain.RoleVolunteer {
		t.Fatalf("unexpected verify payload: %+v", resp)
	}
}

func TestAuthHandler_Verify_NoClaims(t *testing.T) {
	e := newEcho()
	c, _ := newJSONContext(e, http.MethodGet, "/auth/verify", nil)
	if code := httpCode(NewAuthHandler(&stubAuthService{}).Verify(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	var revoked string
	handler := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	})

	c, rec := newJSONContext(e, http.MethodPost, "/auth/logout", nil)
	c.Set("token", "tok-1")

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)
	if revoked != "tok-1" {
		t.Fatalf("expected token to be revoked, got %q", revoked)
	}
}

func TestAuthHandler_MachineAuth(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{
		machineFn: func(_ context.Context, machineID, apiKey string) (string, error) {
			if machineID != "m1" || apiKey != "k" {
				t.Fatalf("unexpected args: %s %s", machineID, apiKey)
			}
			return "device-token", nil
		},
	})

	c, rec := newJSONContext(e, http.MethodPost, "/machine/auth", strings.NewReader(`{"machine_id":"m1","api_key":"k"}`))
	if err := handler.MachineAuth(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp tokenResponse
	decodeData(t, rec, &resp)
	if resp.Token != "device-token" {
		t.Fatalf("unexpected token %q", resp.Token)
	}
}

func TestAuthHandler_MachineAuth_MissingKey(t *testing.T) {
	e := newEcho()
	c, _ := newJSONContext(e, http.MethodPost, "/machine/auth", strings.NewReader(`{"machine_id":"m1"}`))
	if code := httpCode(NewAuthHandler(&stubAuthService{}).MachineAuth(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
