package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password, email, role string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn   func(ctx context.Context, token string) error
	machineFn  func(ctx context.Context, machineID, apiKey string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password, email, role string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, email, role)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Verify(context.Context, string) (*ports.Claims, error) {
	return nil, errors.New("not used by handlers")
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) IssueMachineToken(ctx context.Context, machineID, apiKey string) (string, error) {
	return s.machineFn(ctx, machineID, apiKey)
}

type stubMachineService struct {
	registerFn  func(ctx context.Context, in ports.RegisterMachineInput) (*domain.Machine, error)
	getFn       func(ctx context.Context, id string) (*domain.Machine, error)
	snapshotFn  func(ctx context.Context) ([]domain.Machine, error)
	locateFn    func(ctx context.Context, in ports.LocateInput) (*ports.LocateResult, error)
	setStatusFn func(ctx context.Context, id string, status domain.MachineStatus) (*domain.Machine, error)
	statsFn     func(ctx context.Context) (*domain.DashboardStats, error)
}

func (s *stubMachineService) Register(ctx context.Context, in ports.RegisterMachineInput) (*domain.Machine, error) {
	return s.registerFn(ctx, in)
}

func (s *stubMachineService) Get(ctx context.Context, id string) (*domain.Machine, error) {
	return s.getFn(ctx, id)
}

func (s *stubMachineService) Snapshot(ctx context.Context) ([]domain.Machine, error) {
	return s.snapshotFn(ctx)
}

func (s *stubMachineService) Locate(ctx context.Context, in ports.LocateInput) (*ports.LocateResult, error) {
	return s.locateFn(ctx, in)
}

func (s *stubMachineService) SetStatus(ctx context.Context, id string, status domain.MachineStatus) (*domain.Machine, error) {
	return s.setStatusFn(ctx, id, status)
}

func (s *stubMachineService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return s.statsFn(ctx)
}

type stubFoodService struct {
	donateFn  func(ctx context.Context, in ports.DonateInput) (int, error)
	collectFn func(ctx context.Context, machineID string, quantity int) ([]string, error)
	expiredFn func(ctx context.Context) ([]domain.ExpiredStock, error)
	itemsFn   func(ctx context.Context, machineID string) ([]domain.FoodItem, error)
	removeFn  func(ctx context.Context, itemID, volunteer string) error
}

func (s *stubFoodService) Donate(ctx context.Context, in ports.DonateInput) (int, error) {
	return s.donateFn(ctx, in)
}

func (s *stubFoodService) Collect(ctx context.Context, machineID string, quantity int) ([]string, error) {
	return s.collectFn(ctx, machineID, quantity)
}

func (s *stubFoodService) ExpiredStock(ctx context.Context) ([]domain.ExpiredStock, error) {
	return s.expiredFn(ctx)
}

func (s *stubFoodService) ExpiredItems(ctx context.Context, machineID string) ([]domain.FoodItem, error) {
	return s.itemsFn(ctx, machineID)
}

func (s *stubFoodService) RemoveExpired(ctx context.Context, itemID, volunteer string) error {
	return s.removeFn(ctx, itemID, volunteer)
}

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withClaims(c echo.Context, username, role, machineID string) {
	c.Set("username", username)
	c.Set("role", role)
	c.Set("machine_id", machineID)
}

// httpCode returns the status an echo.HTTPError carries, or 0 for other errors.
func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !env.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	if into != nil {
		if err := json.Unmarshal(env.Data, into); err != nil {
			t.Fatalf("invalid data: %v", err)
		}
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

