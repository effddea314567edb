package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func okCheck(name string) DependencyCheck {
	return DependencyCheck{Name: name, Ping: func(context.Context) error { return nil }}
}

func readiness(t *testing.T, h *HealthDependenciesHandler) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("readiness returned error: %v", err)
	}
	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return rec, body
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	rec, body := readiness(t, NewHealthDependenciesHandler(okCheck("mongodb"), okCheck("redis")))
	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("expected ok, got %d %+v", rec.Code, body)
	}
	if len(body.Dependencies) != 2 {
		t.Fatalf("expected two dependencies, got %+v", body.Dependencies)
	}
}

func TestReadiness_OneUnhealthy(t *testing.T) {
	failing := DependencyCheck{Name: "nats", Ping: func(context.Context) error { return errors.New("CLOSED") }}
	rec, body := readiness(t, NewHealthDependenciesHandler(okCheck("mongodb"), failing))
	if rec.Code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("expected degraded 503, got %d %+v", rec.Code, body)
	}
	if body.Dependencies["nats"].Error != "CLOSED" || body.Dependencies["mongodb"].Status != "ok" {
		t.Fatalf("unexpected dependency report: %+v", body.Dependencies)
	}
}
