package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/ports"
)

var sampleMachine = domain.Machine{
	ID:                "m1",
	Name:              "Downtown",
	Address:           "1 Main St",
	Location:          domain.Position{Lat: 34.05, Lng: -118.24},
	AvailableCapacity: 75,
	AvailableFood:     12,
	Status:            domain.StatusOperational,
	LastUpdated:       time.Date(2025, 5, 16, 9, 30, 0, 0, time.UTC),
}

func TestMachineHandler_Snapshot(t *testing.T) {
	e := newEcho()
	handler := NewMachineHandler(&stubMachineService{
		snapshotFn: func(context.Context) ([]domain.Machine, error) {
			return []domain.Machine{sampleMachine}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodGet, "/v1/public/machines", nil)
	if err := handler.Snapshot(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var machines []machineResponse
	decodeData(t, rec, &machines)
	if len(machines) != 1 || machines[0].LastUpdated != "2025-05-16T09:30:00Z" || machines[0].Status != "operational" {
		t.Fatalf("unexpected snapshot: %+v", machines)
	}
}

func TestMachineHandler_Locate_WithPosition(t *testing.T) {
	e := newEcho()
	dist := 1.5
	handler := NewMachineHandler(&stubMachineService{
		locateFn: func(_ context.Context, in ports.LocateInput) (*ports.LocateResult, error) {
			if in.Intent != domain.IntentReceiver {
				t.Fatalf("expected receiver intent, got %s", in.Intent)
			}
			if in.Position == nil || in.Position.Lat != 34.01 || in.Position.Lng != -118.49 {
				t.Fatalf("unexpected position: %+v", in.Position)
			}
			return &ports.LocateResult{
				Intent:      in.Intent,
				Machines:    []ports.LocatedMachine{{Machine: sampleMachine, DistanceKm: &dist}},
				Alternative: domain.IntentDonor,
			}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodGet, "/v1/public/locate?intent=receiver&lat=34.01&lng=-118.49", nil)
	if err := handler.Locate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp locateResponse
	decodeData(t, rec, &resp)
	if resp.Degraded || len(resp.Machines) != 1 || resp.Machines[0].DistanceKm == nil || *resp.Machines[0].DistanceKm != 1.5 {
		t.Fatalf("unexpected locate response: %+v", resp)
	}
	if resp.AlternativeIntent != "" {
		t.Fatalf("alternative intent only applies to empty results")
	}
}

func TestMachineHandler_Locate_MissingPositionDegrades(t *testing.T) {
	cases := []string{
		"/v1/public/locate",
		"/v1/public/locate?lat=34.01",
		"/v1/public/locate?lat=abc&lng=1",
	}
	for _, target := range cases {
		t.Run(target, func(t *testing.T) {
			e := newEcho()
			handler := NewMachineHandler(&stubMachineService{
				locateFn: func(_ context.Context, in ports.LocateInput) (*ports.LocateResult, error) {
					if in.Position != nil {
						t.Fatalf("expected nil position, got %+v", in.Position)
					}
					if in.Intent != domain.IntentDonor {
						t.Fatalf("expected donor default, got %s", in.Intent)
					}
					return &ports.LocateResult{Intent: in.Intent, Degraded: true, Alternative: domain.IntentReceiver}, nil
				},
			})

			c, rec := newJSONContext(e, http.MethodGet, target, nil)
			if err := handler.Locate(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			var resp locateResponse
			decodeData(t, rec, &resp)
			if !resp.Degraded || resp.Machines == nil || resp.AlternativeIntent != "receiver" {
				t.Fatalf("unexpected locate response: %+v", resp)
			}
		})
	}
}

func TestMachineHandler_Register(t *testing.T) {
	e := newEcho()
	handler := NewMachineHandler(&stubMachineService{
		registerFn: func(_ context.Context, in ports.RegisterMachineInput) (*domain.Machine, error) {
			if in.Name != "Harbor" || in.Location.Lat != 33.95 {
				t.Fatalf("unexpected input: %+v", in)
			}
			m := sampleMachine
			m.ID, m.Name = "new", in.Name
			return &m, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodPost, "/v1/machines",
		strings.NewReader(`{"name":"Harbor","address":"202 Harbor Blvd","location":{"lat":33.95,"lng":-118.29}}`))
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusCreated)
}

func TestMachineHandler_Register_Capacity(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *int
	}{
		{"absent", `{"name":"Harbor","address":"x","location":{"lat":1,"lng":1}}`, nil},
		{"zero", `{"name":"Harbor","address":"x","location":{"lat":1,"lng":1},"available_capacity":0}`, intPtr(0)},
		{"partial", `{"name":"Harbor","address":"x","location":{"lat":1,"lng":1},"available_capacity":40}`, intPtr(40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho()
			handler := NewMachineHandler(&stubMachineService{
				registerFn: func(_ context.Context, in ports.RegisterMachineInput) (*domain.Machine, error) {
					switch {
					case tt.want == nil && in.Capacity != nil:
						t.Fatalf("expected no capacity, got %d", *in.Capacity)
					case tt.want != nil && (in.Capacity == nil || *in.Capacity != *tt.want):
						t.Fatalf("expected capacity %d, got %v", *tt.want, in.Capacity)
					}
					m := sampleMachine
					return &m, nil
				},
			})

			c, rec := newJSONContext(e, http.MethodPost, "/v1/machines", strings.NewReader(tt.body))
			if err := handler.Register(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			assertStatus(t, rec, http.StatusCreated)
		})
	}
}

func intPtr(v int) *int { return &v }

func TestMachineHandler_Register_Validation(t *testing.T) {
	e := newEcho()
	handler := NewMachineHandler(&stubMachineService{
		registerFn: func(context.Context, ports.RegisterMachineInput) (*domain.Machine, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	c, _ := newJSONContext(e, http.MethodPost, "/v1/machines",
		strings.NewReader(`{"name":"Harbor","address":"x","location":{"lat":123,"lng":0}}`))
	if code := httpCode(handler.Register(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestMachineHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	handler := NewMachineHandler(&stubMachineService{
		getFn: func(context.Context, string) (*domain.Machine, error) {
			return nil, domain.ErrMachineNotFound
		},
	})

	c, _ := newJSONContext(e, http.MethodGet, "/v1/machines/ghost", nil)
	c.SetParamNames("id")
	c.SetParamValues("ghost")
	if err := handler.Get(c); !errors.Is(err, domain.ErrMachineNotFound) {
		t.Fatalf("expected ErrMachineNotFound, got %v", err)
	}
}

func TestMachineHandler_SetStatus(t *testing.T) {
	e := newEcho()
	handler := NewMachineHandler(&stubMachineService{
		setStatusFn: func(_ context.Context, id string, status domain.MachineStatus) (*domain.Machine, error) {
			if id != "m1" || status != domain.StatusMaintenance {
				t.Fatalf("unexpected args: %s %s", id, status)
			}
			m := sampleMachine
			m.Status = status
			return &m, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodPut, "/v1/machines/m1/status", strings.NewReader(`{"status":"maintenance"}`))
	c.SetParamNames("id")
	c.SetParamValues("m1")
	if err := handler.SetStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp machineResponse
	decodeData(t, rec, &resp)
	if resp.Status != "maintenance" {
		t.Fatalf("unexpected status %q", resp.Status)
	}
}

func TestMachineHandler_SetStatus_InvalidStatus(t *testing.T) {
	e := newEcho()
	c, _ := newJSONContext(e, http.MethodPut, "/v1/machines/m1/status", strings.NewReader(`{"status":"broken"}`))
	if code := httpCode(NewMachineHandler(&stubMachineService{}).SetStatus(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestMachineHandler_Stats(t *testing.T) {
	e := newEcho()
	handler := NewMachineHandler(&stubMachineService{
		statsFn: func(context.Context) (*domain.DashboardStats, error) {
			return &domain.DashboardStats{TotalMachines: 5, Volunteers: 2}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodGet, "/v1/admin/stats", nil)
	if err := handler.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var st domain.DashboardStats
	decodeData(t, rec, &st)
	if st.TotalMachines != 5 || st.Volunteers != 2 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}
