package handler

import (
	"time"

	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/ports"
)

// --- Domain / service result → HTTP response ---

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

func toMachineResponse(m domain.Machine) machineResponse {
	return machineResponse{
		ID:                m.ID,
		Name:              m.Name,
		Address:           m.Address,
		Location:          positionResponse{Lat: m.Location.Lat, Lng: m.Location.Lng},
		AvailableCapacity: m.AvailableCapacity,
		AvailableFood:     m.AvailableFood,
		Status:            string(m.Status),
		OperationalHours:  m.OperationalHours,
		LastUpdated:       m.LastUpdated.UTC().Format(time.RFC3339),
	}
}

func toMachineList(ms []domain.Machine) []machineResponse {
	out := make([]machineResponse, len(ms))
	for i, m := range ms {
		out[i] = toMachineResponse(m)
	}
	return out
}

func toLocateResponse(r *ports.LocateResult) locateResponse {
	resp := locateResponse{
		Intent:   string(r.Intent),
		Degraded: r.Degraded,
		Machines: make([]locatedMachineResponse, len(r.Machines)),
	}
	for i, lm := range r.Machines {
		resp.Machines[i] = locatedMachineResponse{
			machineResponse: toMachineResponse(lm.Machine),
			DistanceKm:      lm.DistanceKm,
		}
	}
	if len(r.Machines) == 0 {
		resp.AlternativeIntent = string(r.Alternative)
	}
	return resp
}

func toExpiredItems(items []domain.FoodItem) []expiredItemResponse {
	out := make([]expiredItemResponse, len(items))
	for i, it := range items {
		out[i] = expiredItemResponse{
			ID:         it.ID,
			MachineID:  it.MachineID,
			ExpiryDate: it.ExpiryDate.UTC().Format(time.DateOnly),
			DonatedAt:  it.DonatedAt.UTC().Format(time.RFC3339),
		}
	}
	return out
}

// --- HTTP request → service input ---

func toRegisterMachineInput(req registerMachineRequest) ports.RegisterMachineInput {
	return ports.RegisterMachineInput{
		Name:             req.Name,
		Address:          req.Address,
		Location:         domain.Position{Lat: req.Location.Lat, Lng: req.Location.Lng},
		OperationalHours: req.OperationalHours,
		Capacity:         req.Capacity,
	}
}

// toTelemetryInput assumes req passed validation, so the timestamp parses.
func toTelemetryInput(machineID string, req telemetryRequest) ports.TelemetryEventInput {
	in := ports.TelemetryEventInput{
		MachineID:         machineID,
		AvailableCapacity: req.AvailableCapacity,
		ErrorCode:         req.ErrorCode,
	}
	if req.Timestamp != "" {
		in.Timestamp, _ = time.Parse(time.RFC3339, req.Timestamp)
	}
	return in
}
