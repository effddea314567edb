package ports

import (
	"context"
	"time"

	"github.com/exes/food-network/internal/core/domain"
)

// RegisterMachineInput carries the data needed to register a new machine.
type RegisterMachineInput struct {
	Name             string
	Address          string
	Location         domain.Position
	OperationalHours string
	// Capacity is the initial free storage; nil means an empty machine
	// (domain.MaxCapacity).
	Capacity *int
}

// LocateInput carries a locator query. Position is nil when the caller could
// not determine the user's location.
type LocateInput struct {
	Intent   domain.Intent
	Position *domain.Position
}

// LocatedMachine is a ranked machine plus its distance when known.
type LocatedMachine struct {
	Machine    domain.Machine
	DistanceKm *float64
}

// LocateResult is the ranked view for an intent.
type LocateResult struct {
	Intent   domain.Intent
	Degraded bool
	Machines []LocatedMachine
	// Alternative is the intent to offer when Machines is empty.
	Alternative domain.Intent
}

// MachineService defines use-case operations for machines.
type MachineService interface {
	Register(ctx context.Context, in RegisterMachineInput) (*domain.Machine, error)
	Get(ctx context.Context, id string) (*domain.Machine, error)
	Snapshot(ctx context.Context) ([]domain.Machine, error)
	Locate(ctx context.Context, in LocateInput) (*LocateResult, error)
	SetStatus(ctx context.Context, id string, status domain.MachineStatus) (*domain.Machine, error)
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

// DonateInput describes food placed into a machine.
type DonateInput struct {
	MachineID  string
	Quantity   int
	ExpiryDate time.Time
}

// FoodService defines the donate / collect / volunteer removal flows.
type FoodService interface {
	Donate(ctx context.Context, in DonateInput) (stocked int, err error)
	Collect(ctx context.Context, machineID string, quantity int) (dispensed []string, err error)
	ExpiredStock(ctx context.Context) ([]domain.ExpiredStock, error)
	ExpiredItems(ctx context.Context, machineID string) ([]domain.FoodItem, error)
	RemoveExpired(ctx context.Context, itemID, volunteer string) error
}
