package ports

import (
	"context"
	"time"

	"github.com/exes/food-network/internal/core/domain"
)

// MachineRepository defines persistence operations for machines.
type MachineRepository interface {
	Create(ctx context.Context, m *domain.Machine) error
	FindByID(ctx context.Context, id string) (*domain.Machine, error)
	// List returns every machine in registration order.
	List(ctx context.Context) ([]domain.Machine, error)
	// UpdateStatus sets status and capacity and stamps LastUpdated with ts.
	UpdateStatus(ctx context.Context, id string, status domain.MachineStatus, capacity int, ts time.Time) error
	// ReserveSpace stocks n items into an operational machine with at least n
	// free units, moving them from AvailableCapacity to AvailableFood in one
	// step. It returns domain.ErrMachineFull when the space is not there and
	// the updated machine otherwise.
	ReserveSpace(ctx context.Context, id string, n int) (*domain.Machine, error)
	// ReleaseSpace takes n items out of stock, giving their units back. Both
	// counters stay within their bounds.
	ReleaseSpace(ctx context.Context, id string, n int) error
	// Count returns the number of machines, optionally restricted to status.
	Count(ctx context.Context, status domain.MachineStatus) (int64, error)
}

// FoodRepository defines persistence operations for stocked food items.
type FoodRepository interface {
	InsertMany(ctx context.Context, items []domain.FoodItem) error
	FindByID(ctx context.Context, id string) (*domain.FoodItem, error)
	// ClaimDispensable marks the stocked item of machineID expiring soonest on
	// or after day as dispensed and returns it. Each item is claimed by at most
	// one caller; domain.ErrNoFoodAvailable means nothing is left to claim.
	ClaimDispensable(ctx context.Context, machineID string, day, at time.Time) (*domain.FoodItem, error)
	// MarkRemoved flags a stocked item as removed. It returns
	// domain.ErrFoodItemClosed when the item is no longer stocked.
	MarkRemoved(ctx context.Context, id, by string, at time.Time) error
	// ExpiredItems lists the stocked items of machineID expiring before day,
	// oldest first.
	ExpiredItems(ctx context.Context, machineID string, day time.Time) ([]domain.FoodItem, error)
	// ExpiredByMachine groups stocked items expiring before day by machine.
	ExpiredByMachine(ctx context.Context, day time.Time) ([]domain.ExpiredStock, error)
	CountStocked(ctx context.Context) (int64, error)
	CountExpired(ctx context.Context, day time.Time) (int64, error)
	CountDispensed(ctx context.Context) (int64, error)
}
