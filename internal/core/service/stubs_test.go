package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/exes/food-network/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubMachineRepo struct {
	byID      map[string]*domain.Machine
	order     []string
	createErr error
	updates   int
}

func newStubMachineRepo() *stubMachineRepo {
	return &stubMachineRepo{byID: make(map[string]*domain.Machine)}
}

func (r *stubMachineRepo) put(m domain.Machine) {
	clone := m
	if _, ok := r.byID[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	r.byID[m.ID] = &clone
}

func (r *stubMachineRepo) Create(_ context.Context, m *domain.Machine) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.put(*m)
	return nil
}

func (r *stubMachineRepo) FindByID(_ context.Context, id string) (*domain.Machine, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMachineNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMachineRepo) List(_ context.Context) ([]domain.Machine, error) {
	out := make([]domain.Machine, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out, nil
}

func (r *stubMachineRepo) UpdateStatus(_ context.Context, id string, status domain.MachineStatus, capacity int, ts time.Time) error {
	m, ok := r.byID[id]
	if !ok {
		return domain.ErrMachineNotFound
	}
	r.updates++
	m.Status = status
	m.AvailableCapacity = capacity
	m.LastUpdated = ts
	return nil
}

func (r *stubMachineRepo) ReserveSpace(_ context.Context, id string, n int) (*domain.Machine, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMachineNotFound
	}
	if m.Status != domain.StatusOperational {
		return nil, domain.ErrMachineUnavailable
	}
	if m.AvailableCapacity < n {
		return nil, domain.ErrMachineFull
	}
	m.AvailableCapacity -= n
	m.AvailableFood += n
	clone := *m
	return &clone, nil
}

func (r *stubMachineRepo) ReleaseSpace(_ context.Context, id string, n int) error {
	m, ok := r.byID[id]
	if !ok {
		return domain.ErrMachineNotFound
	}
	m.AvailableFood = max(0, m.AvailableFood-n)
	m.AvailableCapacity = min(domain.MaxCapacity, m.AvailableCapacity+n)
	return nil
}

func (r *stubMachineRepo) Count(_ context.Context, status domain.MachineStatus) (int64, error) {
	var n int64
	for _, m := range r.byID {
		if status == "" || m.Status == status {
			n++
		}
	}
	return n, nil
}

type stubFoodRepo struct {
	items     map[string]*domain.FoodItem
	insertErr error

	// beforeClaim runs ahead of every claim, letting tests simulate a
	// concurrent collector.
	beforeClaim func()
}

func newStubFoodRepo() *stubFoodRepo {
	return &stubFoodRepo{items: make(map[string]*domain.FoodItem)}
}

func (r *stubFoodRepo) InsertMany(_ context.Context, items []domain.FoodItem) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, it := range items {
		clone := it
		r.items[it.ID] = &clone
	}
	return nil
}

func (r *stubFoodRepo) FindByID(_ context.Context, id string) (*domain.FoodItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrFoodItemNotFound
	}
	clone := *it
	return &clone, nil
}

func (r *stubFoodRepo) ClaimDispensable(_ context.Context, machineID string, day, at time.Time) (*domain.FoodItem, error) {
	if r.beforeClaim != nil {
		r.beforeClaim()
	}
	var next *domain.FoodItem
	for _, it := range r.items {
		if it.MachineID != machineID || !it.Stocked() || it.ExpiryDate.Before(day) {
			continue
		}
		if next == nil || it.ExpiryDate.Before(next.ExpiryDate) {
			next = it
		}
	}
	if next == nil {
		return nil, domain.ErrNoFoodAvailable
	}
	next.Dispensed = true
	t := at
	next.DispensedAt = &t
	clone := *next
	return &clone, nil
}

func (r *stubFoodRepo) MarkRemoved(_ context.Context, id, by string, at time.Time) error {
	it, ok := r.items[id]
	if !ok {
		return domain.ErrFoodItemNotFound
	}
	if !it.Stocked() {
		return domain.ErrFoodItemClosed
	}
	it.Removed = true
	it.RemovedBy = by
	t := at
	it.RemovedAt = &t
	return nil
}

func (r *stubFoodRepo) ExpiredItems(_ context.Context, machineID string, day time.Time) ([]domain.FoodItem, error) {
	out := make([]domain.FoodItem, 0)
	for _, it := range r.items {
		if it.MachineID == machineID && it.Stocked() && it.ExpiryDate.Before(day) {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

func (r *stubFoodRepo) ExpiredByMachine(_ context.Context, day time.Time) ([]domain.ExpiredStock, error) {
	counts := map[string]int{}
	for _, it := range r.items {
		if it.Stocked() && it.ExpiryDate.Before(day) {
			counts[it.MachineID]++
		}
	}
	var out []domain.ExpiredStock
	for id, n := range counts {
		out = append(out, domain.ExpiredStock{MachineID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MachineID < out[j].MachineID })
	return out, nil
}

func (r *stubFoodRepo) CountStocked(_ context.Context) (int64, error) {
	var n int64
	for _, it := range r.items {
		if it.Stocked() {
			n++
		}
	}
	return n, nil
}

func (r *stubFoodRepo) CountExpired(_ context.Context, day time.Time) (int64, error) {
	var n int64
	for _, it := range r.items {
		if it.Stocked() && it.ExpiryDate.Before(day) {
			n++
		}
	}
	return n, nil
}

func (r *stubFoodRepo) CountDispensed(_ context.Context) (int64, error) {
	var n int64
	for _, it := range r.items {
		if it.Dispensed {
			n++
		}
	}
	return n, nil
}

// fixedClock returns a now func pinned to t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
