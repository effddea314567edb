package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/exes/food-network/internal/api/metrics"
	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/locator"
	"github.com/exes/food-network/internal/core/ports"
)

var tracer = otel.Tracer("github.com/exes/food-network/internal/core/service")

type MachineService struct {
	machines ports.MachineRepository
	food     ports.FoodRepository
	users    ports.AuthRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewMachineService(machines ports.MachineRepository, food ports.FoodRepository, users ports.AuthRepository, logger zerolog.Logger) *MachineService {
	return &MachineService{
		machines: machines,
		food:     food,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
}

// Register adds a new operational machine to the network.
func (s *MachineService) Register(ctx context.Context, in ports.RegisterMachineInput) (*domain.Machine, error) {
	if err := in.Location.Validate(); err != nil {
		return nil, err
	}
	capacity := domain.MaxCapacity
	if in.Capacity != nil {
		capacity = *in.Capacity
	}

	now := s.now().UTC()
	m := &domain.Machine{
		ID:                uuid.NewString(),
		Name:              in.Name,
		Address:           in.Address,
		Location:          in.Location,
		AvailableCapacity: domain.ClampCapacity(capacity),
		Status:            domain.StatusOperational,
		OperationalHours:  in.OperationalHours,
		LastUpdated:       now,
		CreatedAt:         now,
	}
	if err := s.machines.Create(ctx, m); err != nil {
		s.logger.Error().Err(err).Msg("failed to register machine")
		return nil, err
	}

	s.logger.Info().Str("machine_id", m.ID).Str("name", m.Name).Msg("machine registered")
	return m, nil
}

func (s *MachineService) Get(ctx context.Context, id string) (*domain.Machine, error) {
	return s.machines.FindByID(ctx, id)
}

// Snapshot returns every machine record as currently stored.
func (s *MachineService) Snapshot(ctx context.Context) ([]domain.Machine, error) {
	return s.machines.List(ctx)
}

// Locate ranks the current snapshot for the caller's intent. A missing or
// invalid position degrades to input order instead of failing.
func (s *MachineService) Locate(ctx context.Context, in ports.LocateInput) (*ports.LocateResult, error) {
	ctx, span := tracer.Start(ctx, "MachineService.Locate")
	defer span.End()

	machines, err := s.machines.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("locate: %w", err)
	}

	pos := in.Position
	if pos != nil && pos.Validate() != nil {
		s.logger.Debug().Float64("lat", pos.Lat).Float64("lng", pos.Lng).Msg("ignoring invalid position")
		pos = nil
	}

	ranked := locator.RankWithDistance(machines, pos, in.Intent)
	span.SetAttributes(
		attribute.String("intent", string(in.Intent)),
		attribute.Bool("degraded", pos == nil),
		attribute.Int("candidates", len(machines)),
		attribute.Int("results", len(ranked)),
	)

	mode := "sorted"
	if pos == nil {
		mode = "unsorted"
	}
	metrics.LocatorQueriesTotal.WithLabelValues(string(in.Intent), mode).Inc()
	if len(ranked) == 0 {
		metrics.LocatorEmptyResultsTotal.WithLabelValues(string(in.Intent)).Inc()
	}

	out := &ports.LocateResult{
		Intent:      in.Intent,
		Degraded:    pos == nil,
		Machines:    make([]ports.LocatedMachine, len(ranked)),
		Alternative: in.Intent.Opposite(),
	}
	for i, r := range ranked {
		out.Machines[i] = ports.LocatedMachine{Machine: r.Machine, DistanceKm: r.DistanceKm}
	}
	return out, nil
}

// SetStatus is the admin override for a machine's operational status.
func (s *MachineService) SetStatus(ctx context.Context, id string, status domain.MachineStatus) (*domain.Machine, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	m, err := s.machines.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.machines.UpdateStatus(ctx, id, status, m.AvailableCapacity, now); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	m.Status = status
	m.LastUpdated = now

	s.logger.Info().Str("machine_id", id).Str("status", string(status)).Msg("machine status set")
	return m, nil
}

// Stats aggregates the admin dashboard counters.
func (s *MachineService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var st domain.DashboardStats
	var err error

	if st.TotalMachines, err = s.machines.Count(ctx, ""); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if st.OperationalMachines, err = s.machines.Count(ctx, domain.StatusOperational); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if st.StockedFoodItems, err = s.food.CountStocked(ctx); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if st.ExpiredFoodItems, err = s.food.CountExpired(ctx, domain.TruncateDay(s.now())); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if st.DispensedFoodItems, err = s.food.CountDispensed(ctx); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if st.Volunteers, err = s.users.CountByRole(ctx, domain.RoleVolunteer); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &st, nil
}
