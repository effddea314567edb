package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/exes/food-network/internal/api/metrics"
	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/ports"
)

// FoodService handles donations, collections and expired-stock removal.
type FoodService struct {
	machines ports.MachineRepository
	food     ports.FoodRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewFoodService(machines ports.MachineRepository, food ports.FoodRepository, logger zerolog.Logger) *FoodService {
	return &FoodService{machines: machines, food: food, logger: logger, now: time.Now}
}

// Donate stocks Quantity items into a machine. The machine must be operational
// with a free storage unit per item, and the food must not already be expired.
// It returns the machine's stocked item count after the donation.
func (s *FoodService) Donate(ctx context.Context, in ports.DonateInput) (int, error) {
	if in.Quantity < 1 || in.Quantity > domain.MaxCapacity {
		return 0, domain.ErrInvalidQuantity
	}
	now := s.now().UTC()
	if in.ExpiryDate.Before(domain.TruncateDay(now)) {
		return 0, domain.ErrExpiredFood
	}

	m, err := s.machines.FindByID(ctx, in.MachineID)
	if err != nil {
		return 0, err
	}
	if m.Status != domain.StatusOperational {
		return 0, domain.ErrMachineUnavailable
	}
	if in.Quantity > m.AvailableCapacity {
		return 0, domain.ErrMachineFull
	}

	reserved, err := s.machines.ReserveSpace(ctx, m.ID, in.Quantity)
	if err != nil {
		return 0, err
	}

	expiry := domain.TruncateDay(in.ExpiryDate)
	items := make([]domain.FoodItem, in.Quantity)
	for i := range items {
		items[i] = domain.FoodItem{
			ID:         uuid.NewString(),
			MachineID:  m.ID,
			ExpiryDate: expiry,
			DonatedAt:  now,
		}
	}
	if err := s.food.InsertMany(ctx, items); err != nil {
		if rerr := s.machines.ReleaseSpace(ctx, m.ID, in.Quantity); rerr != nil {
			s.logger.Error().Err(rerr).Str("machine_id", m.ID).Msg("failed to release reserved space")
		}
		return 0, fmt.Errorf("donate: %w", err)
	}

	metrics.FoodItemsTotal.WithLabelValues("donated").Add(float64(len(items)))
	s.logger.Info().Str("machine_id", m.ID).Int("quantity", len(items)).Msg("donation stocked")
	return reserved.AvailableFood, nil
}

// Collect dispenses up to quantity unexpired items, soonest expiry first. Only
// the items this call actually claimed are returned.
func (s *FoodService) Collect(ctx context.Context, machineID string, quantity int) ([]string, error) {
	if quantity < 1 || quantity > domain.MaxCollectPerVisit {
		return nil, domain.ErrInvalidQuantity
	}

	m, err := s.machines.FindByID(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.StatusOperational {
		return nil, domain.ErrMachineUnavailable
	}

	now := s.now().UTC()
	day := domain.TruncateDay(now)
	ids := make([]string, 0, quantity)
	for len(ids) < quantity {
		it, err := s.food.ClaimDispensable(ctx, machineID, day, now)
		if errors.Is(err, domain.ErrNoFoodAvailable) {
			break
		}
		if err != nil {
			if len(ids) == 0 {
				return nil, fmt.Errorf("collect: %w", err)
			}
			s.logger.Error().Err(err).Str("machine_id", machineID).Msg("collect stopped early")
			break
		}
		ids = append(ids, it.ID)
	}
	if len(ids) == 0 {
		return nil, domain.ErrNoFoodAvailable
	}

	if err := s.machines.ReleaseSpace(ctx, machineID, len(ids)); err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	metrics.FoodItemsTotal.WithLabelValues("dispensed").Add(float64(len(ids)))
	s.logger.Info().Str("machine_id", machineID).Int("quantity", len(ids)).Msg("food collected")
	return ids, nil
}

// ExpiredStock lists machines holding expired items that volunteers must remove.
func (s *FoodService) ExpiredStock(ctx context.Context) ([]domain.ExpiredStock, error) {
	return s.food.ExpiredByMachine(ctx, domain.TruncateDay(s.now()))
}

// ExpiredItems lists the expired items still inside machineID.
func (s *FoodService) ExpiredItems(ctx context.Context, machineID string) ([]domain.FoodItem, error) {
	if _, err := s.machines.FindByID(ctx, machineID); err != nil {
		return nil, err
	}
	return s.food.ExpiredItems(ctx, machineID, domain.TruncateDay(s.now()))
}

// RemoveExpired records that volunteer took itemID out of its machine.
func (s *FoodService) RemoveExpired(ctx context.Context, itemID, volunteer string) error {
	item, err := s.food.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !item.Stocked() {
		return domain.ErrFoodItemClosed
	}

	if err := s.food.MarkRemoved(ctx, itemID, volunteer, s.now().UTC()); err != nil {
		return err
	}
	if err := s.machines.ReleaseSpace(ctx, item.MachineID, 1); err != nil {
		return fmt.Errorf("remove item: %w", err)
	}

	metrics.FoodItemsTotal.WithLabelValues("removed").Inc()
	s.logger.Info().Str("food_item_id", itemID).Str("volunteer", volunteer).Msg("expired item removed")
	return nil
}
