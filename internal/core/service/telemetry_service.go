package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/exes/food-network/internal/api/metrics"
	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, machineID string, ts time.Time) (bool, error)
	Mark(ctx context.Context, machineID string, ts time.Time) error
}

type telemetryService struct {
	machines  ports.MachineRepository
	events    ports.TelemetryRepository
	dedup     DedupChecker
	publisher ports.StatusPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewTelemetryService returns a TelemetryService implementation. publisher may
// be nil when no message bus is configured.
func NewTelemetryService(
	machines ports.MachineRepository,
	events ports.TelemetryRepository,
	dedup DedupChecker,
	publisher ports.StatusPublisher,
	log zerolog.Logger,
) ports.TelemetryService {
	return &telemetryService{
		machines:  machines,
		events:    events,
		dedup:     dedup,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Process validates, deduplicates, and persists a single machine heartbeat.
func (s *telemetryService) Process(ctx context.Context, in ports.TelemetryEventInput) error {
	ctx, span := tracer.Start(ctx, "TelemetryService.Process")
	defer span.End()

	start := s.now()
	ts := in.Timestamp.UTC()
	if in.Timestamp.IsZero() {
		ts = start.UTC()
	}

	// 1. Idempotency check: silently skip duplicates.
	isDup, err := s.dedup.IsDuplicate(ctx, in.MachineID, ts)
	if err != nil {
		s.log.Warn().Err(err).Str("machine_id", in.MachineID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.TelemetryDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("machine_id", in.MachineID).Time("ts", ts).Msg("duplicate heartbeat skipped")
		return nil
	}
	metrics.TelemetryDedupTotal.WithLabelValues("miss").Inc()

	machine, err := s.machines.FindByID(ctx, in.MachineID)
	if err != nil {
		metrics.TelemetryErrorsTotal.WithLabelValues("machine_not_found").Inc()
		return fmt.Errorf("process telemetry: %w", err)
	}

	// 2. Per-machine ordering is guaranteed by the dispatcher; anything older
	// than the stored state is a late retry.
	if ts.Before(machine.LastUpdated) {
		metrics.TelemetryErrorsTotal.WithLabelValues("stale").Inc()
		s.log.Debug().Str("machine_id", in.MachineID).Time("ts", ts).Msg("stale heartbeat ignored")
		return nil
	}

	if markErr := s.dedup.Mark(ctx, in.MachineID, ts); markErr != nil {
		s.log.Warn().Err(markErr).Str("machine_id", in.MachineID).Msg("failed to set dedup key")
	}

	event := &domain.TelemetryEvent{
		MachineID:         in.MachineID,
		AvailableCapacity: domain.ClampCapacity(in.AvailableCapacity),
		ErrorCode:         in.ErrorCode,
		Status:            domain.StatusFromErrorCode(in.ErrorCode),
		Timestamp:         ts,
	}

	if err := s.machines.UpdateStatus(ctx, in.MachineID, event.Status, event.AvailableCapacity, ts); err != nil {
		metrics.TelemetryErrorsTotal.WithLabelValues("update_failed").Inc()
		return fmt.Errorf("process telemetry: update status: %w", err)
	}

	// Audit trail and fan-out are best effort.
	if err := s.events.InsertEvent(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("machine_id", in.MachineID).Msg("failed to insert audit event")
	}
	if s.publisher != nil {
		if err := s.publisher.PublishStatus(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("machine_id", in.MachineID).Msg("failed to publish status")
		}
	}

	metrics.TelemetryProcessedTotal.WithLabelValues(string(event.Status)).Inc()
	metrics.TelemetryProcessingDuration.WithLabelValues(string(event.Status)).Observe(s.now().Sub(start).Seconds())

	if machine.Status != event.Status {
		s.log.Info().
			Str("machine_id", in.MachineID).
			Str("from", string(machine.Status)).
			Str("to", string(event.Status)).
			Msg("machine status changed")
	}
	return nil
}
