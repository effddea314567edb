package ports

import (
	"context"
	"time"

	"github.com/exes/food-network/internal/core/domain"
)

// TelemetryEventInput is the DTO passed from the transport layer to TelemetryService.
type TelemetryEventInput struct {
	MachineID         string
	AvailableCapacity int
	ErrorCode         string
	Timestamp         time.Time
}

// TelemetryService processes machine heartbeats.
type TelemetryService interface {
	Process(ctx context.Context, event TelemetryEventInput) error
}

// TelemetryRepository persists the machine event audit trail.
type TelemetryRepository interface {
	InsertEvent(ctx context.Context, event *domain.TelemetryEvent) error
}

// StatusPublisher fans machine status changes out to other services.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, event *domain.TelemetryEvent) error
}
