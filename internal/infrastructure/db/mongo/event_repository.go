package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/ports"
)

const collectionMachineEvents = "machine_events"

// EventRepository implements ports.TelemetryRepository using MongoDB.
type EventRepository struct {
	db *mongo.Database
}

func NewEventRepository(db *mongo.Database) ports.TelemetryRepository {
	return &EventRepository{db: db}
}

// InsertEvent persists a heartbeat to the machine_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.TelemetryEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"machine_id":         event.MachineID,
		"status":             string(event.Status),
		"available_capacity": event.AvailableCapacity,
		"timestamp":          event.Timestamp.UTC(),
		"processed_at":       time.Now().UTC(),
	}
	if event.ErrorCode != "" {
		doc["error_code"] = event.ErrorCode
	}

	_, err := r.db.Collection(collectionMachineEvents).InsertOne(ctx, doc)
	return err
}
