package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/exes/food-network/internal/core/domain"
)

const collectionMachines = "machines"

type MachineRepository struct {
	col *mongo.Collection
}

func NewMachineRepository(db *mongo.Database) *MachineRepository {
	return &MachineRepository{col: db.Collection(collectionMachines)}
}

// Create inserts a new machine document.
func (r *MachineRepository) Create(ctx context.Context, m *domain.Machine) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, m)
	return err
}

func (r *MachineRepository) FindByID(ctx context.Context, id string) (*domain.Machine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.Machine
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMachineNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all machines ordered by registration time.
func (r *MachineRepository) List(ctx context.Context) ([]domain.Machine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]domain.Machine, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode machines: %w", err)
	}
	return out, nil
}

func (r *MachineRepository) UpdateStatus(ctx context.Context, id string, status domain.MachineStatus, capacity int, ts time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":             string(status),
			"available_capacity": capacity,
			"last_updated":       ts.UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrMachineNotFound
	}
	return nil
}

// ReserveSpace moves n units from free capacity to stocked food. The filter
// only matches when the space is there, so concurrent donations cannot
// overfill a machine.
func (r *MachineRepository) ReserveSpace(ctx context.Context, id string, n int) (*domain.Machine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":                id,
		"status":             string(domain.StatusOperational),
		"available_capacity": bson.M{"$gte": n},
	}
	update := bson.M{"$inc": bson.M{"available_capacity": -n, "available_food": n}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m domain.Machine
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&m)
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusOperational {
		return nil, domain.ErrMachineUnavailable
	}
	return nil, domain.ErrMachineFull
}

// ReleaseSpace uses a pipeline update so both counters are clamped
// atomically.
func (r *MachineRepository) ReleaseSpace(ctx context.Context, id string, n int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"available_food":     bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$available_food", n}}}},
			"available_capacity": bson.M{"$min": bson.A{domain.MaxCapacity, bson.M{"$add": bson.A{"$available_capacity", n}}}},
		}}},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrMachineNotFound
	}
	return nil
}

func (r *MachineRepository) Count(ctx context.Context, status domain.MachineStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	return r.col.CountDocuments(ctx, filter)
}

// EnsureIndexes creates necessary indexes on the machines collection.
func (r *MachineRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	})
	return err
}
