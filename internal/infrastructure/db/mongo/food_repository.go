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

const collectionFoodItems = "food_items"

type FoodRepository struct {
	col *mongo.Collection
}

func NewFoodRepository(db *mongo.Database) *FoodRepository {
	return &FoodRepository{col: db.Collection(collectionFoodItems)}
}

// stocked matches items still physically inside a machine.
func stocked() bson.M {
	return bson.M{"dispensed": false, "removed": false}
}

func (r *FoodRepository) InsertMany(ctx context.Context, items []domain.FoodItem) error {
	if len(items) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

func (r *FoodRepository) FindByID(ctx context.Context, id string) (*domain.FoodItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var it domain.FoodItem
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&it); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFoodItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

// ClaimDispensable flips one item at a time with FindOneAndUpdate, so two
// collectors racing for the last item cannot both get it.
func (r *FoodRepository) ClaimDispensable(ctx context.Context, machineID string, day, at time.Time) (*domain.FoodItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := stocked()
	filter["machine_id"] = machineID
	filter["expiry_date"] = bson.M{"$gte": day.UTC()}

	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "expiry_date", Value: 1}, {Key: "donated_at", Value: 1}}).
		SetReturnDocument(options.After)
	var it domain.FoodItem
	err := r.col.FindOneAndUpdate(ctx, filter, bson.M{
		"$set": bson.M{"dispensed": true, "dispensed_at": at.UTC()},
	}, opts).Decode(&it)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoFoodAvailable
		}
		return nil, fmt.Errorf("claim food item: %w", err)
	}
	return &it, nil
}

// MarkRemoved only matches stocked items, so concurrent removals of the same
// item cannot both succeed.
func (r *FoodRepository) MarkRemoved(ctx context.Context, id, by string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := stocked()
	filter["_id"] = id
	res, err := r.col.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"removed": true, "removed_at": at.UTC(), "removed_by": by},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrFoodItemClosed
	}
	return nil
}

func (r *FoodRepository) ExpiredItems(ctx context.Context, machineID string, day time.Time) ([]domain.FoodItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := stocked()
	filter["machine_id"] = machineID
	filter["expiry_date"] = bson.M{"$lt": day.UTC()}

	opts := options.Find().SetSort(bson.D{{Key: "expiry_date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find expired items: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]domain.FoodItem, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode food items: %w", err)
	}
	return out, nil
}

// ExpiredByMachine groups stocked, expired items per machine and joins the
// machine address for the volunteer work list.
func (r *FoodRepository) ExpiredByMachine(ctx context.Context, day time.Time) ([]domain.ExpiredStock, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := stocked()
	match["expiry_date"] = bson.M{"$lt": day.UTC()}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$machine_id", "count": bson.M{"$sum": 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionMachines,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "machine",
		}}},
		{{Key: "$set", Value: bson.M{"address": bson.M{"$arrayElemAt": bson.A{"$machine.address", 0}}}}},
		{{Key: "$project", Value: bson.M{"machine": 0}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("expired by machine: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]domain.ExpiredStock, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode expired stock: %w", err)
	}
	return out, nil
}

func (r *FoodRepository) CountStocked(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, stocked())
}

func (r *FoodRepository) CountExpired(ctx context.Context, day time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := stocked()
	filter["expiry_date"] = bson.M{"$lt": day.UTC()}
	return r.col.CountDocuments(ctx, filter)
}

func (r *FoodRepository) CountDispensed(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{"dispensed": true})
}

// EnsureIndexes creates necessary indexes on the food_items collection.
func (r *FoodRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "machine_id", Value: 1}, {Key: "expiry_date", Value: 1}}},
		{Keys: bson.D{{Key: "dispensed", Value: 1}, {Key: "removed", Value: 1}}},
	})
	return err
}
