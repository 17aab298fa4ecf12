package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rcastellanos/fleet-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFuelLoadCollection implements FuelLoadCollection for MongoDB.
type MongoFuelLoadCollection struct {
	Collection *mongo.Collection
}

// mongoFuelLoadCursor wraps a MongoDB cursor for fuel-load queries.
type mongoFuelLoadCursor struct {
	cursor *mongo.Cursor
}

// All retrieves all results from the cursor.
func (m *mongoFuelLoadCursor) All(ctx context.Context, out interface{}) error {
	return m.cursor.All(ctx, out)
}

// Close closes the cursor.
func (m *mongoFuelLoadCursor) Close(ctx context.Context) error {
	return m.cursor.Close(ctx)
}

// InsertFuelLoad inserts a fuel-load event into the ledger.
func (c *MongoFuelLoadCollection) InsertFuelLoad(ctx context.Context, event models.FuelLoadEvent) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, fmt.Errorf("mongo collection is nil")
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, event)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindFuelLoadByID finds a fuel-load event by its ID.
func (c *MongoFuelLoadCollection) FindFuelLoadByID(ctx context.Context, id string) (*models.FuelLoadEvent, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var event models.FuelLoadEvent
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// FindLatestForVehicle returns the vehicle's most recent event by loaded_at,
// or nil when the ledger holds none.
func (c *MongoFuelLoadCollection) FindLatestForVehicle(ctx context.Context, vehicleID primitive.ObjectID) (*models.FuelLoadEvent, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "loaded_at", Value: -1}})
	var event models.FuelLoadEvent
	err := c.Collection.FindOne(ctx, bson.M{"vehicle_id": vehicleID}, opts).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// FindLatestBefore returns the chronologically-prior event for the vehicle,
// excluding excludeID, or nil when there is none.
func (c *MongoFuelLoadCollection) FindLatestBefore(ctx context.Context, vehicleID primitive.ObjectID, before time.Time, excludeID primitive.ObjectID) (*models.FuelLoadEvent, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	filter := bson.M{
		"vehicle_id": vehicleID,
		"loaded_at":  bson.M{"$lt": before},
		"_id":        bson.M{"$ne": excludeID},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "loaded_at", Value: -1}})
	var event models.FuelLoadEvent
	err := c.Collection.FindOne(ctx, filter, opts).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// FindFuelLoads queries fuel-load events from the collection.
func (c *MongoFuelLoadCollection) FindFuelLoads(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (FuelLoadCursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoFuelLoadCursor{cursor: cursor}, nil
}

// UpdateFuelLoad applies a $set update to a fuel-load event.
func (c *MongoFuelLoadCollection) UpdateFuelLoad(ctx context.Context, id string, update bson.M) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	update["updated_at"] = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFuelLoad hard-deletes a fuel-load event.
func (c *MongoFuelLoadCollection) DeleteFuelLoad(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// statsPipeline restricts the aggregation to events with a valid consumption
// interval; every returned figure, the count included, covers only those.
func statsPipeline(vehicleID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"vehicle_id": vehicleID, "consumption.is_valid": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":                 nil,
			"total_liters":        bson.M{"$sum": "$liters_loaded"},
			"total_cost":          bson.M{"$sum": "$cost"},
			"avg_liters_per_hour": bson.M{"$avg": "$consumption.liters_per_hour"},
			"count":               bson.M{"$sum": 1},
		}}},
	}
}

// AggregateStats totals liters, cost, the average consumption rate and the
// event count over events with a valid interval.
func (c *MongoFuelLoadCollection) AggregateStats(ctx context.Context, vehicleID primitive.ObjectID) (*models.FuelStats, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Aggregate(ctx, statsPipeline(vehicleID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats models.FuelStats
	var results []models.FuelStats
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) > 0 {
		stats = results[0]
	}
	return &stats, nil
}
