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

// MongoInspectionCollection implements InspectionCollection for MongoDB.
type MongoInspectionCollection struct {
	Collection *mongo.Collection
}

// mongoInspectionCursor wraps a MongoDB cursor for inspection queries.
type mongoInspectionCursor struct {
	cursor *mongo.Cursor
}

// All retrieves all results from the cursor.
func (m *mongoInspectionCursor) All(ctx context.Context, out interface{}) error {
	return m.cursor.All(ctx, out)
}

// Close closes the cursor.
func (m *mongoInspectionCursor) Close(ctx context.Context) error {
	return m.cursor.Close(ctx)
}

// InsertInspection inserts an inspection record into the collection.
func (c *MongoInspectionCollection) InsertInspection(ctx context.Context, record models.InspectionRecord) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, fmt.Errorf("mongo collection is nil")
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindInspectionByID finds an inspection record by its ID.
func (c *MongoInspectionCollection) FindInspectionByID(ctx context.Context, id string) (*models.InspectionRecord, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var record models.InspectionRecord
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindInspections queries inspection records from the collection.
func (c *MongoInspectionCollection) FindInspections(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (InspectionCursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoInspectionCursor{cursor: cursor}, nil
}

// UpdateInspection applies a $set update to an inspection record.
func (c *MongoInspectionCollection) UpdateInspection(ctx context.Context, id string, update bson.M) error {
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
