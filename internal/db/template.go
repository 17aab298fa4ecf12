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

// MongoTemplateCollection implements TemplateCollection for MongoDB.
type MongoTemplateCollection struct {
	Collection *mongo.Collection
}

// mongoTemplateCursor wraps a MongoDB cursor for template queries.
type mongoTemplateCursor struct {
	cursor *mongo.Cursor
}

// All retrieves all results from the cursor.
func (m *mongoTemplateCursor) All(ctx context.Context, out interface{}) error {
	return m.cursor.All(ctx, out)
}

// Close closes the cursor.
func (m *mongoTemplateCursor) Close(ctx context.Context) error {
	return m.cursor.Close(ctx)
}

// InsertTemplate inserts an inspection template into the collection.
func (c *MongoTemplateCollection) InsertTemplate(ctx context.Context, template models.InspectionTemplate) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, fmt.Errorf("mongo collection is nil")
	}
	template.CreatedAt = time.Now()
	template.UpdatedAt = time.Now()
	template.Active = true
	res, err := c.Collection.InsertOne(ctx, template)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindTemplateByID finds a template by its ID.
func (c *MongoTemplateCollection) FindTemplateByID(ctx context.Context, id string) (*models.InspectionTemplate, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var template models.InspectionTemplate
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&template)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// FindTemplates queries templates from the collection.
func (c *MongoTemplateCollection) FindTemplates(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (TemplateCursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoTemplateCursor{cursor: cursor}, nil
}

// DeactivateTemplate soft-deletes a template by clearing its active flag.
func (c *MongoTemplateCollection) DeactivateTemplate(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"active": false, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
