package db

import (
	"context"
	"errors"
	"time"

	"github.com/rcastellanos/fleet-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by lookups whose target document does not exist.
var ErrNotFound = errors.New("document not found")

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) (primitive.ObjectID, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindVehicles(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (VehicleCursor, error)
	UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error
	DeactivateVehicle(ctx context.Context, id string) error
	// AdvanceMeter raises the stored meter readings to the given values where
	// they are greater. Lower values are ignored; the meter never regresses.
	AdvanceMeter(ctx context.Context, id string, engineHours, odometer float64) error
}

// VehicleCursor defines the interface for vehicle cursor operations.
type VehicleCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// FuelLoadCollection defines the interface for the per-vehicle fuel-load
// ledger.
type FuelLoadCollection interface {
	InsertFuelLoad(ctx context.Context, event models.FuelLoadEvent) (primitive.ObjectID, error)
	FindFuelLoadByID(ctx context.Context, id string) (*models.FuelLoadEvent, error)
	// FindLatestForVehicle returns the vehicle's most recent event by
	// loaded_at, or nil when the ledger is empty.
	FindLatestForVehicle(ctx context.Context, vehicleID primitive.ObjectID) (*models.FuelLoadEvent, error)
	// FindLatestBefore returns the chronologically-prior event for the
	// vehicle, excluding excludeID, or nil when there is none.
	FindLatestBefore(ctx context.Context, vehicleID primitive.ObjectID, before time.Time, excludeID primitive.ObjectID) (*models.FuelLoadEvent, error)
	FindFuelLoads(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (FuelLoadCursor, error)
	UpdateFuelLoad(ctx context.Context, id string, update bson.M) error
	DeleteFuelLoad(ctx context.Context, id string) error
	// AggregateStats totals liters, cost, the average rate and the event
	// count over events with a valid consumption interval only.
	AggregateStats(ctx context.Context, vehicleID primitive.ObjectID) (*models.FuelStats, error)
}

// FuelLoadCursor defines the interface for fuel-load cursor operations.
type FuelLoadCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// InspectionCollection defines the interface for inspection records.
type InspectionCollection interface {
	InsertInspection(ctx context.Context, record models.InspectionRecord) (primitive.ObjectID, error)
	FindInspectionByID(ctx context.Context, id string) (*models.InspectionRecord, error)
	FindInspections(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (InspectionCursor, error)
	UpdateInspection(ctx context.Context, id string, update bson.M) error
}

// InspectionCursor defines the interface for inspection cursor operations.
type InspectionCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// TemplateCollection defines the interface for inspection templates.
type TemplateCollection interface {
	InsertTemplate(ctx context.Context, template models.InspectionTemplate) (primitive.ObjectID, error)
	FindTemplateByID(ctx context.Context, id string) (*models.InspectionTemplate, error)
	FindTemplates(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (TemplateCursor, error)
	DeactivateTemplate(ctx context.Context, id string) error
}

// TemplateCursor defines the interface for template cursor operations.
type TemplateCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}
