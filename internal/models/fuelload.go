package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// RecordedBy identifies who submitted a fuel load.
type RecordedBy struct {
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name   string             `bson:"name" json:"name"`
	Role   Role               `bson:"role" json:"role"` // "operator" or "admin"
}

// Consumption is the derived rate block computed on insert and on
// recalculation; it is never user-supplied.
type Consumption struct {
	PriorEngineHours   float64 `bson:"prior_engine_hours" json:"prior_engine_hours"`
	CurrentEngineHours float64 `bson:"current_engine_hours" json:"current_engine_hours"`
	HoursWorked        float64 `bson:"hours_worked" json:"hours_worked"`
	LitersPerHour      float64 `bson:"liters_per_hour" json:"liters_per_hour"`
	IsValid            bool    `bson:"is_valid" json:"is_valid"`
}

// FuelLoadEvent represents one fuel load in a vehicle's per-vehicle ordered
// ledger. Events are ordered by loaded_at descending for "previous event"
// lookups.
type FuelLoadEvent struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID         primitive.ObjectID `bson:"vehicle_id" json:"vehicle_id"`
	LoadedAt          time.Time          `bson:"loaded_at" json:"loaded_at"`
	LitersLoaded      float64            `bson:"liters_loaded" json:"liters_loaded"`
	EngineHoursAtLoad float64            `bson:"engine_hours_at_load" json:"engine_hours_at_load"`
	OdometerAtLoad    float64            `bson:"odometer_at_load,omitempty" json:"odometer_at_load,omitempty"`
	FuelType          FuelType           `bson:"fuel_type" json:"fuel_type"`
	Cost              float64            `bson:"cost,omitempty" json:"cost,omitempty"` // in local currency
	Station           string             `bson:"station,omitempty" json:"station,omitempty"`
	TicketNumber      string             `bson:"ticket_number,omitempty" json:"ticket_number,omitempty"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	RecordedBy        RecordedBy         `bson:"recorded_by" json:"recorded_by"`
	Consumption       Consumption        `bson:"consumption" json:"consumption"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// FuelStats aggregates a vehicle's ledger. Every figure, Count included,
// covers only events whose consumption interval was valid.
type FuelStats struct {
	TotalLiters      float64 `bson:"total_liters" json:"total_liters"`
	TotalCost        float64 `bson:"total_cost" json:"total_cost"`
	AvgLitersPerHour float64 `bson:"avg_liters_per_hour" json:"avg_liters_per_hour"`
	Count            int64   `bson:"count" json:"count"`
}
