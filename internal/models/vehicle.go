package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// FuelType enumerates the fuel a vehicle runs on.
type FuelType string

const (
	FuelDiesel   FuelType = "diesel"
	FuelGasoline FuelType = "gasoline"
	FuelGas      FuelType = "gas"
)

// IsValidFuelType checks if a fuel type is valid.
func IsValidFuelType(ft FuelType) bool {
	switch ft {
	case FuelDiesel, FuelGasoline, FuelGas:
		return true
	default:
		return false
	}
}

// MeterState holds the vehicle's current best-known readings. Values only
// advance; a lower reading never overwrites a stored one.
type MeterState struct {
	EngineHours float64 `bson:"engine_hours" json:"engine_hours"`
	Odometer    float64 `bson:"odometer" json:"odometer"`
}

// Tire sides.
const (
	SideLeft  = "left"
	SideRight = "right"
)

// TirePosition describes one tire slot in the vehicle's configuration.
// The configured set is authoritative for inspection submissions.
type TirePosition struct {
	Position   string `bson:"position" json:"position"` // e.g. "1L", "2R-outer"
	AxleNumber int    `bson:"axle_number" json:"axle_number"`
	Side       string `bson:"side" json:"side"` // "left" or "right"
}

// Vehicle represents a fleet vehicle. The embedded meter state is the single
// source of truth consulted and advanced by fuel loads and inspections.
type Vehicle struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Plate     string             `bson:"plate" json:"plate"`
	Brand     string             `bson:"brand" json:"brand"`
	Model     string             `bson:"model" json:"model"`
	Year      int                `bson:"year" json:"year"`
	Site      string             `bson:"site" json:"site"` // owning sede
	Area      string             `bson:"area" json:"area"`
	FuelType  FuelType           `bson:"fuel_type" json:"fuel_type"`
	Meter     MeterState         `bson:"meter" json:"meter"`
	Tires     []TirePosition     `bson:"tires" json:"tires"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
