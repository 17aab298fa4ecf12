package fuel

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/rcastellanos/fleet-admin/internal/db"
	"github.com/rcastellanos/fleet-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Service maintains the per-vehicle fuel-load ledger and its derived
// consumption rates. The read-compute-write sequence of a submission is
// serialized per vehicle so two concurrent loads cannot be accepted against
// the same baseline.
type Service struct {
	vehicles db.VehicleCollection
	loads    db.FuelLoadCollection

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a new fuel ledger service.
func NewService(vehicles db.VehicleCollection, loads db.FuelLoadCollection) *Service {
	return &Service{
		vehicles: vehicles,
		loads:    loads,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockVehicle serializes ledger writes for one vehicle. Returns the unlock
// function.
func (s *Service) lockVehicle(vehicleID string) func() {
	s.mu.Lock()
	l, ok := s.locks[vehicleID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[vehicleID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// computeConsumption derives the rate block from the baseline reading.
// A zero interval is not an error: the rate is zeroed and marked invalid.
// A negative interval should have been rejected before this point; it is
// stored as-is but marked invalid as a second safety net.
func computeConsumption(baseline, current, liters float64) models.Consumption {
	c := models.Consumption{
		PriorEngineHours:   baseline,
		CurrentEngineHours: current,
		HoursWorked:        current - baseline,
	}
	if c.HoursWorked > 0 {
		c.LitersPerHour = math.Round(liters/c.HoursWorked*100) / 100
		c.IsValid = true
	}
	return c
}

// SubmitRequest carries an operator's or admin's fuel-load submission.
type SubmitRequest struct {
	VehicleID         string
	LitersLoaded      float64
	EngineHoursAtLoad float64
	OdometerAtLoad    float64
	FuelType          models.FuelType
	Cost              float64
	Station           string
	TicketNumber      string
	Notes             string
	LoadedAt          *time.Time
	RecordedBy        models.RecordedBy
}

// Submit validates a fuel load against the vehicle's ledger, computes its
// consumption rate and appends it. The baseline is the latest prior event's
// engine-hours reading, or the vehicle's meter when the ledger is empty.
// Submissions whose reading regresses fail with InvalidMeterReadingError.
// On success the vehicle meter is advanced if the new readings exceed it.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.FuelLoadEvent, error) {
	if req.VehicleID == "" {
		return nil, &ValidationError{Field: "vehicle_id", Message: "is required"}
	}
	if req.LitersLoaded <= 0 {
		return nil, &ValidationError{Field: "liters_loaded", Message: "must be greater than zero"}
	}
	if req.EngineHoursAtLoad < 0 {
		return nil, &ValidationError{Field: "engine_hours_at_load", Message: "must not be negative"}
	}
	if req.OdometerAtLoad < 0 {
		return nil, &ValidationError{Field: "odometer_at_load", Message: "must not be negative"}
	}
	if req.FuelType != "" && !models.IsValidFuelType(req.FuelType) {
		return nil, &ValidationError{Field: "fuel_type", Message: "unknown fuel type"}
	}

	unlock := s.lockVehicle(req.VehicleID)
	defer unlock()

	vehicle, err := s.vehicles.FindVehicleByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	baseline := vehicle.Meter.EngineHours
	prior, err := s.loads.FindLatestForVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		baseline = prior.EngineHoursAtLoad
	}

	if req.EngineHoursAtLoad < baseline {
		return nil, &InvalidMeterReadingError{Reading: req.EngineHoursAtLoad, PriorReading: baseline}
	}

	loadedAt := time.Now()
	if req.LoadedAt != nil {
		loadedAt = *req.LoadedAt
	}
	fuelType := req.FuelType
	if fuelType == "" {
		fuelType = vehicle.FuelType
	}

	event := models.FuelLoadEvent{
		VehicleID:         vehicle.ID,
		LoadedAt:          loadedAt,
		LitersLoaded:      req.LitersLoaded,
		EngineHoursAtLoad: req.EngineHoursAtLoad,
		OdometerAtLoad:    req.OdometerAtLoad,
		FuelType:          fuelType,
		Cost:              req.Cost,
		Station:           req.Station,
		TicketNumber:      req.TicketNumber,
		Notes:             req.Notes,
		RecordedBy:        req.RecordedBy,
		Consumption:       computeConsumption(baseline, req.EngineHoursAtLoad, req.LitersLoaded),
	}

	id, err := s.loads.InsertFuelLoad(ctx, event)
	if err != nil {
		return nil, err
	}
	event.ID = id

	if err := s.vehicles.AdvanceMeter(ctx, req.VehicleID, req.EngineHoursAtLoad, req.OdometerAtLoad); err != nil {
		log.WithError(err).WithField("vehicle_id", req.VehicleID).Error("failed to advance vehicle meter")
	}

	return &event, nil
}

// EditRequest carries the mutable fields of a fuel-load event. Nil pointers
// leave a field untouched.
type EditRequest struct {
	LitersLoaded      *float64
	EngineHoursAtLoad *float64
	OdometerAtLoad    *float64
	FuelType          *models.FuelType
	Cost              *float64
	Station           *string
	TicketNumber      *string
	Notes             *string
	LoadedAt          *time.Time
}

// Edit updates an event's mutable fields. When liters or engine hours
// change, only this event's derived block is recomputed, against its
// immediate predecessor. A recalculation failure leaves the derived fields
// unchanged; the non-derived edit still stands.
func (s *Service) Edit(ctx context.Context, id string, req EditRequest) (*models.FuelLoadEvent, error) {
	event, err := s.loads.FindFuelLoadByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	unlock := s.lockVehicle(event.VehicleID.Hex())
	defer unlock()

	update := bson.M{}
	recalc := false
	if req.LitersLoaded != nil {
		if *req.LitersLoaded <= 0 {
			return nil, &ValidationError{Field: "liters_loaded", Message: "must be greater than zero"}
		}
		update["liters_loaded"] = *req.LitersLoaded
		recalc = true
	}
	if req.EngineHoursAtLoad != nil {
		if *req.EngineHoursAtLoad < 0 {
			return nil, &ValidationError{Field: "engine_hours_at_load", Message: "must not be negative"}
		}
		update["engine_hours_at_load"] = *req.EngineHoursAtLoad
		recalc = true
	}
	if req.OdometerAtLoad != nil {
		update["odometer_at_load"] = *req.OdometerAtLoad
	}
	if req.FuelType != nil {
		if !models.IsValidFuelType(*req.FuelType) {
			return nil, &ValidationError{Field: "fuel_type", Message: "unknown fuel type"}
		}
		update["fuel_type"] = *req.FuelType
	}
	if req.Cost != nil {
		update["cost"] = *req.Cost
	}
	if req.Station != nil {
		update["station"] = *req.Station
	}
	if req.TicketNumber != nil {
		update["ticket_number"] = *req.TicketNumber
	}
	if req.Notes != nil {
		update["notes"] = *req.Notes
	}
	if req.LoadedAt != nil {
		update["loaded_at"] = *req.LoadedAt
		recalc = true
	}
	if len(update) == 0 {
		return event, nil
	}

	if err := s.loads.UpdateFuelLoad(ctx, id, update); err != nil {
		return nil, err
	}

	if recalc {
		updated, err := s.recalculate(ctx, id)
		if err != nil {
			log.WithError(err).WithField("fuel_load_id", id).
				Warn("recalculation failed, derived fields left unchanged")
		} else {
			return updated, nil
		}
	}
	return s.loads.FindFuelLoadByID(ctx, id)
}

// Delete hard-deletes an event. Neighboring events keep their derived rates;
// recalculation stays scoped to edited events only.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.loads.DeleteFuelLoad(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}

// Recalculate recomputes one event's derived block against its
// chronologically-prior event, baseline 0 when none exists. Idempotent for
// unchanged inputs.
func (s *Service) Recalculate(ctx context.Context, id string) (*models.FuelLoadEvent, error) {
	event, err := s.loads.FindFuelLoadByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	unlock := s.lockVehicle(event.VehicleID.Hex())
	defer unlock()
	return s.recalculate(ctx, id)
}

// recalculate assumes the caller holds the vehicle lock.
func (s *Service) recalculate(ctx context.Context, id string) (*models.FuelLoadEvent, error) {
	event, err := s.loads.FindFuelLoadByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	baseline := 0.0
	prior, err := s.loads.FindLatestBefore(ctx, event.VehicleID, event.LoadedAt, event.ID)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		baseline = prior.EngineHoursAtLoad
	}

	cons := computeConsumption(baseline, event.EngineHoursAtLoad, event.LitersLoaded)
	if err := s.loads.UpdateFuelLoad(ctx, id, bson.M{"consumption": cons}); err != nil {
		return nil, err
	}
	event.Consumption = cons
	return event, nil
}

// StatsForVehicle aggregates the vehicle's ledger over events with a valid
// consumption interval; invalid-interval events are excluded from every
// figure, the count included.
func (s *Service) StatsForVehicle(ctx context.Context, vehicleID string) (*models.FuelStats, error) {
	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return nil, &ValidationError{Field: "vehicle_id", Message: "invalid ID"}
	}
	return s.loads.AggregateStats(ctx, objectID)
}

// ListForVehicle returns the vehicle's events ordered loaded_at descending.
func (s *Service) ListForVehicle(ctx context.Context, vehicleID string, limit, offset int64) ([]models.FuelLoadEvent, error) {
	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return nil, &ValidationError{Field: "vehicle_id", Message: "invalid ID"}
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "loaded_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)
	cursor, err := s.loads.FindFuelLoads(ctx, bson.M{"vehicle_id": objectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.FuelLoadEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
