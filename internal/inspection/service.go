package inspection

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/rcastellanos/fleet-admin/internal/db"
	"github.com/rcastellanos/fleet-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Service creates inspection records and drives their approval workflow.
type Service struct {
	inspections db.InspectionCollection
	templates   db.TemplateCollection
	vehicles    db.VehicleCollection
}

// NewService creates a new inspection service.
func NewService(inspections db.InspectionCollection, templates db.TemplateCollection, vehicles db.VehicleCollection) *Service {
	return &Service{
		inspections: inspections,
		templates:   templates,
		vehicles:    vehicles,
	}
}

// CreateRequest carries an operator's inspection submission.
type CreateRequest struct {
	VehicleID           string
	TemplateID          string
	Operator            models.OperatorRef
	OperationalReadings models.OperationalReadings
	Answers             []models.Answer
	TireReadings        []models.TireReading
	SectionComments     []models.SectionComment
	TireComments        string
	GeneralComments     string
}

// Create evaluates the submission against its template and stores the
// record. The submit transition fires here, synchronously with evaluation:
// a stored record is always at least completed. Greater operational readings
// advance the vehicle's meter.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.InspectionRecord, error) {
	if req.VehicleID == "" {
		return nil, &ValidationError{Field: "vehicle_id", Message: "is required"}
	}
	if req.TemplateID == "" {
		return nil, &ValidationError{Field: "template_id", Message: "is required"}
	}
	if req.OperationalReadings.FuelLevel != "" && !models.IsValidFuelLevel(req.OperationalReadings.FuelLevel) {
		return nil, &ValidationError{Field: "operational_readings.fuel_level", Message: "unknown fuel level"}
	}

	vehicle, err := s.vehicles.FindVehicleByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	template, err := s.templates.FindTemplateByID(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	result, err := Evaluate(template, vehicle, req.Operator, Submission{
		Answers:      req.Answers,
		TireReadings: req.TireReadings,
	})
	if err != nil {
		return nil, err
	}

	w := NewWorkflow(models.StatusInProgress)
	if err := w.Submit(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	record := models.InspectionRecord{
		VehicleID:           vehicle.ID,
		TemplateID:          template.ID,
		Operator:            req.Operator,
		Answers:             result.Answers,
		TireReadings:        result.TireReadings,
		SectionComments:     req.SectionComments,
		TireComments:        req.TireComments,
		GeneralComments:     req.GeneralComments,
		OperationalReadings: req.OperationalReadings,
		HasProblems:         result.HasProblems,
		FailedAnswers:       result.FailedAnswers,
		FailedTires:         result.FailedTires,
		Signatures: models.Signatures{
			Operator: models.OperatorSignature{Signed: true, At: &now},
		},
		Status: w.Current(),
	}

	id, err := s.inspections.InsertInspection(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = id
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := s.vehicles.AdvanceMeter(ctx, req.VehicleID,
		req.OperationalReadings.EngineHours, req.OperationalReadings.Odometer); err != nil {
		log.WithError(err).WithField("vehicle_id", req.VehicleID).Error("failed to advance vehicle meter")
	}

	return &record, nil
}

// Get fetches one inspection record.
func (s *Service) Get(ctx context.Context, id string) (*models.InspectionRecord, error) {
	record, err := s.inspections.FindInspectionByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInspectionNotFound
	}
	return record, err
}

// Approve sets the orthogonal approval flag. Allowed only while the record
// is completed or pending review; re-approval is an idempotent no-op that
// keeps the original approval timestamp.
func (s *Service) Approve(ctx context.Context, id string, admin models.ApprovedBy) (*models.InspectionRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	w := NewWorkflow(record.Status)
	if !w.CanApprove() {
		return nil, ErrInvalidStateTransition
	}
	if record.Approval.Approved {
		return record, nil
	}

	now := time.Now()
	record.Approval = models.Approval{Approved: true, ApprovedAt: &now, ApprovedBy: admin}
	err = s.inspections.UpdateInspection(ctx, id, bson.M{"approval": record.Approval})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FlagForReview moves a completed record into the explicit pending_review
// status so it shows up in the admin queue.
func (s *Service) FlagForReview(ctx context.Context, id string) (*models.InspectionRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	w := NewWorkflow(record.Status)
	if err := w.FlagReview(ctx); err != nil {
		return nil, err
	}
	record.Status = w.Current()
	if err := s.inspections.UpdateInspection(ctx, id, bson.M{"status": record.Status}); err != nil {
		return nil, err
	}
	return record, nil
}

// Close is the terminal admin transition. Once closed, answers and approval
// can no longer be mutated; closing twice fails.
func (s *Service) Close(ctx context.Context, id string) (*models.InspectionRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	w := NewWorkflow(record.Status)
	if err := w.Close(ctx); err != nil {
		return nil, err
	}
	record.Status = w.Current()
	if err := s.inspections.UpdateInspection(ctx, id, bson.M{"status": record.Status}); err != nil {
		return nil, err
	}
	return record, nil
}

// SignAsMechanic records the mechanic's sign-off on a record that is not yet
// closed.
func (s *Service) SignAsMechanic(ctx context.Context, id string, mechanicID primitive.ObjectID, name string) (*models.InspectionRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == models.StatusClosed {
		return nil, ErrInvalidStateTransition
	}
	now := time.Now()
	record.Signatures.Mechanic = models.MechanicSignature{
		UserID: mechanicID,
		Name:   name,
		Signed: true,
		At:     &now,
	}
	err = s.inspections.UpdateInspection(ctx, id, bson.M{"signatures.mechanic": record.Signatures.Mechanic})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// PendingReview lists records needing admin attention: explicitly flagged
// ones plus completed records whose evaluation found problems and that are
// not yet approved. This classification is query-time; it is not a stored
// state of its own.
func (s *Service) PendingReview(ctx context.Context) ([]models.InspectionRecord, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"status": models.StatusPendingReview},
		bson.M{
			"status":            models.StatusCompleted,
			"has_problems":      true,
			"approval.approved": false,
		},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.inspections.FindInspections(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.InspectionRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
