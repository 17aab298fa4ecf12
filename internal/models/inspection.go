package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// CheckState is an operator's Bien/Mal judgement on a checklist item or tire
// measurement. The values are kept in Spanish to match the forms the
// operators fill in.
type CheckState string

const (
	CheckOK   CheckState = "Bien"
	CheckFail CheckState = "Mal"
)

// IsValidCheckState checks if a check state is a recognized value.
func IsValidCheckState(s CheckState) bool {
	return s == CheckOK || s == CheckFail
}

// InspectionStatus is the workflow state of an inspection record.
type InspectionStatus string

const (
	StatusInProgress    InspectionStatus = "in_progress"
	StatusCompleted     InspectionStatus = "completed"
	StatusPendingReview InspectionStatus = "pending_review"
	StatusClosed        InspectionStatus = "closed"
)

// IsValid returns true if the status is a recognized value.
func (s InspectionStatus) IsValid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusPendingReview, StatusClosed:
		return true
	}
	return false
}

// FuelLevel is the coarse gauge reading captured on submission.
type FuelLevel string

const (
	FuelLevelFull          FuelLevel = "full"
	FuelLevelThreeQuarters FuelLevel = "3/4"
	FuelLevelHalf          FuelLevel = "1/2"
	FuelLevelQuarter       FuelLevel = "1/4"
	FuelLevelReserve       FuelLevel = "reserve"
)

// IsValidFuelLevel checks if a fuel level is a recognized value.
func IsValidFuelLevel(l FuelLevel) bool {
	switch l {
	case FuelLevelFull, FuelLevelThreeQuarters, FuelLevelHalf, FuelLevelQuarter, FuelLevelReserve:
		return true
	}
	return false
}

// Answer is one submitted checklist answer. Section name and order are
// copied from the template at submission time so later template edits do not
// alter historical records.
type Answer struct {
	QuestionNumber int        `bson:"question_number" json:"question_number"`
	QuestionText   string     `bson:"question_text" json:"question_text"`
	Value          CheckState `bson:"value" json:"value"`
	SectionName    string     `bson:"section_name" json:"section_name"`
	SectionOrder   int        `bson:"section_order" json:"section_order"`
	Notes          string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// TireReading is one tire's measured pressure and tread plus the operator's
// judgement of each. Measurements are informational; only the states flag.
type TireReading struct {
	Position         string     `bson:"position" json:"position"`
	AxleNumber       int        `bson:"axle_number" json:"axle_number"`
	Side             string     `bson:"side" json:"side"`
	PressureMeasured float64    `bson:"pressure_measured" json:"pressure_measured"`
	PressureState    CheckState `bson:"pressure_state" json:"pressure_state"`
	TreadMeasured    float64    `bson:"tread_measured" json:"tread_measured"`
	TreadState       CheckState `bson:"tread_state" json:"tread_state"`
}

// SectionComment is a free-text comment attached to a template section.
type SectionComment struct {
	SectionName  string `bson:"section_name" json:"section_name"`
	SectionOrder int    `bson:"section_order" json:"section_order"`
	Comment      string `bson:"comment" json:"comment"`
}

// OperationalReadings are the meter readings captured on submission. Greater
// readings advance the vehicle's meter state.
type OperationalReadings struct {
	FuelLevel   FuelLevel `bson:"fuel_level" json:"fuel_level"`
	Odometer    float64   `bson:"odometer" json:"odometer"`
	EngineHours float64   `bson:"engine_hours" json:"engine_hours"`
}

// OperatorRef identifies the submitting operator.
type OperatorRef struct {
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name         string             `bson:"name" json:"name"`
	LicenseValid bool               `bson:"license_valid" json:"license_valid"`
}

// OperatorSignature records the operator's sign-off.
type OperatorSignature struct {
	Signed bool       `bson:"signed" json:"signed"`
	At     *time.Time `bson:"at,omitempty" json:"at,omitempty"`
}

// MechanicSignature records the mechanic's later sign-off, if any.
type MechanicSignature struct {
	UserID primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Name   string             `bson:"name,omitempty" json:"name,omitempty"`
	Signed bool               `bson:"signed" json:"signed"`
	At     *time.Time         `bson:"at,omitempty" json:"at,omitempty"`
}

// Signatures groups the record's sign-offs.
type Signatures struct {
	Operator OperatorSignature `bson:"operator" json:"operator"`
	Mechanic MechanicSignature `bson:"mechanic" json:"mechanic"`
}

// ApprovedBy identifies the approving admin.
type ApprovedBy struct {
	AdminID primitive.ObjectID `bson:"admin_id" json:"admin_id"`
	Name    string             `bson:"name" json:"name"`
}

// Approval is the orthogonal admin sign-off flag. Settable only while the
// record is completed or pending review.
type Approval struct {
	Approved   bool       `bson:"approved" json:"approved"`
	ApprovedAt *time.Time `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	ApprovedBy ApprovedBy `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
}

// InspectionRecord is one operator-submitted inspection ("revision").
// HasProblems, FailedAnswers and FailedTires are derived at submission and
// retained for fast downstream querying.
type InspectionRecord struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	VehicleID           primitive.ObjectID  `bson:"vehicle_id" json:"vehicle_id"`
	TemplateID          primitive.ObjectID  `bson:"template_id" json:"template_id"`
	Operator            OperatorRef         `bson:"operator" json:"operator"`
	Answers             []Answer            `bson:"answers" json:"answers"`
	TireReadings        []TireReading       `bson:"tire_readings" json:"tire_readings"`
	SectionComments     []SectionComment    `bson:"section_comments,omitempty" json:"section_comments,omitempty"`
	TireComments        string              `bson:"tire_comments,omitempty" json:"tire_comments,omitempty"`
	GeneralComments     string              `bson:"general_comments,omitempty" json:"general_comments,omitempty"`
	OperationalReadings OperationalReadings `bson:"operational_readings" json:"operational_readings"`
	HasProblems         bool                `bson:"has_problems" json:"has_problems"`
	FailedAnswers       []Answer            `bson:"failed_answers" json:"failed_answers"`
	FailedTires         []TireReading       `bson:"failed_tires" json:"failed_tires"`
	Signatures          Signatures          `bson:"signatures" json:"signatures"`
	Approval            Approval            `bson:"approval" json:"approval"`
	Status              InspectionStatus    `bson:"status" json:"status"`
	CreatedAt           time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time           `bson:"updated_at" json:"updated_at"`
}
