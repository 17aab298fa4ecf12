package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// TemplateQuestion is one checklist item. Numbers are unique within a
// template.
type TemplateQuestion struct {
	Number int    `bson:"number" json:"number"`
	Text   string `bson:"text" json:"text"`
}

// TemplateSection groups questions; Order defines display and aggregation
// order.
type TemplateSection struct {
	Name               string             `bson:"name" json:"name"`
	Order              int                `bson:"order" json:"order"`
	Questions          []TemplateQuestion `bson:"questions" json:"questions"`
	AllowsComments     bool               `bson:"allows_comments" json:"allows_comments"`
	CommentPlaceholder string             `bson:"comment_placeholder,omitempty" json:"comment_placeholder,omitempty"`
}

// MeasurementRange is an advisory min/max for a tire measurement. Values
// outside the range do not flag a problem on their own; only the explicit
// Bien/Mal state does.
type MeasurementRange struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

// TireInspectionConfig enables the tire-measurement block of a template.
type TireInspectionConfig struct {
	Active         bool             `bson:"active" json:"active"`
	PressureRange  MeasurementRange `bson:"pressure_range" json:"pressure_range"`
	TreadRange     MeasurementRange `bson:"tread_range" json:"tread_range"`
	AllowsComments bool             `bson:"allows_comments" json:"allows_comments"`
}

// InspectionTemplate is the admin-authored checklist definition. Read-mostly:
// submissions snapshot what they need from it, so later edits never alter
// historical records.
type InspectionTemplate struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name                 string               `bson:"name" json:"name"`
	Sections             []TemplateSection    `bson:"sections" json:"sections"`
	TireInspection       TireInspectionConfig `bson:"tire_inspection" json:"tire_inspection"`
	RequiresValidLicense bool                 `bson:"requires_valid_license" json:"requires_valid_license"`
	Active               bool                 `bson:"active" json:"active"`
	CreatedAt            time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time            `bson:"updated_at" json:"updated_at"`
}

// FindQuestion locates a question by number and returns its owning section.
func (t *InspectionTemplate) FindQuestion(number int) (*TemplateSection, *TemplateQuestion, bool) {
	for i := range t.Sections {
		for j := range t.Sections[i].Questions {
			if t.Sections[i].Questions[j].Number == number {
				return &t.Sections[i], &t.Sections[i].Questions[j], true
			}
		}
	}
	return nil, nil, false
}

// QuestionCount returns the total number of questions across sections.
func (t *InspectionTemplate) QuestionCount() int {
	n := 0
	for i := range t.Sections {
		n += len(t.Sections[i].Questions)
	}
	return n
}
