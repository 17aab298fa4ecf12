package inspection

import (
	"fmt"

	"github.com/rcastellanos/fleet-admin/internal/models"
)

// Submission is the operator-entered part of an inspection: checklist
// answers and tire measurements.
type Submission struct {
	Answers      []models.Answer
	TireReadings []models.TireReading
}

// EvalResult is the checklist engine's structured pass/fail summary.
// Answers carry the section snapshot copied from the template; the failed
// lists are filtered views retained on the record so reporting never
// re-scans the full answer set.
type EvalResult struct {
	Answers       []models.Answer
	TireReadings  []models.TireReading
	HasProblems   bool
	FailedAnswers []models.Answer
	FailedTires   []models.TireReading
}

// Evaluate checks a submission against the template and the vehicle's tire
// configuration and derives the problem summary.
//
// hasProblems is true iff at least one answer is Mal or at least one tire
// has either state Mal. Numeric tire measurements are advisory only; a
// value outside the template's declared range does not itself flag a
// problem, the operator's explicit state does.
func Evaluate(template *models.InspectionTemplate, vehicle *models.Vehicle, operator models.OperatorRef, sub Submission) (*EvalResult, error) {
	if template.RequiresValidLicense && !operator.LicenseValid {
		return nil, &ValidationError{Field: "operator", Message: "operator license is not valid"}
	}

	answered := make(map[int]*models.Answer, len(sub.Answers))
	for i := range sub.Answers {
		a := &sub.Answers[i]
		if !models.IsValidCheckState(a.Value) {
			return nil, &ValidationError{
				Field:   "answers",
				Message: fmt.Sprintf("question %d has an unknown value %q", a.QuestionNumber, a.Value),
			}
		}
		if _, dup := answered[a.QuestionNumber]; dup {
			return nil, &ValidationError{
				Field:   "answers",
				Message: fmt.Sprintf("question %d answered more than once", a.QuestionNumber),
			}
		}
		if _, _, ok := template.FindQuestion(a.QuestionNumber); !ok {
			return nil, &ValidationError{
				Field:   "answers",
				Message: fmt.Sprintf("question %d is not part of the template", a.QuestionNumber),
			}
		}
		answered[a.QuestionNumber] = a
	}

	// Every template question requires an answer. The answers are rebuilt in
	// section order with the section snapshot copied from the template, so a
	// later template edit never alters this record.
	result := &EvalResult{TireReadings: sub.TireReadings}
	for i := range template.Sections {
		section := &template.Sections[i]
		for j := range section.Questions {
			q := &section.Questions[j]
			a, ok := answered[q.Number]
			if !ok {
				return nil, &ValidationError{
					Field:   "answers",
					Message: fmt.Sprintf("question %d is missing", q.Number),
				}
			}
			snap := models.Answer{
				QuestionNumber: q.Number,
				QuestionText:   q.Text,
				Value:          a.Value,
				SectionName:    section.Name,
				SectionOrder:   section.Order,
				Notes:          a.Notes,
			}
			result.Answers = append(result.Answers, snap)
			if snap.Value == models.CheckFail {
				result.FailedAnswers = append(result.FailedAnswers, snap)
			}
		}
	}

	// Tire states are validated and scanned whether or not the template's
	// tire block is active: the readings are stored on the record either way,
	// so a Mal state must always surface in the problem summary. Only the
	// completeness requirement is tied to the template.
	for _, tr := range sub.TireReadings {
		if !models.IsValidCheckState(tr.PressureState) || !models.IsValidCheckState(tr.TreadState) {
			return nil, &ValidationError{
				Field:   "tire_readings",
				Message: fmt.Sprintf("tire %s has an unknown state", tr.Position),
			}
		}
	}
	if template.TireInspection.Active {
		if err := checkTireReadings(vehicle, sub.TireReadings); err != nil {
			return nil, err
		}
	}
	for _, tr := range sub.TireReadings {
		if tr.PressureState == models.CheckFail || tr.TreadState == models.CheckFail {
			result.FailedTires = append(result.FailedTires, tr)
		}
	}

	result.HasProblems = len(result.FailedAnswers) > 0 || len(result.FailedTires) > 0
	return result, nil
}

// checkTireReadings verifies every configured tire position was measured.
// The vehicle's configured tire set is authoritative.
func checkTireReadings(vehicle *models.Vehicle, readings []models.TireReading) error {
	seen := make(map[string]bool, len(readings))
	for _, tr := range readings {
		seen[tr.Position] = true
	}
	for _, pos := range vehicle.Tires {
		if !seen[pos.Position] {
			return &ValidationError{
				Field:   "tire_readings",
				Message: fmt.Sprintf("tire position %s is missing", pos.Position),
			}
		}
	}
	return nil
}
