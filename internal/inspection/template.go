package inspection

import (
	"fmt"

	"github.com/rcastellanos/fleet-admin/internal/models"
)

// ValidateTemplate checks an admin-authored template before it is stored:
// at least one question, unique question numbers across the whole template,
// and coherent advisory ranges when the tire block is active.
func ValidateTemplate(t *models.InspectionTemplate) error {
	if t.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if t.QuestionCount() == 0 {
		return &ValidationError{Field: "sections", Message: "template has no questions"}
	}

	seen := make(map[int]bool)
	for i := range t.Sections {
		section := &t.Sections[i]
		if section.Name == "" {
			return &ValidationError{Field: "sections", Message: "section name is required"}
		}
		for j := range section.Questions {
			q := &section.Questions[j]
			if q.Text == "" {
				return &ValidationError{
					Field:   "sections",
					Message: fmt.Sprintf("question %d has no text", q.Number),
				}
			}
			if seen[q.Number] {
				return &ValidationError{
					Field:   "sections",
					Message: fmt.Sprintf("question number %d is duplicated", q.Number),
				}
			}
			seen[q.Number] = true
		}
	}

	if t.TireInspection.Active {
		if t.TireInspection.PressureRange.Min > t.TireInspection.PressureRange.Max {
			return &ValidationError{Field: "tire_inspection", Message: "pressure range min exceeds max"}
		}
		if t.TireInspection.TreadRange.Min > t.TireInspection.TreadRange.Max {
			return &ValidationError{Field: "tire_inspection", Message: "tread range min exceeds max"}
		}
	}
	return nil
}
