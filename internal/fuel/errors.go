package fuel

import (
	"errors"
	"fmt"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrEventNotFound   = errors.New("fuel load not found")
)

// ValidationError reports a missing or out-of-range request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidMeterReadingError reports an engine-hours regression against the
// vehicle's latest recorded reading. The conflicting prior value is included
// so the operator can correct the submission.
type InvalidMeterReadingError struct {
	Reading      float64
	PriorReading float64
}

func (e *InvalidMeterReadingError) Error() string {
	return fmt.Sprintf("engine hours reading %.2f is lower than the latest recorded reading %.2f",
		e.Reading, e.PriorReading)
}
