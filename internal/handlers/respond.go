package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/rcastellanos/fleet-admin/internal/db"
	"github.com/rcastellanos/fleet-admin/internal/fuel"
	"github.com/rcastellanos/fleet-admin/internal/inspection"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError translates a domain error into a structured JSON error. None of
// the services' invariant failures escape past this boundary; anything
// unrecognized is logged and reported generically.
func writeError(w http.ResponseWriter, err error) {
	var fuelValidation *fuel.ValidationError
	var inspValidation *inspection.ValidationError
	var meterErr *fuel.InvalidMeterReadingError

	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.As(err, &fuelValidation), errors.As(err, &inspValidation), errors.As(err, &meterErr):
		status = http.StatusBadRequest
	case errors.Is(err, fuel.ErrVehicleNotFound), errors.Is(err, fuel.ErrEventNotFound),
		errors.Is(err, inspection.ErrVehicleNotFound), errors.Is(err, inspection.ErrTemplateNotFound),
		errors.Is(err, inspection.ErrInspectionNotFound), errors.Is(err, db.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, inspection.ErrInvalidStateTransition):
		status = http.StatusConflict
	default:
		log.WithError(err).Error("request failed")
		message = "internal server error"
	}

	writeJSON(w, status, map[string]string{"message": message})
}
