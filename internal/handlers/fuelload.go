package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rcastellanos/fleet-admin/internal/fuel"
	"github.com/rcastellanos/fleet-admin/internal/middleware"
	"github.com/rcastellanos/fleet-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FuelLoadHandler handles fuel-load ledger requests
type FuelLoadHandler struct {
	service *fuel.Service
}

// NewFuelLoadHandler creates a new fuel-load handler
func NewFuelLoadHandler(service *fuel.Service) *FuelLoadHandler {
	return &FuelLoadHandler{service: service}
}

type createFuelLoadRequest struct {
	VehicleID         string     `json:"vehicle_id"`
	LitersLoaded      float64    `json:"liters_loaded"`
	EngineHoursAtLoad float64    `json:"engine_hours_at_load"`
	OdometerAtLoad    float64    `json:"odometer_at_load"`
	FuelType          string     `json:"fuel_type"`
	Cost              float64    `json:"cost"`
	Station           string     `json:"station"`
	TicketNumber      string     `json:"ticket_number"`
	Notes             string     `json:"notes"`
	LoadedAt          *time.Time `json:"loaded_at"`
}

// recordedByFromContext builds the submitter reference from the request's
// JWT claims.
func recordedByFromContext(r *http.Request) models.RecordedBy {
	rb := models.RecordedBy{Role: models.RoleOperator}
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return rb
	}
	if id, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
		rb.UserID = id
	}
	rb.Name = claims.Username
	if claims.Role == models.RoleAdmin {
		rb.Role = models.RoleAdmin
	}
	return rb
}

// Create handles POST /api/fuel-loads
func (h *FuelLoadHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "failed to read request body"})
		return
	}
	var req createFuelLoadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}

	event, err := h.service.Submit(r.Context(), fuel.SubmitRequest{
		VehicleID:         req.VehicleID,
		LitersLoaded:      req.LitersLoaded,
		EngineHoursAtLoad: req.EngineHoursAtLoad,
		OdometerAtLoad:    req.OdometerAtLoad,
		FuelType:          models.FuelType(req.FuelType),
		Cost:              req.Cost,
		Station:           req.Station,
		TicketNumber:      req.TicketNumber,
		Notes:             req.Notes,
		LoadedAt:          req.LoadedAt,
		RecordedBy:        recordedByFromContext(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

type editFuelLoadRequest struct {
	LitersLoaded      *float64   `json:"liters_loaded"`
	EngineHoursAtLoad *float64   `json:"engine_hours_at_load"`
	OdometerAtLoad    *float64   `json:"odometer_at_load"`
	FuelType          *string    `json:"fuel_type"`
	Cost              *float64   `json:"cost"`
	Station           *string    `json:"station"`
	TicketNumber      *string    `json:"ticket_number"`
	Notes             *string    `json:"notes"`
	LoadedAt          *time.Time `json:"loaded_at"`
}

// Update handles PUT /api/fuel-loads/{id}
func (h *FuelLoadHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "failed to read request body"})
		return
	}
	var req editFuelLoadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}

	edit := fuel.EditRequest{
		LitersLoaded:      req.LitersLoaded,
		EngineHoursAtLoad: req.EngineHoursAtLoad,
		OdometerAtLoad:    req.OdometerAtLoad,
		Cost:              req.Cost,
		Station:           req.Station,
		TicketNumber:      req.TicketNumber,
		Notes:             req.Notes,
		LoadedAt:          req.LoadedAt,
	}
	if req.FuelType != nil {
		ft := models.FuelType(*req.FuelType)
		edit.FuelType = &ft
	}

	event, err := h.service.Edit(r.Context(), r.PathValue("id"), edit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /api/fuel-loads/{id} (admin only)
func (h *FuelLoadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "fuel load deleted"})
}

// Stats handles GET /api/fuel-loads/vehicle/{id}/stats
func (h *FuelLoadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.StatsForVehicle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListForVehicle handles GET /api/fuel-loads/vehicle/{id}
func (h *FuelLoadHandler) ListForVehicle(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)

	events, err := h.service.ListForVehicle(r.Context(), r.PathValue("id"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
