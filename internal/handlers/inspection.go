package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rcastellanos/fleet-admin/internal/db"
	"github.com/rcastellanos/fleet-admin/internal/inspection"
	"github.com/rcastellanos/fleet-admin/internal/middleware"
	"github.com/rcastellanos/fleet-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InspectionHandler handles inspection submission and workflow requests
type InspectionHandler struct {
	service        *inspection.Service
	userCollection db.UserCollection
}

// NewInspectionHandler creates a new inspection handler
func NewInspectionHandler(service *inspection.Service, userCollection db.UserCollection) *InspectionHandler {
	return &InspectionHandler{service: service, userCollection: userCollection}
}

type createInspectionRequest struct {
	VehicleID           string                     `json:"vehicle_id"`
	TemplateID          string                     `json:"template_id"`
	OperationalReadings models.OperationalReadings `json:"operational_readings"`
	Answers             []models.Answer            `json:"answers"`
	TireReadings        []models.TireReading       `json:"tire_readings"`
	SectionComments     []models.SectionComment    `json:"section_comments"`
	TireComments        string                     `json:"tire_comments"`
	GeneralComments     string                     `json:"general_comments"`
}

// operatorFromContext resolves the submitting operator, including license
// validity, from the authenticated user.
func (h *InspectionHandler) operatorFromContext(r *http.Request) (models.OperatorRef, bool) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return models.OperatorRef{}, false
	}
	op := models.OperatorRef{Name: claims.Username}
	if id, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
		op.UserID = id
	}
	if user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID); err == nil {
		op.Name = user.FullName()
		op.LicenseValid = user.LicenseValid
	}
	return op, true
}

// Create handles POST /api/inspections
func (h *InspectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "failed to read request body"})
		return
	}
	var req createInspectionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}

	operator, ok := h.operatorFromContext(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "user context not found"})
		return
	}

	record, err := h.service.Create(r.Context(), inspection.CreateRequest{
		VehicleID:           req.VehicleID,
		TemplateID:          req.TemplateID,
		Operator:            operator,
		OperationalReadings: req.OperationalReadings,
		Answers:             req.Answers,
		TireReadings:        req.TireReadings,
		SectionComments:     req.SectionComments,
		TireComments:        req.TireComments,
		GeneralComments:     req.GeneralComments,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// Get handles GET /api/inspections/{id}
func (h *InspectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Approve handles PUT /api/inspections/{id}/approve (admin only)
func (h *InspectionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "user context not found"})
		return
	}
	admin := models.ApprovedBy{Name: claims.Username}
	if id, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
		admin.AdminID = id
	}

	record, err := h.service.Approve(r.Context(), r.PathValue("id"), admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Close handles PUT /api/inspections/{id}/close (admin only)
func (h *InspectionHandler) Close(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Close(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// FlagReview handles PUT /api/inspections/{id}/flag-review (admin only)
func (h *InspectionHandler) FlagReview(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.FlagForReview(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// SignMechanic handles PUT /api/inspections/{id}/sign-mechanic
func (h *InspectionHandler) SignMechanic(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "user context not found"})
		return
	}
	mechanicID, _ := primitive.ObjectIDFromHex(claims.UserID)

	record, err := h.service.SignAsMechanic(r.Context(), r.PathValue("id"), mechanicID, claims.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Pending handles GET /api/inspections/pending (admin only)
func (h *InspectionHandler) Pending(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.PendingReview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
