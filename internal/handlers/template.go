package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rcastellanos/fleet-admin/internal/db"
	"github.com/rcastellanos/fleet-admin/internal/inspection"
	"github.com/rcastellanos/fleet-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// TemplateHandler handles the read-mostly inspection-template surface
type TemplateHandler struct {
	templateCollection db.TemplateCollection
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateCollection db.TemplateCollection) *TemplateHandler {
	return &TemplateHandler{templateCollection: templateCollection}
}

// Create handles POST /api/templates (admin only)
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "failed to read request body"})
		return
	}
	var template models.InspectionTemplate
	if err := json.Unmarshal(body, &template); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}
	if err := inspection.ValidateTemplate(&template); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.templateCollection.InsertTemplate(r.Context(), template)
	if err != nil {
		writeError(w, err)
		return
	}
	template.ID = id
	template.Active = true
	writeJSON(w, http.StatusCreated, template)
}

// Get handles GET /api/templates/{id}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	template, err := h.templateCollection.FindTemplateByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

// List handles GET /api/templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor, err := h.templateCollection.FindTemplates(r.Context(), bson.M{"active": true})
	if err != nil {
		writeError(w, err)
		return
	}
	defer cursor.Close(r.Context())

	templates := []models.InspectionTemplate{}
	if err := cursor.All(r.Context(), &templates); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

// Deactivate handles DELETE /api/templates/{id} (admin only, soft delete)
func (h *TemplateHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.templateCollection.DeactivateTemplate(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "template deactivated"})
}
