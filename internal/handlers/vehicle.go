package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rcastellanos/fleet-admin/internal/db"
	"github.com/rcastellanos/fleet-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// VehicleHandler handles the minimal vehicle surface the meter state lives
// behind.
type VehicleHandler struct {
	vehicleCollection db.VehicleCollection
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicleCollection db.VehicleCollection) *VehicleHandler {
	return &VehicleHandler{vehicleCollection: vehicleCollection}
}

// Create handles POST /api/vehicles (admin only)
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "failed to read request body"})
		return
	}
	var vehicle models.Vehicle
	if err := json.Unmarshal(body, &vehicle); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}
	if vehicle.Plate == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "plate is required"})
		return
	}
	if vehicle.FuelType != "" && !models.IsValidFuelType(vehicle.FuelType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown fuel type"})
		return
	}

	id, err := h.vehicleCollection.InsertVehicle(r.Context(), vehicle)
	if err != nil {
		writeError(w, err)
		return
	}
	vehicle.ID = id
	vehicle.Active = true
	writeJSON(w, http.StatusCreated, vehicle)
}

// Get handles GET /api/vehicles/{id}
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.vehicleCollection.FindVehicleByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// List handles GET /api/vehicles
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor, err := h.vehicleCollection.FindVehicles(r.Context(), bson.M{"active": true})
	if err != nil {
		writeError(w, err)
		return
	}
	defer cursor.Close(r.Context())

	vehicles := []models.Vehicle{}
	if err := cursor.All(r.Context(), &vehicles); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// Deactivate handles DELETE /api/vehicles/{id} (admin only, soft delete)
func (h *VehicleHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.vehicleCollection.DeactivateVehicle(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "vehicle deactivated"})
}
