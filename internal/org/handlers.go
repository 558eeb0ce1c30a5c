package org

import (
	"encoding/json"
	"net/http"

	"github.com/NagarSeva/NS-Backend/internal/db"
	"github.com/NagarSeva/NS-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nameCaser = cases.Title(language.English)

// ListWards returns all wards, optionally filtered by ULB
func ListWards(w http.ResponseWriter, r *http.Request) {
	query := db.DB.Model(&Ward{})

	if ulbID := r.URL.Query().Get("ulb_id"); ulbID != "" {
		query = query.Where("ulb_id = ?", ulbID)
	}

	var wards []Ward
	if err := query.Order("number ASC").Find(&wards).Error; err != nil {
		http.Error(w, "Failed to fetch wards: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wards)
}

// GetWard returns a single ward by ID
func GetWard(w http.ResponseWriter, r *http.Request) {
	wardID := chi.URLParam(r, "ward_id")

	var ward Ward
	if err := db.DB.First(&ward, "id = ?", wardID).Error; err != nil {
		http.Error(w, "Ward not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ward)
}

// GetRoster returns the calling supervisor's active worker roster
func GetRoster(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	dir := Directory{}
	sup, err := dir.SupervisorByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to resolve supervisor: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if sup == nil {
		http.Error(w, "No supervisor profile for caller", http.StatusForbidden)
		return
	}
	if sup.WardID == nil || sup.ULBID == nil {
		http.Error(w, "Supervisor has no ward or ULB assignment", http.StatusConflict)
		return
	}

	workers, err := dir.ActiveRoster(r.Context(), sup.ID, *sup.WardID, *sup.ULBID)
	if err != nil {
		http.Error(w, "Failed to fetch roster: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(workers)
}

// CreateWorker registers a new field worker (admin only)
func CreateWorker(w http.ResponseWriter, r *http.Request) {
	var worker Worker
	if err := json.NewDecoder(r.Body).Decode(&worker); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if worker.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	// Field rolls arrive in inconsistent casing; normalize once on entry.
	worker.Name = nameCaser.String(worker.Name)
	worker.ID = uuid.New()

	if err := db.DB.Create(&worker).Error; err != nil {
		http.Error(w, "Failed to create worker: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(worker)
}

// CreateWard creates a ward with an optional boundary polygon (admin only)
func CreateWard(w http.ResponseWriter, r *http.Request) {
	var ward Ward
	if err := json.NewDecoder(r.Body).Decode(&ward); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if ward.Number == 0 {
		http.Error(w, "Ward number is required", http.StatusBadRequest)
		return
	}

	ward.ID = uuid.New()
	if err := db.DB.Create(&ward).Error; err != nil {
		http.Error(w, "Failed to create ward: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ward)
}
