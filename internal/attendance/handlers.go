package attendance

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/NagarSeva/NS-Backend/internal/utils"
	"github.com/google/uuid"
)

type Handlers struct {
	Svc *Service
}

type markBody struct {
	WorkerID  string   `json:"worker_id"`
	WardID    string   `json:"ward_id"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	PhotoRef  string   `json:"photo_ref,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"` // RFC3339, defaults to now
}

// MarkSingle handles POST /mark
func (h *Handlers) MarkSingle(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	var body markBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req := MarkRequest{
		Lat:      body.Lat,
		Lng:      body.Lng,
		PhotoRef: body.PhotoRef,
	}
	// Malformed IDs are indistinguishable from absent ones to the validator:
	// both mean the request did not name a worker/ward.
	if id, err := uuid.Parse(body.WorkerID); err == nil {
		req.WorkerID = &id
	}
	if id, err := uuid.Parse(body.WardID); err == nil {
		req.WardID = &id
	}
	if body.Timestamp != "" {
		at, err := time.Parse(time.RFC3339, body.Timestamp)
		if err != nil {
			http.Error(w, "Invalid timestamp format, want RFC3339", http.StatusBadRequest)
			return
		}
		at = at.Local()
		req.At = &at
	}

	rec, err := h.Svc.Mark(r.Context(), userID, req)
	if err != nil {
		writeMarkError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}

type bulkBody struct {
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

// MarkAll handles POST /mark-all
func (h *Handlers) MarkAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	var body bulkBody
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	result, err := h.Svc.MarkAll(r.Context(), userID, BulkRequest{Lat: body.Lat, Lng: body.Lng})
	if err != nil {
		writeMarkError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Today handles GET /today: the caller's records for the current day.
func (h *Handlers) Today(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	sup, err := h.Svc.Org.SupervisorByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to resolve supervisor: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if sup == nil {
		http.Error(w, "No supervisor profile for caller", http.StatusForbidden)
		return
	}

	recs, err := h.Svc.Records.ListBySupervisorForDay(r.Context(), sup.ID, DateOf(h.Svc.Now()))
	if err != nil {
		http.Error(w, "Failed to fetch records: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recs)
}

// writeMarkError renders a rejection with its reason code, or a 500 for
// storage failures.
func writeMarkError(w http.ResponseWriter, err error) {
	var rej *Rejection
	if errors.As(err, &rej) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rej.HTTPStatus())
		json.NewEncoder(w).Encode(rej)
		return
	}
	http.Error(w, "Attendance marking failed: "+err.Error(), http.StatusInternalServerError)
}
