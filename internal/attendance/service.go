package attendance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/NagarSeva/NS-Backend/internal/auth"
	"github.com/NagarSeva/NS-Backend/internal/geo"
	"github.com/NagarSeva/NS-Backend/internal/org"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service orchestrates attendance marking. It is request-scoped and
// stateless: every call is one attempt, rejections are terminal, and the only
// side effect is record creation through the RecordStore.
type Service struct {
	Org     OrgDirectory
	Records RecordStore
	Staff   StaffDirectory
	Window  Window
	Now     func() time.Time
}

func NewService(dir OrgDirectory, store RecordStore, staff StaffDirectory, window Window) *Service {
	return &Service{
		Org:     dir,
		Records: store,
		Staff:   staff,
		Window:  window,
		Now:     time.Now,
	}
}

// MarkRequest is a single-worker marking attempt.
type MarkRequest struct {
	WorkerID *uuid.UUID
	WardID   *uuid.UUID
	Lat      *float64
	Lng      *float64
	PhotoRef string
	// At defaults to the current time when nil.
	At *time.Time
}

// BulkRequest marks every worker on the caller's roster present. One
// location applies to the whole batch; the supervisor stands in one place.
type BulkRequest struct {
	Lat *float64
	Lng *float64
}

// BulkResult reports what the batch did. newly_marked + already_marked always
// equals total_workers.
type BulkResult struct {
	NewlyMarked   int `json:"newly_marked"`
	AlreadyMarked int `json:"already_marked"`
	TotalWorkers  int `json:"total_workers"`
}

// Mark validates and records a single worker's attendance. The returned
// error is a *Rejection for every domain refusal; anything else is a storage
// failure.
func (s *Service) Mark(ctx context.Context, userID string, req MarkRequest) (*Record, error) {
	mc, err := s.validate(ctx, userID, req.WorkerID, req.WardID)
	if err != nil {
		return nil, err
	}

	at := s.Now()
	if req.At != nil {
		at = *req.At
	}
	if !s.Window.Within(at) {
		return nil, reject(ReasonOutsideWindow, "Attendance can only be marked during the daily window")
	}

	day := DateOf(at)
	existing, err := s.Records.FindForDay(ctx, mc.worker.ID, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, reject(ReasonAlreadyMarked, "Attendance already marked for this worker today")
	}

	rec := s.buildRecord(mc, at, req.Lat, req.Lng, req.PhotoRef)
	if err := s.Records.Create(ctx, rec); err != nil {
		// A concurrent writer may win the (worker, date) race; the storage
		// uniqueness violation means the same thing as ALREADY_MARKED.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, reject(ReasonAlreadyMarked, "Attendance already marked for this worker today")
		}
		return nil, fmt.Errorf("create attendance record: %w", err)
	}

	log.Printf("[attendance] marked worker=%s ward=%s geo=%s", rec.WorkerID, rec.WardID, rec.GeoStatus)
	return rec, nil
}

// MarkAll marks the caller's whole active roster present. Workers already
// marked today are silently excluded from the write and reported in the
// already-marked count; only request-level preconditions fail the batch.
func (s *Service) MarkAll(ctx context.Context, userID string, req BulkRequest) (*BulkResult, error) {
	role, err := s.Staff.RoleByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if role != auth.RoleSupervisor {
		return nil, reject(ReasonForbidden, "Only supervisors may mark attendance")
	}

	sup, err := s.Org.SupervisorByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, reject(ReasonForbidden, "No supervisor profile for caller")
	}
	if sup.WardID == nil {
		return nil, reject(ReasonNoWardAssigned, "Supervisor has no assigned ward")
	}
	if sup.ULBID == nil {
		return nil, reject(ReasonSupervisorNoULB, "Supervisor's ULB could not be resolved")
	}

	at := s.Now()
	if !s.Window.Within(at) {
		return nil, reject(ReasonOutsideWindow, "Attendance can only be marked during the daily window")
	}

	roster, err := s.Org.ActiveRoster(ctx, sup.ID, *sup.WardID, *sup.ULBID)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, reject(ReasonEmptyRoster, "No active workers assigned to this supervisor")
	}

	day := DateOf(at)
	ids := make([]uuid.UUID, 0, len(roster))
	for _, w := range roster {
		ids = append(ids, w.ID)
	}
	existing, err := s.Records.ListForDay(ctx, ids, day)
	if err != nil {
		return nil, err
	}
	marked := make(map[uuid.UUID]bool, len(existing))
	for _, rec := range existing {
		marked[rec.WorkerID] = true
	}

	var toMark []org.Worker
	for _, w := range roster {
		if !marked[w.ID] {
			toMark = append(toMark, w)
		}
	}

	result := &BulkResult{
		AlreadyMarked: len(roster) - len(toMark),
		TotalWorkers:  len(roster),
	}
	if len(toMark) == 0 {
		return result, nil
	}

	ward, err := s.Org.WardByID(ctx, *sup.WardID)
	if err != nil {
		return nil, err
	}

	mc := &markContext{sup: sup, ward: ward}
	recs := make([]Record, 0, len(toMark))
	for i := range toMark {
		mc.worker = &toMark[i]
		recs = append(recs, *s.buildRecord(mc, at, req.Lat, req.Lng, ""))
	}

	// One all-or-nothing write. A partial batch would leave the caller with
	// counts that don't describe what was stored.
	if err := s.Records.CreateBatch(ctx, recs); err != nil {
		return nil, fmt.Errorf("bulk create attendance records: %w", err)
	}

	result.NewlyMarked = len(recs)
	log.Printf("[attendance] bulk marked supervisor=%s new=%d already=%d total=%d",
		sup.ID, result.NewlyMarked, result.AlreadyMarked, result.TotalWorkers)
	return result, nil
}

// buildRecord assembles one attendance record, evaluating the geofence when
// a location was supplied. The verdict annotates the record; it never blocks.
func (s *Service) buildRecord(mc *markContext, at time.Time, lat, lng *float64, photoRef string) *Record {
	status := geo.StatusValid
	if lat != nil && lng != nil {
		var poly []geo.Point
		if mc.ward != nil && len(mc.ward.Boundary) > 0 {
			poly = geo.ParseBoundary([]byte(mc.ward.Boundary))
		}
		status = geo.Evaluate(*lat, *lng, poly)
	}

	escalation := mc.worker.EscalationOfficerID
	if escalation == nil {
		escalation = mc.sup.EscalationOfficerID
	}

	return &Record{
		ID:                  uuid.New(),
		WorkerID:            mc.worker.ID,
		AttendanceDate:      DateOf(at),
		SupervisorID:        mc.sup.ID,
		WardID:              *mc.sup.WardID,
		ULBID:               *mc.sup.ULBID,
		EscalationOfficerID: escalation,
		CheckInAt:           at,
		Lat:                 lat,
		Lng:                 lng,
		PhotoRef:            photoRef,
		GeoStatus:           status,
	}
}
