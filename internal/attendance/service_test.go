package attendance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NagarSeva/NS-Backend/internal/attendance"
	"github.com/NagarSeva/NS-Backend/internal/auth"
	"github.com/NagarSeva/NS-Backend/internal/geo"
	"github.com/NagarSeva/NS-Backend/internal/org"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fakeOrg is an in-memory OrgDirectory.
type fakeOrg struct {
	sup     *org.Supervisor
	workers map[uuid.UUID]*org.Worker
	wards   map[uuid.UUID]*org.Ward
	roster  []org.Worker
}

func (f *fakeOrg) SupervisorByUser(ctx context.Context, userID string) (*org.Supervisor, error) {
	if f.sup != nil && f.sup.UserID == userID {
		return f.sup, nil
	}
	return nil, nil
}

func (f *fakeOrg) WorkerByID(ctx context.Context, id uuid.UUID) (*org.Worker, error) {
	return f.workers[id], nil
}

func (f *fakeOrg) WardByID(ctx context.Context, id uuid.UUID) (*org.Ward, error) {
	return f.wards[id], nil
}

func (f *fakeOrg) ActiveRoster(ctx context.Context, supervisorID, wardID, ulbID uuid.UUID) ([]org.Worker, error) {
	return f.roster, nil
}

// fakeStore is an in-memory RecordStore that enforces the (worker, date)
// uniqueness invariant the way the Postgres index would.
type fakeStore struct {
	records    []attendance.Record
	failCreate error
	batchCalls int
}

func (f *fakeStore) FindForDay(ctx context.Context, workerID uuid.UUID, day time.Time) (*attendance.Record, error) {
	for i := range f.records {
		if f.records[i].WorkerID == workerID && f.records[i].AttendanceDate.Equal(day) {
			return &f.records[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListForDay(ctx context.Context, workerIDs []uuid.UUID, day time.Time) ([]attendance.Record, error) {
	want := make(map[uuid.UUID]bool, len(workerIDs))
	for _, id := range workerIDs {
		want[id] = true
	}
	var out []attendance.Record
	for _, rec := range f.records {
		if want[rec.WorkerID] && rec.AttendanceDate.Equal(day) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) ListBySupervisorForDay(ctx context.Context, supervisorID uuid.UUID, day time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.SupervisorID == supervisorID && rec.AttendanceDate.Equal(day) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, rec *attendance.Record) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	for _, existing := range f.records {
		if existing.WorkerID == rec.WorkerID && existing.AttendanceDate.Equal(rec.AttendanceDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeStore) CreateBatch(ctx context.Context, recs []attendance.Record) error {
	f.batchCalls++
	for _, rec := range recs {
		for _, existing := range f.records {
			if existing.WorkerID == rec.WorkerID && existing.AttendanceDate.Equal(rec.AttendanceDate) {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	f.records = append(f.records, recs...)
	return nil
}

type fakeStaff struct {
	role auth.Role
}

func (f fakeStaff) RoleByUserID(ctx context.Context, userID string) (auth.Role, error) {
	return f.role, nil
}

// wardBoundary is a square around (13.0, 77.6); (20, 80) is far outside.
const wardBoundary = `[[12.95,77.55],[12.95,77.65],[13.05,77.65],[13.05,77.55]]`

type fixture struct {
	svc    *attendance.Service
	store  *fakeStore
	dir    *fakeOrg
	userID string
	worker *org.Worker
	wardID uuid.UUID
}

// newFixture builds a consistent supervisor/worker/ward/ULB graph and a
// service whose clock reads 08:30 local time.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	ulbID := uuid.New()
	wardID := uuid.New()
	escID := uuid.New()

	sup := &org.Supervisor{
		ID:     uuid.New(),
		UserID: "user-sup",
		Name:   "Asha Kumari",
		WardID: &wardID,
		ULBID:  &ulbID,
	}
	worker := &org.Worker{
		ID:                  uuid.New(),
		Name:                "Ravi Kumar",
		WardID:              &wardID,
		ULBID:               &ulbID,
		SupervisorID:        &sup.ID,
		EscalationOfficerID: &escID,
		Active:              true,
	}
	ward := &org.Ward{
		ID:       wardID,
		ULBID:    &ulbID,
		Number:   7,
		Boundary: datatypes.JSON(wardBoundary),
	}

	dir := &fakeOrg{
		sup:     sup,
		workers: map[uuid.UUID]*org.Worker{worker.ID: worker},
		wards:   map[uuid.UUID]*org.Ward{wardID: ward},
		roster:  []org.Worker{*worker},
	}
	store := &fakeStore{}

	svc := attendance.NewService(dir, store, fakeStaff{role: auth.RoleSupervisor}, attendance.DefaultWindow())
	svc.Now = func() time.Time { return at(8, 30) }

	return &fixture{
		svc:    svc,
		store:  store,
		dir:    dir,
		userID: sup.UserID,
		worker: worker,
		wardID: wardID,
	}
}

func wantReason(t *testing.T, err error, reason attendance.Reason) {
	t.Helper()
	var rej *attendance.Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("expected rejection %s, got %v", reason, err)
	}
	if rej.Reason != reason {
		t.Errorf("expected reason %s, got %s", reason, rej.Reason)
	}
}

func f64(v float64) *float64 { return &v }

func markReq(f *fixture) attendance.MarkRequest {
	return attendance.MarkRequest{
		WorkerID: &f.worker.ID,
		WardID:   &f.wardID,
	}
}

func TestMark_InsideWard(t *testing.T) {
	f := newFixture(t)
	req := markReq(f)
	req.Lat, req.Lng = f64(13.0), f64(77.6)

	rec, err := f.svc.Mark(context.Background(), f.userID, req)
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if rec.GeoStatus != geo.StatusValid {
		t.Errorf("expected VALID, got %s", rec.GeoStatus)
	}
	if !rec.AttendanceDate.Equal(attendance.DateOf(at(8, 30))) {
		t.Errorf("attendance date not truncated to the day: %v", rec.AttendanceDate)
	}
	if rec.EscalationOfficerID == nil || *rec.EscalationOfficerID != *f.worker.EscalationOfficerID {
		t.Error("expected escalation officer inherited from worker")
	}
	if len(f.store.records) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(f.store.records))
	}
}

// A noisy GPS fix outside the ward polygon still records attendance; the
// verdict only annotates the record.
func TestMark_OutsideWardStillSucceeds(t *testing.T) {
	f := newFixture(t)
	req := markReq(f)
	req.Lat, req.Lng = f64(20.0), f64(80.0)

	rec, err := f.svc.Mark(context.Background(), f.userID, req)
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if rec.GeoStatus != geo.StatusOutsideWard {
		t.Errorf("expected OUTSIDE_WARD, got %s", rec.GeoStatus)
	}
}

func TestMark_NoLocationFailsOpen(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Mark(context.Background(), f.userID, markReq(f))
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if rec.GeoStatus != geo.StatusValid {
		t.Errorf("expected VALID without a location, got %s", rec.GeoStatus)
	}
}

func TestMark_UnusableBoundaryFailsOpen(t *testing.T) {
	f := newFixture(t)
	f.dir.wards[f.wardID].Boundary = datatypes.JSON(`not json at all`)
	req := markReq(f)
	req.Lat, req.Lng = f64(20.0), f64(80.0)

	rec, err := f.svc.Mark(context.Background(), f.userID, req)
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if rec.GeoStatus != geo.StatusValid {
		t.Errorf("malformed boundary must fail open, got %s", rec.GeoStatus)
	}
}

func TestMark_SecondCallAlreadyMarked(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Mark(context.Background(), f.userID, markReq(f)); err != nil {
		t.Fatalf("first Mark: %v", err)
	}
	_, err := f.svc.Mark(context.Background(), f.userID, markReq(f))
	wantReason(t, err, attendance.ReasonAlreadyMarked)

	if len(f.store.records) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(f.store.records))
	}
}

// A concurrent writer winning the (worker, date) race surfaces as a storage
// uniqueness violation; the service converts it rather than propagating.
func TestMark_RaceLoserGetsAlreadyMarked(t *testing.T) {
	f := newFixture(t)
	f.store.failCreate = gorm.ErrDuplicatedKey

	_, err := f.svc.Mark(context.Background(), f.userID, markReq(f))
	wantReason(t, err, attendance.ReasonAlreadyMarked)
}

func TestMark_WindowBounds(t *testing.T) {
	f := newFixture(t)

	for _, c := range []struct {
		hour, min int
		ok        bool
	}{
		{6, 0, true},
		{11, 0, true},
		{5, 59, false},
		{11, 1, false},
	} {
		f.store.records = nil
		ts := at(c.hour, c.min)
		req := markReq(f)
		req.At = &ts

		_, err := f.svc.Mark(context.Background(), f.userID, req)
		if c.ok && err != nil {
			t.Errorf("%02d:%02d: unexpected error %v", c.hour, c.min, err)
		}
		if !c.ok {
			wantReason(t, err, attendance.ReasonOutsideWindow)
		}
	}
}

func TestMark_Forbidden(t *testing.T) {
	f := newFixture(t)
	f.svc.Staff = fakeStaff{role: auth.RoleStaff}

	_, err := f.svc.Mark(context.Background(), f.userID, markReq(f))
	wantReason(t, err, attendance.ReasonForbidden)
}

func TestMark_NoWardAssigned(t *testing.T) {
	f := newFixture(t)
	f.dir.sup.WardID = nil

	_, err := f.svc.Mark(context.Background(), f.userID, markReq(f))
	wantReason(t, err, attendance.ReasonNoWardAssigned)
}

func TestMark_MissingField(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Mark(context.Background(), f.userID, attendance.MarkRequest{})
	wantReason(t, err, attendance.ReasonMissingField)
}

func TestMark_WardMismatch(t *testing.T) {
	f := newFixture(t)
	other := uuid.New()
	req := markReq(f)
	req.WardID = &other

	_, err := f.svc.Mark(context.Background(), f.userID, req)
	wantReason(t, err, attendance.ReasonWardMismatch)
}

func TestMark_WorkerNotFound(t *testing.T) {
	f := newFixture(t)
	ghost := uuid.New()
	req := markReq(f)
	req.WorkerID = &ghost

	_, err := f.svc.Mark(context.Background(), f.userID, req)
	wantReason(t, err, attendance.ReasonWorkerNotFound)
}

// A worker in ward B is rejected even when the request body claims the
// supervisor's own ward A.
func TestMark_WorkerWardMismatch(t *testing.T) {
	f := newFixture(t)
	otherWard := uuid.New()
	f.worker.WardID = &otherWard

	_, err := f.svc.Mark(context.Background(), f.userID, markReq(f))
	wantReason(t, err, attendance.ReasonWorkerWardMismatch)
}

func TestMark_CrossULBDenied(t *testing.T) {
	f := newFixture(t)
	otherULB := uuid.New()
	f.worker.ULBID = &otherULB

	_, err := f.svc.Mark(context.Background(), f.userID, markReq(f))
	wantReason(t, err, attendance.ReasonCrossULBDenied)
}

func TestMark_SupervisorNoULB(t *testing.T) {
	f := newFixture(t)
	f.dir.sup.ULBID = nil

	_, err := f.svc.Mark(context.Background(), f.userID, markReq(f))
	wantReason(t, err, attendance.ReasonSupervisorNoULB)
}

func TestMark_WorkerNoULB(t *testing.T) {
	f := newFixture(t)
	f.worker.ULBID = nil

	_, err := f.svc.Mark(context.Background(), f.userID, markReq(f))
	wantReason(t, err, attendance.ReasonWorkerNoULB)
}

func TestMark_WardNotFound(t *testing.T) {
	f := newFixture(t)
	delete(f.dir.wards, f.wardID)

	_, err := f.svc.Mark(context.Background(), f.userID, markReq(f))
	wantReason(t, err, attendance.ReasonWardNotFound)
}

func TestMark_WardULBMismatch(t *testing.T) {
	f := newFixture(t)
	otherULB := uuid.New()
	f.dir.wards[f.wardID].ULBID = &otherULB

	_, err := f.svc.Mark(context.Background(), f.userID, markReq(f))
	wantReason(t, err, attendance.ReasonWardULBMismatch)
}

// ---- bulk path ----

// rosterOf replaces the fixture's roster with n consistent workers.
func rosterOf(f *fixture, n int) []org.Worker {
	sup := f.dir.sup
	workers := make([]org.Worker, 0, n)
	for i := 0; i < n; i++ {
		w := org.Worker{
			ID:           uuid.New(),
			WardID:       sup.WardID,
			ULBID:        sup.ULBID,
			SupervisorID: &sup.ID,
			Active:       true,
		}
		workers = append(workers, w)
		f.dir.workers[w.ID] = &workers[len(workers)-1]
	}
	f.dir.roster = workers
	return workers
}

func TestMarkAll_PartitionsRoster(t *testing.T) {
	f := newFixture(t)
	workers := rosterOf(f, 10)

	// Pre-mark 3 workers, as an earlier partial run would have.
	day := attendance.DateOf(at(8, 30))
	for i := 0; i < 3; i++ {
		f.store.records = append(f.store.records, attendance.Record{
			ID:             uuid.New(),
			WorkerID:       workers[i].ID,
			AttendanceDate: day,
			SupervisorID:   f.dir.sup.ID,
		})
	}

	result, err := f.svc.MarkAll(context.Background(), f.userID, attendance.BulkRequest{})
	if err != nil {
		t.Fatalf("MarkAll: %v", err)
	}
	if result.NewlyMarked != 7 || result.AlreadyMarked != 3 || result.TotalWorkers != 10 {
		t.Errorf("expected {7,3,10}, got {%d,%d,%d}",
			result.NewlyMarked, result.AlreadyMarked, result.TotalWorkers)
	}
	if result.NewlyMarked+result.AlreadyMarked != result.TotalWorkers {
		t.Error("counts must sum to the roster size")
	}
	if len(f.store.records) != 10 {
		t.Fatalf("expected 10 total records, got %d", len(f.store.records))
	}

	// No duplicates for the pre-marked subset.
	seen := map[uuid.UUID]int{}
	for _, rec := range f.store.records {
		seen[rec.WorkerID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("worker %s has %d records for the day", id, n)
		}
	}
}

func TestMarkAll_AllAlreadyMarked(t *testing.T) {
	f := newFixture(t)
	workers := rosterOf(f, 4)

	day := attendance.DateOf(at(8, 30))
	for _, w := range workers {
		f.store.records = append(f.store.records, attendance.Record{
			ID:             uuid.New(),
			WorkerID:       w.ID,
			AttendanceDate: day,
		})
	}

	result, err := f.svc.MarkAll(context.Background(), f.userID, attendance.BulkRequest{})
	if err != nil {
		t.Fatalf("MarkAll: %v", err)
	}
	if result.NewlyMarked != 0 || result.AlreadyMarked != 4 {
		t.Errorf("expected {0,4,4}, got {%d,%d,%d}",
			result.NewlyMarked, result.AlreadyMarked, result.TotalWorkers)
	}
	if f.store.batchCalls != 0 {
		t.Error("no batch write expected when nothing is left to mark")
	}
}

func TestMarkAll_EmptyRoster(t *testing.T) {
	f := newFixture(t)
	f.dir.roster = nil

	_, err := f.svc.MarkAll(context.Background(), f.userID, attendance.BulkRequest{})
	wantReason(t, err, attendance.ReasonEmptyRoster)
}

func TestMarkAll_OutsideWindow(t *testing.T) {
	f := newFixture(t)
	rosterOf(f, 3)
	f.svc.Now = func() time.Time { return at(14, 0) }

	_, err := f.svc.MarkAll(context.Background(), f.userID, attendance.BulkRequest{})
	wantReason(t, err, attendance.ReasonOutsideWindow)
}

func TestMarkAll_SupervisorNoULB(t *testing.T) {
	f := newFixture(t)
	rosterOf(f, 3)
	f.dir.sup.ULBID = nil

	_, err := f.svc.MarkAll(context.Background(), f.userID, attendance.BulkRequest{})
	wantReason(t, err, attendance.ReasonSupervisorNoULB)
}

// One location applies to the whole batch: every new record carries the same
// geofence verdict.
func TestMarkAll_SingleGeoStatus(t *testing.T) {
	f := newFixture(t)
	rosterOf(f, 5)

	result, err := f.svc.MarkAll(context.Background(), f.userID, attendance.BulkRequest{
		Lat: f64(20.0), Lng: f64(80.0),
	})
	if err != nil {
		t.Fatalf("MarkAll: %v", err)
	}
	if result.NewlyMarked != 5 {
		t.Fatalf("expected 5 new records, got %d", result.NewlyMarked)
	}
	for _, rec := range f.store.records {
		if rec.GeoStatus != geo.StatusOutsideWard {
			t.Errorf("expected OUTSIDE_WARD on every record, got %s", rec.GeoStatus)
		}
	}
	if f.store.batchCalls != 1 {
		t.Errorf("expected one batch write, got %d", f.store.batchCalls)
	}
}

func TestMarkAll_Forbidden(t *testing.T) {
	f := newFixture(t)
	rosterOf(f, 3)
	f.svc.Staff = fakeStaff{role: auth.RoleAdmin}

	_, err := f.svc.MarkAll(context.Background(), f.userID, attendance.BulkRequest{})
	wantReason(t, err, attendance.ReasonForbidden)
}
