package attendance

import (
	"time"

	"github.com/NagarSeva/NS-Backend/internal/geo"
	"github.com/google/uuid"
)

// Record is one worker's attendance for one calendar day. The composite
// unique index on (worker_id, attendance_date) is the storage-level guarantee
// behind the one-record-per-worker-per-day invariant; a losing concurrent
// writer fails there instead of duplicating.
type Record struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	WorkerID            uuid.UUID  `gorm:"type:uuid;not null;index:idx_attendance_worker_day,unique" json:"worker_id"`
	AttendanceDate      time.Time  `gorm:"type:date;not null;index:idx_attendance_worker_day,unique" json:"attendance_date"`
	SupervisorID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"supervisor_id"`
	WardID              uuid.UUID  `gorm:"type:uuid;not null;index" json:"ward_id"`
	ULBID               uuid.UUID  `gorm:"type:uuid;not null" json:"ulb_id"`
	EscalationOfficerID *uuid.UUID `gorm:"type:uuid" json:"escalation_officer_id,omitempty"`
	CheckInAt           time.Time  `gorm:"not null" json:"check_in_at"`
	Lat                 *float64   `json:"lat,omitempty"`
	Lng                 *float64   `json:"lng,omitempty"`
	PhotoRef            string     `json:"photo_ref,omitempty"`
	GeoStatus           geo.Status `gorm:"not null" json:"geo_status"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (Record) TableName() string {
	return "sanitation.attendance_records"
}

// DateOf truncates a timestamp to its calendar day in the same location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
