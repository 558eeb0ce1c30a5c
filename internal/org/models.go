package org

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ULB is an Urban Local Body, the top-level municipal unit. Every ward,
// supervisor and worker resolves to exactly one ULB.
type ULB struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	State     string    `gorm:"not null" json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Wards []Ward `gorm:"foreignKey:ULBID" json:"wards,omitempty"`
}

func (ULB) TableName() string {
	return "org.ulbs"
}

// Ward is an administrative sub-division of a ULB. Boundary, when present,
// is a JSON array of [lat, lng] vertex pairs; it is read-only to the
// attendance subsystem.
type Ward struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ULBID      *uuid.UUID     `gorm:"type:uuid;index:idx_ward_ulb_number,unique" json:"ulb_id,omitempty"`
	Number     int            `gorm:"not null;index:idx_ward_ulb_number,unique" json:"number"`
	Name       string         `json:"name"`
	Localities pq.StringArray `gorm:"type:text[]" json:"localities,omitempty"`
	Boundary   datatypes.JSON `json:"boundary,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (Ward) TableName() string {
	return "org.wards"
}

// Supervisor is the staff actor who marks attendance. Maintained by the staff
// management module; read-only here.
type Supervisor struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID              string     `gorm:"uniqueIndex" json:"user_id"`
	Name                string     `gorm:"not null" json:"name"`
	Phone               string     `json:"phone"`
	WardID              *uuid.UUID `gorm:"type:uuid;index" json:"ward_id,omitempty"`
	ULBID               *uuid.UUID `gorm:"type:uuid;index" json:"ulb_id,omitempty"`
	EscalationOfficerID *uuid.UUID `gorm:"type:uuid" json:"escalation_officer_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (Supervisor) TableName() string {
	return "org.supervisors"
}

// Worker is a sanitation field worker, the subject of attendance marking.
type Worker struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name                string     `gorm:"not null" json:"name"`
	Phone               string     `json:"phone"`
	WardID              *uuid.UUID `gorm:"type:uuid;index" json:"ward_id,omitempty"`
	ULBID               *uuid.UUID `gorm:"type:uuid;index" json:"ulb_id,omitempty"`
	SupervisorID        *uuid.UUID `gorm:"type:uuid;index" json:"supervisor_id,omitempty"`
	EscalationOfficerID *uuid.UUID `gorm:"type:uuid" json:"escalation_officer_id,omitempty"`
	Active              bool       `gorm:"default:true" json:"active"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (Worker) TableName() string {
	return "org.workers"
}
