package org

import (
	"context"
	"errors"

	"github.com/NagarSeva/NS-Backend/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Directory is the gorm-backed organizational lookup used by the attendance
// subsystem. Absent rows are reported as (nil, nil) so callers can map them
// to domain rejections instead of unwrapping storage errors.
type Directory struct{}

func (Directory) SupervisorByUser(ctx context.Context, userID string) (*Supervisor, error) {
	var s Supervisor
	err := db.DB.WithContext(ctx).First(&s, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (Directory) WorkerByID(ctx context.Context, id uuid.UUID) (*Worker, error) {
	var w Worker
	err := db.DB.WithContext(ctx).First(&w, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (Directory) WardByID(ctx context.Context, id uuid.UUID) (*Ward, error) {
	var ward Ward
	err := db.DB.WithContext(ctx).First(&ward, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ward, nil
}

// ActiveRoster returns the active workers assigned to the supervisor whose
// ward and ULB agree with the supervisor's own. Workers that drifted out of
// organizational consistency are excluded rather than failing the lookup.
func (Directory) ActiveRoster(ctx context.Context, supervisorID, wardID, ulbID uuid.UUID) ([]Worker, error) {
	var workers []Worker
	err := db.DB.WithContext(ctx).
		Where("supervisor_id = ? AND ward_id = ? AND ulb_id = ? AND active = ?",
			supervisorID, wardID, ulbID, true).
		Order("name ASC").
		Find(&workers).Error
	if err != nil {
		return nil, err
	}
	return workers, nil
}
