package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/NagarSeva/NS-Backend/internal/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// GormStore is the Postgres-backed RecordStore. Date comparisons go through
// the DATE column, so "today" means the same thing to the application and the
// uniqueness index.
type GormStore struct{}

func (GormStore) FindForDay(ctx context.Context, workerID uuid.UUID, day time.Time) (*Record, error) {
	var rec Record
	err := db.DB.WithContext(ctx).
		First(&rec, "worker_id = ? AND attendance_date = ?", workerID, day.Format("2006-01-02")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (GormStore) ListForDay(ctx context.Context, workerIDs []uuid.UUID, day time.Time) ([]Record, error) {
	var recs []Record
	err := db.DB.WithContext(ctx).
		Where("worker_id IN ? AND attendance_date = ?", workerIDs, day.Format("2006-01-02")).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (GormStore) ListBySupervisorForDay(ctx context.Context, supervisorID uuid.UUID, day time.Time) ([]Record, error) {
	var recs []Record
	err := db.DB.WithContext(ctx).
		Where("supervisor_id = ? AND attendance_date = ?", supervisorID, day.Format("2006-01-02")).
		Order("check_in_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (GormStore) Create(ctx context.Context, rec *Record) error {
	err := db.DB.WithContext(ctx).Create(rec).Error
	if isUniqueViolation(err) {
		return gorm.ErrDuplicatedKey
	}
	return err
}

// CreateBatch inserts all records in one statement, so it is atomic at the
// storage layer.
func (GormStore) CreateBatch(ctx context.Context, recs []Record) error {
	return db.DB.WithContext(ctx).Create(&recs).Error
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
