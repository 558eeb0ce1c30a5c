package attendance

import (
	"context"
	"time"

	"github.com/NagarSeva/NS-Backend/internal/auth"
	"github.com/NagarSeva/NS-Backend/internal/org"
	"github.com/google/uuid"
)

// The service depends on narrow persistence ports instead of the gorm handle
// so tests can substitute in-memory fakes. Lookup methods report an absent
// row as (nil, nil); errors are reserved for storage failures.

type OrgDirectory interface {
	SupervisorByUser(ctx context.Context, userID string) (*org.Supervisor, error)
	WorkerByID(ctx context.Context, id uuid.UUID) (*org.Worker, error)
	WardByID(ctx context.Context, id uuid.UUID) (*org.Ward, error)
	ActiveRoster(ctx context.Context, supervisorID, wardID, ulbID uuid.UUID) ([]org.Worker, error)
}

type RecordStore interface {
	FindForDay(ctx context.Context, workerID uuid.UUID, day time.Time) (*Record, error)
	ListForDay(ctx context.Context, workerIDs []uuid.UUID, day time.Time) ([]Record, error)
	ListBySupervisorForDay(ctx context.Context, supervisorID uuid.UUID, day time.Time) ([]Record, error)
	Create(ctx context.Context, rec *Record) error
	// CreateBatch writes all records in a single statement; it is all-or-nothing.
	CreateBatch(ctx context.Context, recs []Record) error
}

type StaffDirectory interface {
	RoleByUserID(ctx context.Context, userID string) (auth.Role, error)
}
