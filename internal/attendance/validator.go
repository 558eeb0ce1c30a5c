package attendance

import (
	"context"

	"github.com/NagarSeva/NS-Backend/internal/auth"
	"github.com/NagarSeva/NS-Backend/internal/org"
	"github.com/google/uuid"
)

// markContext carries the resolved organizational graph for one validated
// marking attempt.
type markContext struct {
	sup    *org.Supervisor
	worker *org.Worker
	ward   *org.Ward
}

// validate runs the organizational consistency checks in order, stopping at
// the first failure. The order matters: each check assumes the previous ones
// passed, and the reason codes promise the caller the most specific failure.
func (s *Service) validate(ctx context.Context, userID string, workerID, wardID *uuid.UUID) (*markContext, error) {
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

	if workerID == nil || wardID == nil {
		return nil, reject(ReasonMissingField, "worker_id and ward_id are required")
	}

	// A supervisor may only mark inside the ward they own, even if they know
	// a worker ID elsewhere.
	if *wardID != *sup.WardID {
		return nil, reject(ReasonWardMismatch, "Ward does not match supervisor's assignment")
	}

	worker, err := s.Org.WorkerByID(ctx, *workerID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, reject(ReasonWorkerNotFound, "Worker not found")
	}
	if worker.WardID == nil || *worker.WardID != *sup.WardID {
		return nil, reject(ReasonWorkerWardMismatch, "Worker belongs to a different ward")
	}

	if sup.ULBID == nil {
		return nil, reject(ReasonSupervisorNoULB, "Supervisor's ULB could not be resolved")
	}
	if worker.ULBID == nil {
		return nil, reject(ReasonWorkerNoULB, "Worker's ULB could not be resolved")
	}

	// No cross-city marking.
	if *worker.ULBID != *sup.ULBID {
		return nil, reject(ReasonCrossULBDenied, "Worker belongs to a different urban local body")
	}

	ward, err := s.Org.WardByID(ctx, *wardID)
	if err != nil {
		return nil, err
	}
	if ward == nil {
		return nil, reject(ReasonWardNotFound, "Ward not found")
	}
	if ward.ULBID != nil && *ward.ULBID != *sup.ULBID {
		return nil, reject(ReasonWardULBMismatch, "Ward belongs to a different urban local body")
	}

	return &markContext{sup: sup, worker: worker, ward: ward}, nil
}
