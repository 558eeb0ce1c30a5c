package attendance

import "net/http"

// Reason is the closed set of rejection codes a marking attempt can produce.
// The UI switches on these; messages are for humans only.
type Reason string

const (
	// Authorization
	ReasonForbidden      Reason = "FORBIDDEN"
	ReasonNoWardAssigned Reason = "NO_WARD_ASSIGNED"

	// Request shape
	ReasonMissingField Reason = "MISSING_FIELD"

	// Organizational consistency
	ReasonWardMismatch       Reason = "WARD_MISMATCH"
	ReasonWorkerNotFound     Reason = "WORKER_NOT_FOUND"
	ReasonWorkerWardMismatch Reason = "WORKER_WARD_MISMATCH"
	ReasonSupervisorNoULB    Reason = "SUPERVISOR_NO_ULB"
	ReasonWorkerNoULB        Reason = "WORKER_NO_ULB"
	ReasonCrossULBDenied     Reason = "CROSS_ULB_DENIED"
	ReasonWardNotFound       Reason = "WARD_NOT_FOUND"
	ReasonWardULBMismatch    Reason = "WARD_ULB_MISMATCH"

	// Policy
	ReasonOutsideWindow Reason = "OUTSIDE_ATTENDANCE_WINDOW"

	// Idempotency
	ReasonAlreadyMarked Reason = "ALREADY_MARKED"

	// Bulk preconditions
	ReasonEmptyRoster Reason = "EMPTY_ROSTER"
)

// Rejection is a structured, terminal refusal of a marking attempt. It is an
// error so it can flow through the service signatures, but it is recovered at
// the handler boundary and rendered with its reason code, never propagated as
// an opaque failure.
type Rejection struct {
	Reason  Reason `json:"reason"`
	Message string `json:"error"`
}

func (r *Rejection) Error() string {
	return string(r.Reason) + ": " + r.Message
}

func reject(reason Reason, message string) *Rejection {
	return &Rejection{Reason: reason, Message: message}
}

// HTTPStatus maps a rejection onto the response status the portal expects.
func (r *Rejection) HTTPStatus() int {
	switch r.Reason {
	case ReasonMissingField:
		return http.StatusBadRequest
	case ReasonForbidden, ReasonWardMismatch, ReasonCrossULBDenied:
		return http.StatusForbidden
	case ReasonWorkerNotFound, ReasonWardNotFound:
		return http.StatusNotFound
	case ReasonAlreadyMarked:
		return http.StatusConflict
	case ReasonOutsideWindow:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusConflict
	}
}
