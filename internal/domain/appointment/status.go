package appointment

import "github.com/BruksfildServices01/salon-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no-show"
)

var allStatuses = []Status{
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}

// transitions is the only place allowed status changes are defined.
// completed and no-show are terminal.
var transitions = map[Status][]Status{
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelled},
	StatusCancelled: {StatusConfirmed},
}

// ===============================
// Validations
// ===============================

func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", httperr.ErrBusiness(httperr.CodeInvalidStatus)
}

func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeInvalidTransition)
}

// OccupiesTime reports whether an appointment in this status takes part in
// conflict checks.
func (s Status) OccupiesTime() bool {
	return s != StatusCancelled
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func InitialStatus() Status {
	return StatusConfirmed
}
