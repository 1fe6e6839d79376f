package delivery

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery task. All transition rules live
// in one table here; call sites never guard on raw status values.
//
// State transitions:
//
//	unassigned ──> assigned ──> accepted ──> in_progress ──> completed
//	    ▲  │          │  │         │  │           │
//	    │  │          │  │         │  │           └──> failed
//	    │  ▼          │  ▼         │  ▼
//	    │ cancelled   │ cancelled  │ cancelled
//	    └─────────────┴────(refusal puts the task back in the pool)
//
// completed, cancelled and failed are terminal.
type Status int

const (
	// StatusUnknown is the invalid zero value.
	StatusUnknown Status = iota
	// StatusUnassigned means the task is in the pool waiting for a courier.
	StatusUnassigned
	// StatusAssigned means a courier was offered the task but has not
	// committed yet.
	StatusAssigned
	// StatusAccepted means the assigned courier committed to the task.
	StatusAccepted
	// StatusInProgress means the courier picked up the package.
	StatusInProgress
	// StatusCompleted is terminal; the package was handed over.
	StatusCompleted
	// StatusCancelled is terminal; the task was withdrawn before pickup.
	StatusCancelled
	// StatusFailed is terminal; the courier could not finish after pickup.
	StatusFailed
)

// allowedTransitions is the single authoritative transition table for
// deliveries. The edges back to unassigned are courier refusals: the task
// returns to the pool and can be dispatched again. Once the package is picked
// up the only exits are completed and failed; cancellation is no longer
// possible.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		StatusUnassigned: {StatusAssigned, StatusCancelled},
		StatusAssigned:   {StatusAccepted, StatusUnassigned, StatusCancelled},
		StatusAccepted:   {StatusInProgress, StatusUnassigned, StatusCancelled},
		StatusInProgress: {StatusCompleted, StatusFailed},
		StatusCompleted:  {},
		StatusCancelled:  {},
		StatusFailed:     {},
	}
}

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusUnassigned: "unassigned",
		StatusAssigned:   "assigned",
		StatusAccepted:   "accepted",
		StatusInProgress: "in_progress",
		StatusCompleted:  "completed",
		StatusCancelled:  "cancelled",
		StatusFailed:     "failed",
	}
}

// String returns the snake_case status name, or "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects StatusUnknown and any out-of-band value.
func (s Status) Validate() error {
	if _, ok := statusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusFailed
}

// CanTransitionTo reports whether target is in the allowed-next set.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target if the move is legal, or an
// InvalidTransitionError leaving the caller's stored status untouched.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return StatusUnknown, err
	}
	if !s.CanTransitionTo(target) {
		return StatusUnknown, errs.NewInvalidTransitionError("delivery", s.String(), target.String())
	}
	return target, nil
}

// ParseStatus converts a snake_case status name to its Status value.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusStrings() {
		if name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("delivery status",
		fmt.Errorf("%q is not a valid status", s))
}
