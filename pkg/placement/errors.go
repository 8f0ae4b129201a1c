package placement

import "fmt"

// Reason tags the outcome of a placement query.
type Reason string

const (
	ReasonOK          Reason = "ok"
	ReasonCollision   Reason = "collision"
	ReasonOutOfBounds Reason = "out_of_bounds"
)

// Decision is the accept/reject answer for a candidate placement.
type Decision struct {
	Reason         Reason   `json:"reason"`
	ConflictingIDs []string `json:"conflicting_ids,omitempty"`
}

// OK reports whether the placement was accepted.
func (d Decision) OK() bool {
	return d.Reason == ReasonOK
}

// Err returns nil for an accepted placement and a *RejectedError otherwise.
func (d Decision) Err() error {
	if d.OK() {
		return nil
	}
	return &RejectedError{Reason: d.Reason, ConflictingIDs: d.ConflictingIDs}
}

// RejectedError is returned when a placement or move is refused. It is
// always recoverable; Reason tells the caller what to show.
type RejectedError struct {
	Reason         Reason
	ConflictingIDs []string
}

func (e *RejectedError) Error() string {
	if len(e.ConflictingIDs) > 0 {
		return fmt.Sprintf("[%s] placement rejected, conflicts with %v", e.Reason, e.ConflictingIDs)
	}
	return fmt.Sprintf("[%s] placement rejected", e.Reason)
}
