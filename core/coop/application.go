package coop

import (
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
)

// Application statuses.
const (
	StatusPending   = "Pending"
	StatusSelected  = "Selected"
	StatusRejected  = "Rejected"
	StatusWithdrawn = "Withdrawn"
)

// appTransitions is the Application state machine: Pending is the sole
// non-terminal state.
var appTransitions = map[string][]string{
	StatusPending: {StatusSelected, StatusRejected, StatusWithdrawn},
}

// CanTransition reports whether an Application may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, s := range appTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError is returned when an actor attempts an illegal
// status transition, e.g. selecting an already-rejected application.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %q to %q", e.Entity, e.From, e.To)
}

func newTransitionErr(entity, from, to string) error {
	return &InvalidTransitionError{Entity: entity, From: from, To: to}
}

// Application links one Student to one JobPosition. At most one
// non-withdrawn Application exists per (student, position) pair.
type Application struct {
	ID         int       `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	PositionID string    `db:"position_id" json:"position_id"`
	Status     string    `db:"status" json:"status"`
	AppliedAt  time.Time `db:"applied_at" json:"applied_at"` // UTC
}

// transition validates and applies a status change.
func (a *Application) transition(to string) error {
	if !CanTransition(a.Status, to) {
		return newTransitionErr("application", a.Status, to)
	}
	a.Status = to
	return nil
}

// Selection records the moment an employer selected an application.
// 1:1 with a Selected Application.
type Selection struct {
	ID                  int         `db:"id" json:"id"`
	ApplicationID       int         `db:"application_id" json:"application_id"`
	SelectedAt          time.Time   `db:"selected_at" json:"selected_at"` // UTC
	OfferLetterFilename null.String `db:"offer_letter_filename" json:"offer_letter_filename"`
}

// CoopEligibility is the immutable eligibility verdict snapshot computed at
// selection time. 1:1 with an Application.
type CoopEligibility struct {
	ID            int       `db:"id" json:"id"`
	ApplicationID int       `db:"application_id" json:"application_id"`
	Eligibility             // four sub-checks + overall verdict
	CheckedAt     time.Time `db:"checked_at" json:"checked_at"` // UTC
}
