package coop

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Summary statuses. Draft -> Submitted is one-directional.
const (
	SummaryDraft     = "Draft"
	SummarySubmitted = "Submitted"
)

// Employer approval states. Approved and Rejected are terminal.
const (
	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalRejected = "Rejected"
)

// CoopRecord tracks the co-op credit workflow for a selected, eligible
// application: student interest, the work summary, the employer's review
// and the faculty grade. 1:1 with an Application; created at most once,
// only through an explicit express-interest transition.
type CoopRecord struct {
	ID            int         `db:"id" json:"id"`
	ApplicationID int         `db:"application_id" json:"application_id"`
	StudentID     string      `db:"student_id" json:"student_id"`
	PositionID    string      `db:"position_id" json:"position_id"`
	EligibilityID int         `db:"eligibility_id" json:"eligibility_id"`
	FacultyID     null.String `db:"faculty_id" json:"faculty_id"` // set at grading

	StudentInterested bool        `db:"student_interested" json:"student_interested"`
	SummaryText       null.String `db:"summary_text" json:"summary_text"`
	SummaryStatus     string      `db:"summary_status" json:"summary_status"`
	EmployerApproval  string      `db:"employer_approval" json:"employer_approval"`
	FacultyGrade      null.String `db:"faculty_grade" json:"faculty_grade"` // A-E
	UpdatedAt         time.Time   `db:"updated_at" json:"updated_at"`       // UTC
}

// saveSummary stores the summary text and optionally submits it.
// Once Submitted the summary is locked against further edits.
func (r *CoopRecord) saveSummary(text string, submit bool) error {
	if r.SummaryStatus == SummarySubmitted {
		return newTransitionErr("summary", SummarySubmitted, SummaryDraft)
	}
	r.SummaryText = null.StringFrom(text)
	if submit {
		r.SummaryStatus = SummarySubmitted
	} else {
		r.SummaryStatus = SummaryDraft
	}
	return nil
}

// review records the employer's decision. Reviews require a submitted
// summary and a pending approval; decisions are terminal.
func (r *CoopRecord) review(decision string) error {
	if r.SummaryStatus != SummarySubmitted {
		return newTransitionErr("summary review", r.SummaryStatus, decision)
	}
	if r.EmployerApproval != ApprovalPending {
		return newTransitionErr("employer approval", r.EmployerApproval, decision)
	}
	r.EmployerApproval = decision
	return nil
}
