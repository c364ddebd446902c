package coop

import (
	"github.com/cecscoop/portal/core/position"
	"github.com/cecscoop/portal/core/student"
)

// Eligibility requirements for co-op credit.
const (
	MinGPA        = 2.0
	MinWeeks      = 7
	MinTotalHours = 140
)

// Eligibility is the four-factor verdict breakdown. The overall verdict is
// the AND of the four sub-checks; the breakdown is persisted so students and
// coordinators can see why a check passed or failed.
type Eligibility struct {
	IsEligible  bool `db:"is_eligible" json:"is_eligible"`
	GPAOK       bool `db:"gpa_ok" json:"gpa_ok"`
	WeeksOK     bool `db:"weeks_ok" json:"weeks_ok"`
	HoursOK     bool `db:"hours_ok" json:"hours_ok"`
	SemestersOK bool `db:"semesters_ok" json:"semesters_ok"`
}

// SemesterPolicy decides whether a student satisfies the completed-semesters
// requirement. Transfer students get their own variant so the rules can
// diverge later; today both variants apply the same check.
type SemesterPolicy interface {
	SemestersOK(s student.Student) bool
}

type (
	// StandardPolicy applies to students who started at this university.
	StandardPolicy struct{}

	// TransferPolicy applies to transfer students.
	TransferPolicy struct{}
)

func (StandardPolicy) SemestersOK(s student.Student) bool {
	return s.StartYear.Valid
}

func (TransferPolicy) SemestersOK(s student.Student) bool {
	return s.StartYear.Valid
}

// PolicyFor returns the semester policy matching the student's record.
func PolicyFor(s student.Student) SemesterPolicy {
	if s.IsTransfer {
		return TransferPolicy{}
	}
	return StandardPolicy{}
}

// TotalHours returns the position's committed hours: the stored total when
// present, otherwise derived as weeks * hours per week.
func TotalHours(p position.JobPosition) int {
	if p.TotalHours > 0 {
		return p.TotalHours
	}
	return p.Weeks * p.HoursPerWeek
}

// CheckEligibility computes the co-op eligibility verdict for a student and
// a position. It is a pure function of its inputs: no side effects, no
// caching. It must be re-run at every selection since position parameters
// vary per application.
func CheckEligibility(s student.Student, p position.JobPosition) Eligibility {
	el := Eligibility{
		GPAOK:       s.GPA.Valid && s.GPA.Float64 >= MinGPA,
		WeeksOK:     p.Weeks >= MinWeeks,
		HoursOK:     TotalHours(p) >= MinTotalHours,
		SemestersOK: PolicyFor(s).SemestersOK(s),
	}
	el.IsEligible = el.GPAOK && el.WeeksOK && el.HoursOK && el.SemestersOK
	return el
}
