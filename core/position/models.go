package position

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cecscoop/portal/core"
)

// Position statuses. Legacy rows may carry an empty status, which reads
// as Open.
const (
	StatusOpen    = "Open"
	StatusPending = "Pending" // filled, selection pending completion
	StatusClosed  = "Closed"
)

type JobPosition struct {
	ID               string    `db:"id" json:"id"` // POS-YYYY-XXXX
	EmployerID       string    `db:"employer_id" json:"employer_id"`
	Title            string    `db:"title" json:"title"`
	Description      string    `db:"description" json:"description"`
	Location         string    `db:"location" json:"location"`
	Weeks            int       `db:"weeks" json:"weeks"`
	HoursPerWeek     int       `db:"hours_per_week" json:"hours_per_week"`
	TotalHours       int       `db:"total_hours" json:"total_hours"`
	MajorsOfInterest string    `db:"majors_of_interest" json:"majors_of_interest"`
	RequiredSkills   string    `db:"required_skills" json:"required_skills"`
	PreferredSkills  string    `db:"preferred_skills" json:"preferred_skills"`
	SalaryInfo       string    `db:"salary_info" json:"salary_info"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"` // UTC
}

// IsOpen reports whether the position accepts applications.
func (p JobPosition) IsOpen() bool {
	return p.Status == StatusOpen || p.Status == ""
}

// NewPosition contains information needed to post a new JobPosition.
type NewPosition struct {
	Title            string `json:"title" validate:"required"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	Weeks            int    `json:"weeks" validate:"omitempty,gte=0"`
	HoursPerWeek     int    `json:"hours_per_week" validate:"omitempty,gte=0"`
	MajorsOfInterest string `json:"majors_of_interest"`
	RequiredSkills   string `json:"required_skills"`
	PreferredSkills  string `json:"preferred_skills"`
	SalaryInfo       string `json:"salary_info"`
}

func (np *NewPosition) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	np.Location = core.CleanString(np.Location)
	return validate.Struct(np)
}

// QueryFilter narrows a student's position search. All fields are optional
// and combined with AND; text matches are case-insensitive substring matches.
type QueryFilter struct {
	Search   string `query:"q"`        // matches JobPosition.Title
	Employer string `query:"employer"` // matches Employer.CompanyName
	Location string `query:"location"` // matches JobPosition.Location
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Employer == "" && qf.Location == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Employer = core.CleanString(qf.Employer)
	qf.Location = core.CleanString(qf.Location)
}
