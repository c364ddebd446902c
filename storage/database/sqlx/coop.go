package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/cecscoop/portal/core"
	"github.com/cecscoop/portal/core/coop"
	"github.com/cecscoop/portal/core/employer"
	"github.com/cecscoop/portal/core/faculty"
	"github.com/cecscoop/portal/core/position"
	"github.com/cecscoop/portal/core/student"
)

type coopRepository struct {
	db  *sqlx.DB
	ext sqlx.ExtContext // the DB, or a transaction inside Transact
}

var _ coop.Repository = (*coopRepository)(nil) // interface compliance check

func NewCoopRepository(db *sqlx.DB) *coopRepository {
	return &coopRepository{db: db, ext: db}
}

// Transact runs fn against a repository bound to a single transaction,
// committing on success and rolling back on error.
func (repo *coopRepository) Transact(ctx context.Context, fn func(coop.Repository) error) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	if err = fn(&coopRepository{db: repo.db, ext: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrap(rbErr, "rolling back transaction")
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func (repo *coopRepository) CreateApplication(ctx context.Context, app coop.Application) (coop.Application, error) {
	q := `INSERT INTO applications (student_id, position_id, status, applied_at)
		VALUES ($1, $2, $3, $4) RETURNING id`

	err := sqlx.GetContext(ctx, repo.ext, &app.ID, q, app.StudentID, app.PositionID, app.Status, app.AppliedAt)
	if err != nil {
		return coop.Application{}, errors.Wrap(err, "creating application")
	}
	return app, nil
}

func (repo *coopRepository) getApplication(ctx context.Context, id int, forUpdate bool) (coop.Application, error) {
	q := `SELECT * FROM applications WHERE id = $1`
	if forUpdate {
		q += " FOR UPDATE"
	}

	var app coop.Application
	if err := sqlx.GetContext(ctx, repo.ext, &app, q, id); err != nil {
		return coop.Application{}, trapNoRowsErr(err, coop.ErrApplicationNotFound, "getting application")
	}
	return app, nil
}

func (repo *coopRepository) GetApplicationByID(ctx context.Context, id int) (coop.Application, error) {
	return repo.getApplication(ctx, id, false)
}

func (repo *coopRepository) GetApplicationForUpdate(ctx context.Context, id int) (coop.Application, error) {
	return repo.getApplication(ctx, id, true)
}

func (repo *coopRepository) GetActiveApplication(ctx context.Context, studentID, positionID string) (coop.Application, error) {
	q := `SELECT * FROM applications WHERE student_id = $1 AND position_id = $2 AND status <> $3`

	var app coop.Application
	err := sqlx.GetContext(ctx, repo.ext, &app, q, studentID, positionID, coop.StatusWithdrawn)
	if err != nil {
		return coop.Application{}, trapNoRowsErr(err, coop.ErrApplicationNotFound, "getting active application")
	}
	return app, nil
}

func (repo *coopRepository) QueryApplicationsByStudent(ctx context.Context, studentID string) ([]coop.Application, error) {
	q := `SELECT * FROM applications WHERE student_id = $1 ORDER BY applied_at DESC, id DESC`

	apps := make([]coop.Application, 0)
	if err := sqlx.SelectContext(ctx, repo.ext, &apps, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying applications by student")
	}
	return apps, nil
}

func (repo *coopRepository) QueryApplicationsByPosition(ctx context.Context, positionID string) ([]coop.Application, error) {
	q := `SELECT * FROM applications WHERE position_id = $1 ORDER BY applied_at DESC, id DESC`

	apps := make([]coop.Application, 0)
	if err := sqlx.SelectContext(ctx, repo.ext, &apps, q, positionID); err != nil {
		return nil, errors.Wrap(err, "querying applications by position")
	}
	return apps, nil
}

func (repo *coopRepository) UpdateApplicationStatus(ctx context.Context, id int, status string) error {
	q := `UPDATE applications SET status = $1 WHERE id = $2`

	res, err := repo.ext.ExecContext(ctx, q, status, id)
	if err != nil {
		return errors.Wrap(err, "updating application status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return coop.ErrApplicationNotFound
	}
	return nil
}

func (repo *coopRepository) CreateSelection(ctx context.Context, sel coop.Selection) (coop.Selection, error) {
	q := `INSERT INTO selections (application_id, selected_at, offer_letter_filename)
		VALUES ($1, $2, $3) RETURNING id`

	err := sqlx.GetContext(ctx, repo.ext, &sel.ID, q, sel.ApplicationID, sel.SelectedAt, sel.OfferLetterFilename)
	if err != nil {
		return coop.Selection{}, errors.Wrap(err, "creating selection")
	}
	return sel, nil
}

func (repo *coopRepository) CreateEligibility(ctx context.Context, el coop.CoopEligibility) (coop.CoopEligibility, error) {
	q := `INSERT INTO coop_eligibility (application_id, is_eligible, gpa_ok, weeks_ok, hours_ok, semesters_ok, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := sqlx.GetContext(ctx, repo.ext, &el.ID, q,
		el.ApplicationID, el.IsEligible, el.GPAOK, el.WeeksOK, el.HoursOK, el.SemestersOK, el.CheckedAt)
	if err != nil {
		return coop.CoopEligibility{}, errors.Wrap(err, "creating eligibility")
	}
	return el, nil
}

func (repo *coopRepository) GetEligibilityByApplication(ctx context.Context, applicationID int) (coop.CoopEligibility, error) {
	q := `SELECT * FROM coop_eligibility WHERE application_id = $1`

	var el coop.CoopEligibility
	if err := sqlx.GetContext(ctx, repo.ext, &el, q, applicationID); err != nil {
		return coop.CoopEligibility{}, trapNoRowsErr(err, coop.ErrEligibilityNotFound, "getting eligibility")
	}
	return el, nil
}

func (repo *coopRepository) CreateCoopRecord(ctx context.Context, rec coop.CoopRecord) (coop.CoopRecord, error) {
	q := `INSERT INTO coop_records (
			application_id, student_id, position_id, eligibility_id, faculty_id,
			student_interested, summary_text, summary_status, employer_approval, faculty_grade, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`

	err := sqlx.GetContext(ctx, repo.ext, &rec.ID, q,
		rec.ApplicationID, rec.StudentID, rec.PositionID, rec.EligibilityID, rec.FacultyID,
		rec.StudentInterested, rec.SummaryText, rec.SummaryStatus, rec.EmployerApproval, rec.FacultyGrade, rec.UpdatedAt)
	if err != nil {
		return coop.CoopRecord{}, errors.Wrap(err, "creating co-op record")
	}
	return rec, nil
}

func (repo *coopRepository) GetCoopRecordByID(ctx context.Context, id int) (coop.CoopRecord, error) {
	q := `SELECT * FROM coop_records WHERE id = $1`

	var rec coop.CoopRecord
	if err := sqlx.GetContext(ctx, repo.ext, &rec, q, id); err != nil {
		return coop.CoopRecord{}, trapNoRowsErr(err, coop.ErrRecordNotFound, "getting co-op record")
	}
	return rec, nil
}

func (repo *coopRepository) GetCoopRecordByApplication(ctx context.Context, applicationID int) (coop.CoopRecord, error) {
	q := `SELECT * FROM coop_records WHERE application_id = $1`

	var rec coop.CoopRecord
	if err := sqlx.GetContext(ctx, repo.ext, &rec, q, applicationID); err != nil {
		return coop.CoopRecord{}, trapNoRowsErr(err, coop.ErrRecordNotFound, "getting co-op record by application")
	}
	return rec, nil
}

func (repo *coopRepository) UpdateCoopRecord(ctx context.Context, rec coop.CoopRecord) (coop.CoopRecord, error) {
	q := `UPDATE coop_records SET
			faculty_id = $1, student_interested = $2, summary_text = $3,
			summary_status = $4, employer_approval = $5, faculty_grade = $6, updated_at = $7
		WHERE id = $8`

	res, err := repo.ext.ExecContext(ctx, q,
		rec.FacultyID, rec.StudentInterested, rec.SummaryText,
		rec.SummaryStatus, rec.EmployerApproval, rec.FacultyGrade, rec.UpdatedAt, rec.ID)
	if err != nil {
		return coop.CoopRecord{}, errors.Wrap(err, "updating co-op record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return coop.CoopRecord{}, coop.ErrRecordNotFound
	}
	return rec, nil
}

func (repo *coopRepository) QueryCoopRecordsByDepartment(ctx context.Context, department string) ([]coop.CoopRecord, error) {
	q := `SELECT r.* FROM coop_records r
		JOIN students s ON s.id = r.student_id
		WHERE s.department = $1
		ORDER BY r.id`

	recs := make([]coop.CoopRecord, 0)
	if err := sqlx.SelectContext(ctx, repo.ext, &recs, q, department); err != nil {
		return nil, errors.Wrap(err, "querying co-op records by department")
	}
	return recs, nil
}

func (repo *coopRepository) QueryPendingReviews(ctx context.Context, employerID string) ([]coop.CoopRecord, error) {
	q := `SELECT r.* FROM coop_records r
		JOIN job_positions p ON p.id = r.position_id
		WHERE p.employer_id = $1 AND r.summary_status = $2 AND r.employer_approval = $3
		ORDER BY r.id`

	recs := make([]coop.CoopRecord, 0)
	err := sqlx.SelectContext(ctx, repo.ext, &recs, q, employerID, coop.SummarySubmitted, coop.ApprovalPending)
	if err != nil {
		return nil, errors.Wrap(err, "querying pending reviews")
	}
	return recs, nil
}

func (repo *coopRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	q := `SELECT * FROM students WHERE id = $1`

	var std student.Student
	if err := sqlx.GetContext(ctx, repo.ext, &std, q, id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student")
	}
	return std, nil
}

func (repo *coopRepository) GetEmployer(ctx context.Context, id string) (employer.Employer, error) {
	q := `SELECT * FROM employers WHERE id = $1`

	var emp employer.Employer
	if err := sqlx.GetContext(ctx, repo.ext, &emp, q, id); err != nil {
		return employer.Employer{}, trapNoRowsErr(err, employer.ErrNotFound, "getting employer")
	}
	return emp, nil
}

func (repo *coopRepository) GetFaculty(ctx context.Context, id string) (faculty.Faculty, error) {
	q := `SELECT * FROM faculty WHERE id = $1`

	var fac faculty.Faculty
	if err := sqlx.GetContext(ctx, repo.ext, &fac, q, id); err != nil {
		return faculty.Faculty{}, trapNoRowsErr(err, faculty.ErrNotFound, "getting faculty")
	}
	return fac, nil
}

func (repo *coopRepository) GetPosition(ctx context.Context, id string) (position.JobPosition, error) {
	q := `SELECT * FROM job_positions WHERE id = $1`

	var pos position.JobPosition
	if err := sqlx.GetContext(ctx, repo.ext, &pos, q, id); err != nil {
		return position.JobPosition{}, trapNoRowsErr(err, position.ErrNotFound, "getting position")
	}
	return pos, nil
}

func (repo *coopRepository) QueryPositionsByEmployer(ctx context.Context, employerID string) ([]position.JobPosition, error) {
	q := `SELECT * FROM job_positions WHERE employer_id = $1 ORDER BY created_at DESC`

	positions := make([]position.JobPosition, 0)
	if err := sqlx.SelectContext(ctx, repo.ext, &positions, q, employerID); err != nil {
		return nil, errors.Wrap(err, "querying positions by employer")
	}
	return positions, nil
}

func (repo *coopRepository) SetPositionStatus(ctx context.Context, id, status string) error {
	q := `UPDATE job_positions SET status = $1 WHERE id = $2`

	res, err := repo.ext.ExecContext(ctx, q, status, id)
	if err != nil {
		return errors.Wrap(err, "setting position status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return position.ErrNotFound
	}
	return nil
}

func (repo *coopRepository) StageEvent(ctx context.Context, evt core.Event) error {
	q := `INSERT INTO outbox_events (id, kind, recipient, subject, body, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := repo.ext.ExecContext(ctx, q,
		evt.ID, evt.Kind, evt.Recipient, evt.Subject, evt.Body, evt.Status, evt.CreatedAt)
	return errors.Wrap(err, "staging event")
}
