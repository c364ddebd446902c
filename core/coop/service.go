package coop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/cecscoop/portal/core"
	"github.com/cecscoop/portal/core/employer"
	"github.com/cecscoop/portal/core/faculty"
	"github.com/cecscoop/portal/core/position"
	"github.com/cecscoop/portal/core/student"
)

var (
	// errors
	ErrApplicationNotFound = errors.New("application not found")
	ErrEligibilityNotFound = errors.New("eligibility not found")
	ErrRecordNotFound      = errors.New("co-op record not found")

	errAlreadyApplied = errors.New("you already applied to this position")
	errPositionClosed = errors.New("this position is not accepting applications")
	errNotEligible    = errors.New("you are not marked as eligible for co-op for this position")
	errNoInterest     = errors.New("indicate your interest in co-op credit before working on a summary")
	errBadDecision    = errors.New("decision must be Approved or Rejected")
)

type (
	// Repository is the persistence boundary of the co-op lifecycle.
	// Transact runs fn against a repository bound to a single transaction;
	// every state transition below executes as one such unit.
	Repository interface {
		Transact(ctx context.Context, fn func(Repository) error) error

		CreateApplication(ctx context.Context, app Application) (Application, error)
		GetApplicationByID(ctx context.Context, id int) (Application, error)
		// GetApplicationForUpdate locks the application row for the duration
		// of the enclosing transaction.
		GetApplicationForUpdate(ctx context.Context, id int) (Application, error)
		// GetActiveApplication finds the non-withdrawn application of a
		// student for a position, if any.
		GetActiveApplication(ctx context.Context, studentID, positionID string) (Application, error)
		QueryApplicationsByStudent(ctx context.Context, studentID string) ([]Application, error)
		QueryApplicationsByPosition(ctx context.Context, positionID string) ([]Application, error)
		UpdateApplicationStatus(ctx context.Context, id int, status string) error

		CreateSelection(ctx context.Context, sel Selection) (Selection, error)
		CreateEligibility(ctx context.Context, el CoopEligibility) (CoopEligibility, error)
		GetEligibilityByApplication(ctx context.Context, applicationID int) (CoopEligibility, error)

		CreateCoopRecord(ctx context.Context, rec CoopRecord) (CoopRecord, error)
		GetCoopRecordByID(ctx context.Context, id int) (CoopRecord, error)
		GetCoopRecordByApplication(ctx context.Context, applicationID int) (CoopRecord, error)
		UpdateCoopRecord(ctx context.Context, rec CoopRecord) (CoopRecord, error)
		// QueryCoopRecordsByDepartment scopes records to students of the
		// given department (the faculty coordinator's view).
		QueryCoopRecordsByDepartment(ctx context.Context, department string) ([]CoopRecord, error)
		// QueryPendingReviews lists records on an employer's positions with a
		// submitted summary awaiting approval.
		QueryPendingReviews(ctx context.Context, employerID string) ([]CoopRecord, error)

		// cross-aggregate reads/writes needed inside lifecycle transactions
		GetStudent(ctx context.Context, id string) (student.Student, error)
		GetEmployer(ctx context.Context, id string) (employer.Employer, error)
		GetFaculty(ctx context.Context, id string) (faculty.Faculty, error)
		GetPosition(ctx context.Context, id string) (position.JobPosition, error)
		QueryPositionsByEmployer(ctx context.Context, employerID string) ([]position.JobPosition, error)
		SetPositionStatus(ctx context.Context, id, status string) error

		// StageEvent writes a notification to the outbox within the current
		// transaction; it is dispatched only after commit.
		StageEvent(ctx context.Context, evt core.Event) error
	}

	// Service is the lifecycle controller: it advances applications and
	// co-op records through their state machines on behalf of an explicit
	// actor.
	Service struct {
		repo Repository
		conf *core.Config
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, conf: conf}
}

// Apply creates a Pending application by the acting student for an open
// position. A student may hold at most one non-withdrawn application per
// position; re-applying after a withdrawal is allowed.
func (svc *Service) Apply(ctx context.Context, actor core.Actor, positionID string) (Application, error) {
	var app Application
	err := svc.repo.Transact(ctx, func(r Repository) error {
		pos, err := r.GetPosition(ctx, positionID)
		if err != nil {
			return err
		}
		if !pos.IsOpen() {
			return core.NewValidationError(errPositionClosed)
		}

		if _, err := r.GetActiveApplication(ctx, actor.ID, positionID); err == nil {
			return core.NewValidationError(errAlreadyApplied)
		} else if err != ErrApplicationNotFound {
			return err
		}

		app, err = r.CreateApplication(ctx, Application{
			StudentID:  actor.ID,
			PositionID: positionID,
			Status:     StatusPending,
			AppliedAt:  time.Now().UTC(),
		})
		return err
	})
	return app, err
}

// Withdraw moves the acting student's own Pending application to Withdrawn.
func (svc *Service) Withdraw(ctx context.Context, actor core.Actor, appID int) (Application, error) {
	var app Application
	err := svc.repo.Transact(ctx, func(r Repository) error {
		var err error
		if app, err = r.GetApplicationForUpdate(ctx, appID); err != nil {
			return err
		}
		if app.StudentID != actor.ID {
			return ErrApplicationNotFound
		}
		if err = app.transition(StatusWithdrawn); err != nil {
			return err
		}
		return r.UpdateApplicationStatus(ctx, app.ID, app.Status)
	})
	return app, err
}

// Select moves a Pending application on one of the acting employer's
// positions to Selected. In the same transaction the position is marked
// Pending, a Selection is recorded and the eligibility verdict is computed
// and snapshotted. If the student is eligible a notification is staged in
// the outbox; its delivery is best-effort and happens after commit.
func (svc *Service) Select(ctx context.Context, actor core.Actor, appID int) (Application, CoopEligibility, error) {
	var (
		app  Application
		elig CoopEligibility
	)
	err := svc.repo.Transact(ctx, func(r Repository) error {
		var err error
		if app, err = r.GetApplicationForUpdate(ctx, appID); err != nil {
			return err
		}
		pos, err := r.GetPosition(ctx, app.PositionID)
		if err != nil {
			return err
		}
		if pos.EmployerID != actor.ID {
			return ErrApplicationNotFound
		}

		if err = app.transition(StatusSelected); err != nil {
			return err
		}
		if err = r.UpdateApplicationStatus(ctx, app.ID, app.Status); err != nil {
			return err
		}
		if err = r.SetPositionStatus(ctx, pos.ID, position.StatusPending); err != nil {
			return err
		}
		if _, err = r.CreateSelection(ctx, Selection{
			ApplicationID: app.ID,
			SelectedAt:    time.Now().UTC(),
		}); err != nil {
			return err
		}

		std, err := r.GetStudent(ctx, app.StudentID)
		if err != nil {
			return err
		}
		// the verdict depends on position parameters; always recompute,
		// never reuse a snapshot from another application
		elig = CoopEligibility{
			ApplicationID: app.ID,
			Eligibility:   CheckEligibility(std, pos),
			CheckedAt:     time.Now().UTC(),
		}
		if elig, err = r.CreateEligibility(ctx, elig); err != nil {
			return err
		}

		if elig.IsEligible {
			emp, err := r.GetEmployer(ctx, pos.EmployerID)
			if err != nil {
				return err
			}
			return r.StageEvent(ctx, svc.selectionNotice(std, pos, emp))
		}
		return nil
	})
	return app, elig, err
}

// Reject moves a Pending application on one of the acting employer's
// positions to Rejected. No eligibility is computed and the position status
// is left alone.
func (svc *Service) Reject(ctx context.Context, actor core.Actor, appID int) (Application, error) {
	var app Application
	err := svc.repo.Transact(ctx, func(r Repository) error {
		var err error
		if app, err = r.GetApplicationForUpdate(ctx, appID); err != nil {
			return err
		}
		pos, err := r.GetPosition(ctx, app.PositionID)
		if err != nil {
			return err
		}
		if pos.EmployerID != actor.ID {
			return ErrApplicationNotFound
		}
		if err = app.transition(StatusRejected); err != nil {
			return err
		}
		return r.UpdateApplicationStatus(ctx, app.ID, app.Status)
	})
	return app, err
}

// ExpressInterest records the acting student's wish to receive co-op credit
// for a selected, eligible application. This is the only path that creates
// a CoopRecord; it is idempotent.
func (svc *Service) ExpressInterest(ctx context.Context, actor core.Actor, appID int) (CoopRecord, error) {
	var rec CoopRecord
	err := svc.repo.Transact(ctx, func(r Repository) error {
		app, err := r.GetApplicationByID(ctx, appID)
		if err != nil {
			return err
		}
		if app.StudentID != actor.ID {
			return ErrApplicationNotFound
		}

		elig, err := r.GetEligibilityByApplication(ctx, app.ID)
		if err == ErrEligibilityNotFound {
			return core.NewValidationError(errNotEligible)
		} else if err != nil {
			return err
		}
		if !elig.IsEligible {
			return core.NewValidationError(errNotEligible)
		}

		rec, err = r.GetCoopRecordByApplication(ctx, app.ID)
		if err == ErrRecordNotFound {
			rec, err = r.CreateCoopRecord(ctx, CoopRecord{
				ApplicationID:     app.ID,
				StudentID:         app.StudentID,
				PositionID:        app.PositionID,
				EligibilityID:     elig.ID,
				StudentInterested: true,
				SummaryStatus:     SummaryDraft,
				EmployerApproval:  ApprovalPending,
				UpdatedAt:         time.Now().UTC(),
			})
			return err
		} else if err != nil {
			return err
		}

		rec.StudentInterested = true
		rec.UpdatedAt = time.Now().UTC()
		rec, err = r.UpdateCoopRecord(ctx, rec)
		return err
	})
	return rec, err
}

// SaveSummary stores the acting student's work summary on an existing,
// interested co-op record; submit moves it Draft -> Submitted, after which
// the summary is locked.
func (svc *Service) SaveSummary(ctx context.Context, actor core.Actor, appID int, text string, submit bool) (CoopRecord, error) {
	var rec CoopRecord
	err := svc.repo.Transact(ctx, func(r Repository) error {
		app, err := r.GetApplicationByID(ctx, appID)
		if err != nil {
			return err
		}
		if app.StudentID != actor.ID {
			return ErrApplicationNotFound
		}

		rec, err = r.GetCoopRecordByApplication(ctx, app.ID)
		if err == ErrRecordNotFound {
			return core.NewValidationError(errNoInterest)
		} else if err != nil {
			return err
		}
		if !rec.StudentInterested {
			return core.NewValidationError(errNoInterest)
		}

		if err = rec.saveSummary(text, submit); err != nil {
			return err
		}
		rec.UpdatedAt = time.Now().UTC()
		rec, err = r.UpdateCoopRecord(ctx, rec)
		return err
	})
	return rec, err
}

// ReviewSummary records the acting employer's decision on a submitted
// summary. Approved/Rejected are terminal.
func (svc *Service) ReviewSummary(ctx context.Context, actor core.Actor, recordID int, decision string) (CoopRecord, error) {
	if decision != ApprovalApproved && decision != ApprovalRejected {
		return CoopRecord{}, core.NewValidationError(errBadDecision, core.FieldError{Field: "approval", Error: errBadDecision.Error()})
	}

	var rec CoopRecord
	err := svc.repo.Transact(ctx, func(r Repository) error {
		var err error
		if rec, err = r.GetCoopRecordByID(ctx, recordID); err != nil {
			return err
		}
		pos, err := r.GetPosition(ctx, rec.PositionID)
		if err != nil {
			return err
		}
		if pos.EmployerID != actor.ID {
			return ErrRecordNotFound
		}

		if err = rec.review(decision); err != nil {
			return err
		}
		rec.UpdatedAt = time.Now().UTC()
		rec, err = r.UpdateCoopRecord(ctx, rec)
		return err
	})
	return rec, err
}

// Grade sets the letter grade on a co-op record of a student in the acting
// faculty coordinator's department. Grades stay overwritable.
func (svc *Service) Grade(ctx context.Context, actor core.Actor, recordID int, grade string) (CoopRecord, error) {
	var rec CoopRecord
	err := svc.repo.Transact(ctx, func(r Repository) error {
		var err error
		if rec, err = r.GetCoopRecordByID(ctx, recordID); err != nil {
			return err
		}
		fac, err := r.GetFaculty(ctx, actor.ID)
		if err != nil {
			return err
		}
		std, err := r.GetStudent(ctx, rec.StudentID)
		if err != nil {
			return err
		}
		if fac.Department != std.Department {
			return ErrRecordNotFound
		}

		rec.FacultyGrade = null.StringFrom(grade)
		rec.FacultyID = null.StringFrom(fac.ID)
		rec.UpdatedAt = time.Now().UTC()
		rec, err = r.UpdateCoopRecord(ctx, rec)
		return err
	})
	return rec, err
}

func (svc *Service) selectionNotice(std student.Student, pos position.JobPosition, emp employer.Employer) core.Event {
	subject := "You have been selected and are eligible"
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"You have been selected for the position '%s' at %s.\n"+
			"Our records show you meet the eligibility requirements for co-op credit.\n\n"+
			"If you are interested in receiving co-op credit, please log in to the portal and indicate your interest.\n\n"+
			"- %s",
		std.Name, pos.Title, emp.CompanyName, svc.conf.AppName,
	)
	return core.NewEvent(core.EventStudentSelected, std.Email, subject, body)
}
