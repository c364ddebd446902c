package coop

import (
	"context"

	"github.com/cecscoop/portal/core"
	"github.com/cecscoop/portal/core/position"
	"github.com/cecscoop/portal/core/student"
)

type (
	// ApplicationDetail is an application with its related objects resolved.
	// Student is only populated on employer-facing views.
	ApplicationDetail struct {
		Application
		Student     *student.Student     `json:"student,omitempty"`
		Position    position.JobPosition `json:"position"`
		Eligibility *CoopEligibility     `json:"eligibility,omitempty"`
		Record      *CoopRecord          `json:"coop_record,omitempty"`
	}

	StudentDashboard struct {
		TotalApplications   int                 `json:"total_applications"`
		PendingApplications int                 `json:"pending_applications"`
		Eligible            bool                `json:"eligible"`
		Applications        []ApplicationDetail `json:"applications"`
	}

	// PositionDetail is a single posting with the viewing student's active
	// application against it, if any.
	PositionDetail struct {
		position.JobPosition
		Application *Application `json:"application,omitempty"`
	}

	PositionSummary struct {
		position.JobPosition
		ApplicantCount int `json:"applicant_count"`
	}

	EmployerDashboard struct {
		ActiveCount       int               `json:"active_count"`
		TotalApplications int               `json:"total_applications"`
		SelectedCount     int               `json:"selected_count"`
		PendingReviews    int               `json:"pending_reviews"`
		Positions         []PositionSummary `json:"positions"`
	}

	// RecordDetail is a co-op record with its student and position resolved.
	RecordDetail struct {
		CoopRecord
		Student  student.Student      `json:"student"`
		Position position.JobPosition `json:"position"`
	}

	FacultyDashboard struct {
		TotalStudents    int            `json:"total_students"`
		PendingSummaries int            `json:"pending_summaries"`
		Graded           int            `json:"graded"`
		AwaitingApproval int            `json:"awaiting_approval"`
		Records          []RecordDetail `json:"records"`
	}
)

// StudentApplications lists the acting student's applications, newest
// first, with position, eligibility and co-op record resolved.
func (svc *Service) StudentApplications(ctx context.Context, actor core.Actor) ([]ApplicationDetail, error) {
	apps, err := svc.repo.QueryApplicationsByStudent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	details := make([]ApplicationDetail, 0, len(apps))
	for _, app := range apps {
		detail, err := svc.applicationDetail(ctx, app, false)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// Position resolves a single posting for the acting student, together
// with their non-withdrawn application against it when one exists.
func (svc *Service) Position(ctx context.Context, actor core.Actor, positionID string) (PositionDetail, error) {
	pos, err := svc.repo.GetPosition(ctx, positionID)
	if err != nil {
		return PositionDetail{}, err
	}

	detail := PositionDetail{JobPosition: pos}
	app, err := svc.repo.GetActiveApplication(ctx, actor.ID, positionID)
	switch err {
	case nil:
		detail.Application = &app
	case ErrApplicationNotFound:
	default:
		return PositionDetail{}, err
	}
	return detail, nil
}

// Dashboard summarizes the acting student's applications and whether any
// eligibility verdict came back positive.
func (svc *Service) Dashboard(ctx context.Context, actor core.Actor) (StudentDashboard, error) {
	details, err := svc.StudentApplications(ctx, actor)
	if err != nil {
		return StudentDashboard{}, err
	}

	dash := StudentDashboard{Applications: details}
	dash.TotalApplications = len(details)
	for _, d := range details {
		if d.Status == StatusPending {
			dash.PendingApplications++
		}
		if d.Eligibility != nil && d.Eligibility.IsEligible {
			dash.Eligible = true
		}
	}
	return dash, nil
}

// EmployerDashboard summarizes the acting employer's postings: active
// openings, applications received, selections made and reviews waiting.
func (svc *Service) EmployerDashboard(ctx context.Context, actor core.Actor) (EmployerDashboard, error) {
	positions, err := svc.repo.QueryPositionsByEmployer(ctx, actor.ID)
	if err != nil {
		return EmployerDashboard{}, err
	}

	dash := EmployerDashboard{Positions: make([]PositionSummary, 0, len(positions))}
	for _, pos := range positions {
		if pos.IsOpen() {
			dash.ActiveCount++
		}
		apps, err := svc.repo.QueryApplicationsByPosition(ctx, pos.ID)
		if err != nil {
			return EmployerDashboard{}, err
		}
		dash.TotalApplications += len(apps)
		for _, app := range apps {
			if app.Status != StatusSelected {
				continue
			}
			dash.SelectedCount++
			rec, err := svc.repo.GetCoopRecordByApplication(ctx, app.ID)
			if err == ErrRecordNotFound {
				continue
			} else if err != nil {
				return EmployerDashboard{}, err
			}
			if rec.EmployerApproval == ApprovalPending {
				dash.PendingReviews++
			}
		}
		dash.Positions = append(dash.Positions, PositionSummary{JobPosition: pos, ApplicantCount: len(apps)})
	}
	return dash, nil
}

// Applicants lists the applications for one of the acting employer's
// positions, with applicant profiles resolved.
func (svc *Service) Applicants(ctx context.Context, actor core.Actor, positionID string) ([]ApplicationDetail, error) {
	pos, err := svc.repo.GetPosition(ctx, positionID)
	if err != nil {
		return nil, err
	}
	if pos.EmployerID != actor.ID {
		return nil, position.ErrNotFound
	}

	apps, err := svc.repo.QueryApplicationsByPosition(ctx, positionID)
	if err != nil {
		return nil, err
	}
	details := make([]ApplicationDetail, 0, len(apps))
	for _, app := range apps {
		detail, err := svc.applicationDetail(ctx, app, true)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// PendingReviews lists co-op records on the acting employer's positions
// whose summary has been submitted but not yet reviewed.
func (svc *Service) PendingReviews(ctx context.Context, actor core.Actor) ([]RecordDetail, error) {
	recs, err := svc.repo.QueryPendingReviews(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return svc.recordDetails(ctx, recs)
}

// FacultyDashboard lists the co-op records of students in the acting
// coordinator's department, with progress counts.
func (svc *Service) FacultyDashboard(ctx context.Context, actor core.Actor) (FacultyDashboard, error) {
	fac, err := svc.repo.GetFaculty(ctx, actor.ID)
	if err != nil {
		return FacultyDashboard{}, err
	}
	recs, err := svc.repo.QueryCoopRecordsByDepartment(ctx, fac.Department)
	if err != nil {
		return FacultyDashboard{}, err
	}

	details, err := svc.recordDetails(ctx, recs)
	if err != nil {
		return FacultyDashboard{}, err
	}

	dash := FacultyDashboard{Records: details}
	students := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		students[rec.StudentID] = struct{}{}
		if rec.SummaryStatus == SummarySubmitted && !rec.FacultyGrade.Valid {
			dash.PendingSummaries++
		}
		if rec.FacultyGrade.Valid {
			dash.Graded++
		}
		if rec.EmployerApproval == ApprovalPending {
			dash.AwaitingApproval++
		}
	}
	dash.TotalStudents = len(students)
	return dash, nil
}

// Record fetches a single co-op record detail, scoped to the actor: the
// owning student, the employer owning the position, or the coordinator of
// the student's department.
func (svc *Service) Record(ctx context.Context, actor core.Actor, recordID int) (RecordDetail, error) {
	rec, err := svc.repo.GetCoopRecordByID(ctx, recordID)
	if err != nil {
		return RecordDetail{}, err
	}
	std, err := svc.repo.GetStudent(ctx, rec.StudentID)
	if err != nil {
		return RecordDetail{}, err
	}
	pos, err := svc.repo.GetPosition(ctx, rec.PositionID)
	if err != nil {
		return RecordDetail{}, err
	}

	switch actor.Role {
	case core.RoleStudent:
		if rec.StudentID != actor.ID {
			return RecordDetail{}, ErrRecordNotFound
		}
	case core.RoleEmployer:
		if pos.EmployerID != actor.ID {
			return RecordDetail{}, ErrRecordNotFound
		}
	case core.RoleFaculty:
		fac, err := svc.repo.GetFaculty(ctx, actor.ID)
		if err != nil {
			return RecordDetail{}, err
		}
		if fac.Department != std.Department {
			return RecordDetail{}, ErrRecordNotFound
		}
	default:
		return RecordDetail{}, ErrRecordNotFound
	}

	return RecordDetail{CoopRecord: rec, Student: std, Position: pos}, nil
}

func (svc *Service) applicationDetail(ctx context.Context, app Application, withStudent bool) (ApplicationDetail, error) {
	detail := ApplicationDetail{Application: app}

	pos, err := svc.repo.GetPosition(ctx, app.PositionID)
	if err != nil {
		return ApplicationDetail{}, err
	}
	detail.Position = pos

	if withStudent {
		std, err := svc.repo.GetStudent(ctx, app.StudentID)
		if err != nil {
			return ApplicationDetail{}, err
		}
		detail.Student = &std
	}

	if elig, err := svc.repo.GetEligibilityByApplication(ctx, app.ID); err == nil {
		detail.Eligibility = &elig
	} else if err != ErrEligibilityNotFound {
		return ApplicationDetail{}, err
	}

	if rec, err := svc.repo.GetCoopRecordByApplication(ctx, app.ID); err == nil {
		detail.Record = &rec
	} else if err != ErrRecordNotFound {
		return ApplicationDetail{}, err
	}
	return detail, nil
}

func (svc *Service) recordDetails(ctx context.Context, recs []CoopRecord) ([]RecordDetail, error) {
	details := make([]RecordDetail, 0, len(recs))
	for _, rec := range recs {
		std, err := svc.repo.GetStudent(ctx, rec.StudentID)
		if err != nil {
			return nil, err
		}
		pos, err := svc.repo.GetPosition(ctx, rec.PositionID)
		if err != nil {
			return nil, err
		}
		details = append(details, RecordDetail{CoopRecord: rec, Student: std, Position: pos})
	}
	return details, nil
}
