package dummydb

import (
	"context"
	"sort"

	"github.com/cecscoop/portal/core"
	"github.com/cecscoop/portal/core/coop"
	"github.com/cecscoop/portal/core/employer"
	"github.com/cecscoop/portal/core/faculty"
	"github.com/cecscoop/portal/core/position"
	"github.com/cecscoop/portal/core/student"
)

type coopRepository struct {
	db *DB
}

var _ coop.Repository = (*coopRepository)(nil) // interface compliance check

func NewCoopRepository(db *DB) coop.Repository {
	return &coopRepository{db: db}
}

// Transact runs fn against the same repository. The in-memory store does
// not simulate rollbacks; tests exercising failure paths assert on state
// explicitly.
func (repo *coopRepository) Transact(_ context.Context, fn func(coop.Repository) error) error {
	return fn(repo)
}

func (repo *coopRepository) CreateApplication(_ context.Context, app coop.Application) (coop.Application, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.appPK++
	app.ID = repo.db.appPK
	repo.db.applications[app.ID] = &app
	return app, nil
}

func (repo *coopRepository) GetApplicationByID(_ context.Context, id int) (coop.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if app, ok := repo.db.applications[id]; ok {
		return *app, nil
	}
	return coop.Application{}, coop.ErrApplicationNotFound
}

func (repo *coopRepository) GetApplicationForUpdate(ctx context.Context, id int) (coop.Application, error) {
	return repo.GetApplicationByID(ctx, id)
}

func (repo *coopRepository) GetActiveApplication(_ context.Context, studentID, positionID string) (coop.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, app := range repo.db.applications {
		if app.StudentID == studentID && app.PositionID == positionID && app.Status != coop.StatusWithdrawn {
			return *app, nil
		}
	}
	return coop.Application{}, coop.ErrApplicationNotFound
}

func (repo *coopRepository) QueryApplicationsByStudent(_ context.Context, studentID string) ([]coop.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	apps := make([]coop.Application, 0)
	for _, app := range repo.db.applications {
		if app.StudentID == studentID {
			apps = append(apps, *app)
		}
	}
	sortApplications(apps)
	return apps, nil
}

func (repo *coopRepository) QueryApplicationsByPosition(_ context.Context, positionID string) ([]coop.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	apps := make([]coop.Application, 0)
	for _, app := range repo.db.applications {
		if app.PositionID == positionID {
			apps = append(apps, *app)
		}
	}
	sortApplications(apps)
	return apps, nil
}

func (repo *coopRepository) UpdateApplicationStatus(_ context.Context, id int, status string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	app, ok := repo.db.applications[id]
	if !ok {
		return coop.ErrApplicationNotFound
	}
	app.Status = status
	return nil
}

func (repo *coopRepository) CreateSelection(_ context.Context, sel coop.Selection) (coop.Selection, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.selPK++
	sel.ID = repo.db.selPK
	repo.db.selections[sel.ID] = &sel
	return sel, nil
}

func (repo *coopRepository) CreateEligibility(_ context.Context, el coop.CoopEligibility) (coop.CoopEligibility, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.eligPK++
	el.ID = repo.db.eligPK
	repo.db.eligibilities[el.ID] = &el
	return el, nil
}

func (repo *coopRepository) GetEligibilityByApplication(_ context.Context, applicationID int) (coop.CoopEligibility, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, el := range repo.db.eligibilities {
		if el.ApplicationID == applicationID {
			return *el, nil
		}
	}
	return coop.CoopEligibility{}, coop.ErrEligibilityNotFound
}

func (repo *coopRepository) CreateCoopRecord(_ context.Context, rec coop.CoopRecord) (coop.CoopRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.recPK++
	rec.ID = repo.db.recPK
	repo.db.records[rec.ID] = &rec
	return rec, nil
}

func (repo *coopRepository) GetCoopRecordByID(_ context.Context, id int) (coop.CoopRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.records[id]; ok {
		return *rec, nil
	}
	return coop.CoopRecord{}, coop.ErrRecordNotFound
}

func (repo *coopRepository) GetCoopRecordByApplication(_ context.Context, applicationID int) (coop.CoopRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, rec := range repo.db.records {
		if rec.ApplicationID == applicationID {
			return *rec, nil
		}
	}
	return coop.CoopRecord{}, coop.ErrRecordNotFound
}

func (repo *coopRepository) UpdateCoopRecord(_ context.Context, rec coop.CoopRecord) (coop.CoopRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.records[rec.ID]; !ok {
		return coop.CoopRecord{}, coop.ErrRecordNotFound
	}
	repo.db.records[rec.ID] = &rec
	return rec, nil
}

func (repo *coopRepository) QueryCoopRecordsByDepartment(_ context.Context, department string) ([]coop.CoopRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]coop.CoopRecord, 0)
	for _, rec := range repo.db.records {
		std, ok := repo.db.students[rec.StudentID]
		if ok && std.Department == department {
			recs = append(recs, *rec)
		}
	}
	sortRecords(recs)
	return recs, nil
}

func (repo *coopRepository) QueryPendingReviews(_ context.Context, employerID string) ([]coop.CoopRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]coop.CoopRecord, 0)
	for _, rec := range repo.db.records {
		if rec.SummaryStatus != coop.SummarySubmitted || rec.EmployerApproval != coop.ApprovalPending {
			continue
		}
		pos, ok := repo.db.positions[rec.PositionID]
		if ok && pos.EmployerID == employerID {
			recs = append(recs, *rec)
		}
	}
	sortRecords(recs)
	return recs, nil
}

func (repo *coopRepository) GetStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *coopRepository) GetEmployer(_ context.Context, id string) (employer.Employer, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if emp, ok := repo.db.employers[id]; ok {
		return *emp, nil
	}
	return employer.Employer{}, employer.ErrNotFound
}

func (repo *coopRepository) GetFaculty(_ context.Context, id string) (faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if fac, ok := repo.db.faculty[id]; ok {
		return *fac, nil
	}
	return faculty.Faculty{}, faculty.ErrNotFound
}

func (repo *coopRepository) GetPosition(_ context.Context, id string) (position.JobPosition, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if pos, ok := repo.db.positions[id]; ok {
		return *pos, nil
	}
	return position.JobPosition{}, position.ErrNotFound
}

func (repo *coopRepository) QueryPositionsByEmployer(_ context.Context, employerID string) ([]position.JobPosition, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	positions := make([]position.JobPosition, 0)
	for _, pos := range repo.db.positions {
		if pos.EmployerID == employerID {
			positions = append(positions, *pos)
		}
	}
	sortPositions(positions)
	return positions, nil
}

func (repo *coopRepository) SetPositionStatus(_ context.Context, id, status string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	pos, ok := repo.db.positions[id]
	if !ok {
		return position.ErrNotFound
	}
	pos.Status = status
	return nil
}

func (repo *coopRepository) StageEvent(_ context.Context, evt core.Event) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.events[evt.ID] = &evt
	return nil
}

func sortApplications(apps []coop.Application) {
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].AppliedAt.Equal(apps[j].AppliedAt) {
			return apps[i].ID > apps[j].ID
		}
		return apps[i].AppliedAt.After(apps[j].AppliedAt)
	})
}

func sortRecords(recs []coop.CoopRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
}
