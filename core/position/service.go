package position

import (
	"context"
	"errors"
	"time"

	"github.com/cecscoop/portal/core"
)

var (
	// errors
	ErrNotFound = errors.New("position not found")
)

type (
	Repository interface {
		CreatePosition(ctx context.Context, pos JobPosition) (JobPosition, error)
		GetPositionByID(ctx context.Context, id string) (JobPosition, error)
		QueryPositionsByEmployer(ctx context.Context, employerID string) ([]JobPosition, error)
		// FilterOpenPositions applies AND on available QueryFilter fields over
		// positions whose status reads as Open, newest first.
		FilterOpenPositions(ctx context.Context, filter QueryFilter) ([]JobPosition, error)
	}

	ServiceInterface interface {
		Post(ctx context.Context, actor core.Actor, np NewPosition) (JobPosition, error)
		GetByID(ctx context.Context, id string) (JobPosition, error)
		QueryByEmployer(ctx context.Context, employerID string) ([]JobPosition, error)
		Search(ctx context.Context, filter QueryFilter) ([]JobPosition, error)
	}

	Service struct {
		repo  Repository
		idGen core.IDGenerator
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, idGen core.IDGenerator) *Service {
	return &Service{repo: repo, idGen: idGen}
}

// Post creates a new Open posting owned by the acting employer.
// Total hours are derived at posting time as weeks * hours per week.
func (svc *Service) Post(ctx context.Context, actor core.Actor, np NewPosition) (JobPosition, error) {
	id, err := svc.idGen.NextID(ctx, core.PositionIDPrefix)
	if err != nil {
		return JobPosition{}, err
	}

	pos := JobPosition{
		ID:               id,
		EmployerID:       actor.ID,
		Title:            np.Title,
		Description:      np.Description,
		Location:         np.Location,
		Weeks:            np.Weeks,
		HoursPerWeek:     np.HoursPerWeek,
		TotalHours:       np.Weeks * np.HoursPerWeek,
		MajorsOfInterest: np.MajorsOfInterest,
		RequiredSkills:   np.RequiredSkills,
		PreferredSkills:  np.PreferredSkills,
		SalaryInfo:       np.SalaryInfo,
		Status:           StatusOpen,
		CreatedAt:        time.Now().UTC(),
	}
	return svc.repo.CreatePosition(ctx, pos)
}

func (svc *Service) GetByID(ctx context.Context, id string) (JobPosition, error) {
	return svc.repo.GetPositionByID(ctx, id)
}

func (svc *Service) QueryByEmployer(ctx context.Context, employerID string) ([]JobPosition, error) {
	return svc.repo.QueryPositionsByEmployer(ctx, employerID)
}

func (svc *Service) Search(ctx context.Context, filter QueryFilter) ([]JobPosition, error) {
	filter.Clean()
	return svc.repo.FilterOpenPositions(ctx, filter)
}
