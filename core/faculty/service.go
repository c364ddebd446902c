package faculty

import (
	"context"
	"errors"
	"time"

	"github.com/cecscoop/portal/core"
)

var (
	// errors
	ErrNotFound         = errors.New("faculty not found")
	ErrEmailExists      = errors.New("a faculty member with this email already exists")
	ErrDepartmentExists = errors.New("a co-op coordinator already exists for this department")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		CheckDepartmentVacancy(ctx context.Context, department string) error
		CreateFaculty(ctx context.Context, fac Faculty) (Faculty, error)
		GetFacultyByID(ctx context.Context, id string) (Faculty, error)
		GetFacultyByEmail(ctx context.Context, email string) (Faculty, error)
	}

	ServiceInterface interface {
		CheckEmailUniqueness(email string) error
		CheckDepartmentVacancy(department string) error
		Register(ctx context.Context, nf NewFaculty) (Faculty, error)
		GetByID(ctx context.Context, id string) (Faculty, error)
		GetByEmail(ctx context.Context, email string) (Faculty, error)
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

func (svc *Service) CheckEmailUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) CheckDepartmentVacancy(department string) error {
	if err := svc.repo.CheckDepartmentVacancy(context.Background(), department); err != nil {
		if err == ErrDepartmentExists {
			return core.NewValidationError(err, core.FieldError{Field: "department", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Register(ctx context.Context, nf NewFaculty) (Faculty, error) {
	id, err := svc.idGen.NextID(ctx, core.FacultyIDPrefix)
	if err != nil {
		return Faculty{}, err
	}

	fac := Faculty{
		ID:         id,
		Name:       nf.Name,
		Email:      nf.Email,
		Department: nf.Department,
		CreatedAt:  time.Now().UTC(),
	}
	if err := fac.SetPassword(nf.Password); err != nil {
		return Faculty{}, err
	}
	return svc.repo.CreateFaculty(ctx, fac)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Faculty, error) {
	return svc.repo.GetFacultyByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Faculty, error) {
	return svc.repo.GetFacultyByEmail(ctx, core.CleanString(email, true /* lower */))
}
