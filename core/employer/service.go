package employer

import (
	"context"
	"errors"
	"time"

	"github.com/cecscoop/portal/core"
)

var (
	// errors
	ErrNotFound    = errors.New("employer not found")
	ErrEmailExists = errors.New("an employer with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		CreateEmployer(ctx context.Context, emp Employer) (Employer, error)
		GetEmployerByID(ctx context.Context, id string) (Employer, error)
		GetEmployerByEmail(ctx context.Context, email string) (Employer, error)
	}

	ServiceInterface interface {
		CheckEmailUniqueness(email string) error
		Register(ctx context.Context, ne NewEmployer) (Employer, error)
		GetByID(ctx context.Context, id string) (Employer, error)
		GetByEmail(ctx context.Context, email string) (Employer, error)
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

func (svc *Service) Register(ctx context.Context, ne NewEmployer) (Employer, error) {
	id, err := svc.idGen.NextID(ctx, core.EmployerIDPrefix)
	if err != nil {
		return Employer{}, err
	}

	emp := Employer{
		ID:          id,
		CompanyName: ne.CompanyName,
		ContactName: ne.ContactName,
		Email:       ne.Email,
		Phone:       ne.Phone,
		Location:    ne.Location,
		Website:     ne.Website,
		CreatedAt:   time.Now().UTC(),
	}
	if err := emp.SetPassword(ne.Password); err != nil {
		return Employer{}, err
	}
	return svc.repo.CreateEmployer(ctx, emp)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Employer, error) {
	return svc.repo.GetEmployerByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Employer, error) {
	return svc.repo.GetEmployerByEmail(ctx, core.CleanString(email, true /* lower */))
}
