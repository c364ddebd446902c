package student

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/cecscoop/portal/core"
)

var (
	// errors
	ErrNotFound    = errors.New("student not found")
	ErrEmailExists = errors.New("a student with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		QueryStudentsByDepartment(ctx context.Context, department string) ([]Student, error)
	}

	ServiceInterface interface {
		CheckEmailUniqueness(email string) error
		Register(ctx context.Context, ns NewStudent) (Student, error)
		GetByID(ctx context.Context, id string) (Student, error)
		GetByEmail(ctx context.Context, email string) (Student, error)
		QueryByDepartment(ctx context.Context, department string) ([]Student, error)
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

func (svc *Service) Register(ctx context.Context, ns NewStudent) (Student, error) {
	id, err := svc.idGen.NextID(ctx, core.StudentIDPrefix)
	if err != nil {
		return Student{}, err
	}

	std := Student{
		ID:               id,
		Name:             ns.Name,
		Email:            ns.Email,
		Phone:            ns.Phone,
		Department:       ns.Department,
		Major:            ns.Major,
		CreditsCompleted: ns.CreditsCompleted,
		GPA:              null.NewFloat64(ns.GPA, ns.GPA > 0),
		StartSemester:    ns.StartSemester,
		StartYear:        null.NewInt(ns.StartYear, ns.StartYear > 0),
		IsTransfer:       ns.IsTransfer,
		CreatedAt:        time.Now().UTC(),
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, err
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Student, error) {
	return svc.repo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
}

// QueryByDepartment lists the students of a department, the population a
// co-op coordinator oversees.
func (svc *Service) QueryByDepartment(ctx context.Context, department string) ([]Student, error) {
	return svc.repo.QueryStudentsByDepartment(ctx, department)
}
