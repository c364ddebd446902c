package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/cecscoop/portal/core/faculty"
)

type facultyRepository struct {
	db *sqlx.DB
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *sqlx.DB) *facultyRepository {
	return &facultyRepository{db: db}
}

func (repo *facultyRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	q := `SELECT EXISTS (SELECT 1 FROM faculty WHERE email = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, repo.db, &exists, q, email); err != nil {
		return errors.Wrap(err, "checking faculty email")
	}
	if exists {
		return faculty.ErrEmailExists
	}
	return nil
}

func (repo *facultyRepository) CheckDepartmentVacancy(ctx context.Context, department string) error {
	q := `SELECT EXISTS (SELECT 1 FROM faculty WHERE department = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, repo.db, &exists, q, department); err != nil {
		return errors.Wrap(err, "checking department coordinator")
	}
	if exists {
		return faculty.ErrDepartmentExists
	}
	return nil
}

func (repo *facultyRepository) CreateFaculty(ctx context.Context, fac faculty.Faculty) (faculty.Faculty, error) {
	q := `INSERT INTO faculty (id, name, email, department, password_hash, created_at)
		VALUES (:id, :name, :email, :department, :password_hash, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, fac); err != nil {
		return faculty.Faculty{}, errors.Wrap(err, "creating faculty")
	}
	return fac, nil
}

func (repo *facultyRepository) GetFacultyByID(ctx context.Context, id string) (faculty.Faculty, error) {
	q := `SELECT * FROM faculty WHERE id = $1`

	var fac faculty.Faculty
	if err := sqlx.GetContext(ctx, repo.db, &fac, q, id); err != nil {
		return faculty.Faculty{}, trapNoRowsErr(err, faculty.ErrNotFound, "getting faculty by ID")
	}
	return fac, nil
}

func (repo *facultyRepository) GetFacultyByEmail(ctx context.Context, email string) (faculty.Faculty, error) {
	q := `SELECT * FROM faculty WHERE email = $1`

	var fac faculty.Faculty
	if err := sqlx.GetContext(ctx, repo.db, &fac, q, email); err != nil {
		return faculty.Faculty{}, trapNoRowsErr(err, faculty.ErrNotFound, "getting faculty by email")
	}
	return fac, nil
}
