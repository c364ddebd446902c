package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/cecscoop/portal/core/employer"
)

type employerRepository struct {
	db *sqlx.DB
}

var _ employer.Repository = (*employerRepository)(nil) // interface compliance check

func NewEmployerRepository(db *sqlx.DB) *employerRepository {
	return &employerRepository{db: db}
}

func (repo *employerRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	q := `SELECT EXISTS (SELECT 1 FROM employers WHERE email = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, repo.db, &exists, q, email); err != nil {
		return errors.Wrap(err, "checking employer email")
	}
	if exists {
		return employer.ErrEmailExists
	}
	return nil
}

func (repo *employerRepository) CreateEmployer(ctx context.Context, emp employer.Employer) (employer.Employer, error) {
	q := `INSERT INTO employers (
			id, company_name, contact_name, email, phone, location, website, password_hash, created_at
		) VALUES (
			:id, :company_name, :contact_name, :email, :phone, :location, :website, :password_hash, :created_at
		)`

	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, emp); err != nil {
		return employer.Employer{}, errors.Wrap(err, "creating employer")
	}
	return emp, nil
}

func (repo *employerRepository) GetEmployerByID(ctx context.Context, id string) (employer.Employer, error) {
	q := `SELECT * FROM employers WHERE id = $1`

	var emp employer.Employer
	if err := sqlx.GetContext(ctx, repo.db, &emp, q, id); err != nil {
		return employer.Employer{}, trapNoRowsErr(err, employer.ErrNotFound, "getting employer by ID")
	}
	return emp, nil
}

func (repo *employerRepository) GetEmployerByEmail(ctx context.Context, email string) (employer.Employer, error) {
	q := `SELECT * FROM employers WHERE email = $1`

	var emp employer.Employer
	if err := sqlx.GetContext(ctx, repo.db, &emp, q, email); err != nil {
		return employer.Employer{}, trapNoRowsErr(err, employer.ErrNotFound, "getting employer by email")
	}
	return emp, nil
}
