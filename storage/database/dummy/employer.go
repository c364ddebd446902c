package dummydb

import (
	"context"

	"github.com/cecscoop/portal/core/employer"
)

type employerRepository struct {
	db *DB
}

var _ employer.Repository = (*employerRepository)(nil) // interface compliance check

func NewEmployerRepository(db *DB) employer.Repository {
	return &employerRepository{db: db}
}

func (repo *employerRepository) CheckEmailUniqueness(_ context.Context, email string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, emp := range repo.db.employers {
		if emp.Email == email {
			return employer.ErrEmailExists
		}
	}
	return nil
}

func (repo *employerRepository) CreateEmployer(_ context.Context, emp employer.Employer) (employer.Employer, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.employers[emp.ID] = &emp
	return emp, nil
}

func (repo *employerRepository) GetEmployerByID(_ context.Context, id string) (employer.Employer, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if emp, ok := repo.db.employers[id]; ok {
		return *emp, nil
	}
	return employer.Employer{}, employer.ErrNotFound
}

func (repo *employerRepository) GetEmployerByEmail(_ context.Context, email string) (employer.Employer, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, emp := range repo.db.employers {
		if emp.Email == email {
			return *emp, nil
		}
	}
	return employer.Employer{}, employer.ErrNotFound
}
