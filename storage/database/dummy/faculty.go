package dummydb

import (
	"context"

	"github.com/cecscoop/portal/core/faculty"
)

type facultyRepository struct {
	db *DB
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *DB) faculty.Repository {
	return &facultyRepository{db: db}
}

func (repo *facultyRepository) CheckEmailUniqueness(_ context.Context, email string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, fac := range repo.db.faculty {
		if fac.Email == email {
			return faculty.ErrEmailExists
		}
	}
	return nil
}

func (repo *facultyRepository) CheckDepartmentVacancy(_ context.Context, department string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, fac := range repo.db.faculty {
		if fac.Department == department {
			return faculty.ErrDepartmentExists
		}
	}
	return nil
}

func (repo *facultyRepository) CreateFaculty(_ context.Context, fac faculty.Faculty) (faculty.Faculty, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.faculty[fac.ID] = &fac
	return fac, nil
}

func (repo *facultyRepository) GetFacultyByID(_ context.Context, id string) (faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if fac, ok := repo.db.faculty[id]; ok {
		return *fac, nil
	}
	return faculty.Faculty{}, faculty.ErrNotFound
}

func (repo *facultyRepository) GetFacultyByEmail(_ context.Context, email string) (faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, fac := range repo.db.faculty {
		if fac.Email == email {
			return *fac, nil
		}
	}
	return faculty.Faculty{}, faculty.ErrNotFound
}
