package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/cecscoop/portal/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	q := `SELECT EXISTS (SELECT 1 FROM students WHERE email = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, repo.db, &exists, q, email); err != nil {
		return errors.Wrap(err, "checking student email")
	}
	if exists {
		return student.ErrEmailExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	q := `INSERT INTO students (
			id, name, email, phone, department, major, credits_completed, gpa,
			start_semester, start_year, is_transfer, password_hash, resume_filename, created_at
		) VALUES (
			:id, :name, :email, :phone, :department, :major, :credits_completed, :gpa,
			:start_semester, :start_year, :is_transfer, :password_hash, :resume_filename, :created_at
		)`

	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, std); err != nil {
		return student.Student{}, errors.Wrap(err, "creating student")
	}
	return std, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	q := `SELECT * FROM students WHERE id = $1`

	var std student.Student
	if err := sqlx.GetContext(ctx, repo.db, &std, q, id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student by ID")
	}
	return std, nil
}

func (repo *studentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	q := `SELECT * FROM students WHERE email = $1`

	var std student.Student
	if err := sqlx.GetContext(ctx, repo.db, &std, q, email); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student by email")
	}
	return std, nil
}

func (repo *studentRepository) QueryStudentsByDepartment(ctx context.Context, department string) ([]student.Student, error) {
	q := `SELECT * FROM students WHERE department = $1 ORDER BY name`

	students := make([]student.Student, 0)
	if err := sqlx.SelectContext(ctx, repo.db, &students, q, department); err != nil {
		return nil, errors.Wrap(err, "querying students by department")
	}
	return students, nil
}
