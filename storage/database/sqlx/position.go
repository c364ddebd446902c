package sqlxrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/cecscoop/portal/core/position"
)

type positionRepository struct {
	db *sqlx.DB
}

var _ position.Repository = (*positionRepository)(nil) // interface compliance check

func NewPositionRepository(db *sqlx.DB) *positionRepository {
	return &positionRepository{db: db}
}

func (repo *positionRepository) CreatePosition(ctx context.Context, pos position.JobPosition) (position.JobPosition, error) {
	q := `INSERT INTO job_positions (
			id, employer_id, title, description, location, weeks, hours_per_week, total_hours,
			majors_of_interest, required_skills, preferred_skills, salary_info, status, created_at
		) VALUES (
			:id, :employer_id, :title, :description, :location, :weeks, :hours_per_week, :total_hours,
			:majors_of_interest, :required_skills, :preferred_skills, :salary_info, :status, :created_at
		)`

	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, pos); err != nil {
		return position.JobPosition{}, errors.Wrap(err, "creating position")
	}
	return pos, nil
}

func (repo *positionRepository) GetPositionByID(ctx context.Context, id string) (position.JobPosition, error) {
	q := `SELECT * FROM job_positions WHERE id = $1`

	var pos position.JobPosition
	if err := sqlx.GetContext(ctx, repo.db, &pos, q, id); err != nil {
		return position.JobPosition{}, trapNoRowsErr(err, position.ErrNotFound, "getting position by ID")
	}
	return pos, nil
}

func (repo *positionRepository) QueryPositionsByEmployer(ctx context.Context, employerID string) ([]position.JobPosition, error) {
	q := `SELECT * FROM job_positions WHERE employer_id = $1 ORDER BY created_at DESC`

	positions := make([]position.JobPosition, 0)
	if err := sqlx.SelectContext(ctx, repo.db, &positions, q, employerID); err != nil {
		return nil, errors.Wrap(err, "querying positions by employer")
	}
	return positions, nil
}

func (repo *positionRepository) FilterOpenPositions(ctx context.Context, filter position.QueryFilter) ([]position.JobPosition, error) {
	// legacy rows may carry an empty status, which reads as Open
	where := []string{"(p.status = $1 OR p.status = '')"}
	args := []interface{}{position.StatusOpen}

	if filter.Search != "" {
		args = append(args, filter.Search)
		where = append(where, fmt.Sprintf("p.title ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Employer != "" {
		args = append(args, filter.Employer)
		where = append(where, fmt.Sprintf("e.company_name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		where = append(where, fmt.Sprintf("p.location ILIKE '%%' || $%d || '%%'", len(args)))
	}

	q := `SELECT p.* FROM job_positions p
		JOIN employers e ON e.id = p.employer_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY p.created_at DESC`

	positions := make([]position.JobPosition, 0)
	if err := sqlx.SelectContext(ctx, repo.db, &positions, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering open positions")
	}
	return positions, nil
}
