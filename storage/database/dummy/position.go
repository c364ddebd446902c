package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/cecscoop/portal/core/position"
)

type positionRepository struct {
	db *DB
}

var _ position.Repository = (*positionRepository)(nil) // interface compliance check

func NewPositionRepository(db *DB) position.Repository {
	return &positionRepository{db: db}
}

func (repo *positionRepository) CreatePosition(_ context.Context, pos position.JobPosition) (position.JobPosition, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.positions[pos.ID] = &pos
	return pos, nil
}

func (repo *positionRepository) GetPositionByID(_ context.Context, id string) (position.JobPosition, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if pos, ok := repo.db.positions[id]; ok {
		return *pos, nil
	}
	return position.JobPosition{}, position.ErrNotFound
}

func (repo *positionRepository) QueryPositionsByEmployer(_ context.Context, employerID string) ([]position.JobPosition, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	positions := make([]position.JobPosition, 0)
	for _, pos := range repo.db.positions {
		if pos.EmployerID == employerID {
			positions = append(positions, *pos)
		}
	}
	sortPositions(positions)
	return positions, nil
}

func (repo *positionRepository) FilterOpenPositions(_ context.Context, filter position.QueryFilter) ([]position.JobPosition, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	positions := make([]position.JobPosition, 0)
	for _, pos := range repo.db.positions {
		if !pos.IsOpen() {
			continue
		}
		if filter.Search != "" && !containsFold(pos.Title, filter.Search) {
			continue
		}
		if filter.Location != "" && !containsFold(pos.Location, filter.Location) {
			continue
		}
		if filter.Employer != "" {
			emp, ok := repo.db.employers[pos.EmployerID]
			if !ok || !containsFold(emp.CompanyName, filter.Employer) {
				continue
			}
		}
		positions = append(positions, *pos)
	}
	sortPositions(positions)
	return positions, nil
}

func sortPositions(positions []position.JobPosition) {
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].CreatedAt.After(positions[j].CreatedAt)
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
