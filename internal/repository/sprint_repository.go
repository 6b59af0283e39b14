package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
)

// SprintRepository defines the interface for sprint data access
type SprintRepository interface {
	Create(ctx context.Context, sprint *domain.Sprint) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Sprint, error)
	FindByWorkplace(ctx context.Context, workplaceID uuid.UUID, skip, limit int) ([]*domain.Sprint, error)
	// FindOverlapping returns the first sprint of the workplace whose
	// [start_date, end_date) range intersects the given range, excluding
	// excludeID when non-nil. Returns gorm.ErrRecordNotFound when the range
	// is free.
	FindOverlapping(ctx context.Context, workplaceID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*domain.Sprint, error)
	Update(ctx context.Context, sprint *domain.Sprint) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error
}

// sprintRepositoryImpl is the GORM implementation of SprintRepository
type sprintRepositoryImpl struct {
	db *gorm.DB
}

// NewSprintRepository creates a new instance of SprintRepository
func NewSprintRepository(db *gorm.DB) SprintRepository {
	return &sprintRepositoryImpl{db: db}
}

func (r *sprintRepositoryImpl) Create(ctx context.Context, sprint *domain.Sprint) error {
	return r.db.WithContext(ctx).Create(sprint).Error
}

func (r *sprintRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sprint, error) {
	var sprint domain.Sprint
	if err := r.db.WithContext(ctx).First(&sprint, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (r *sprintRepositoryImpl) FindByWorkplace(ctx context.Context, workplaceID uuid.UUID, skip, limit int) ([]*domain.Sprint, error) {
	query := r.db.WithContext(ctx).
		Where("workplace_id = ?", workplaceID).
		Order("created_at ASC")
	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var sprints []*domain.Sprint
	if err := query.Find(&sprints).Error; err != nil {
		return nil, err
	}
	return sprints, nil
}

func (r *sprintRepositoryImpl) FindOverlapping(ctx context.Context, workplaceID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*domain.Sprint, error) {
	query := r.db.WithContext(ctx).
		Where("workplace_id = ?", workplaceID).
		Where(
			r.db.Where("start_date >= ? AND start_date < ?", start, end).
				Or("end_date > ? AND end_date <= ?", start, end).
				Or("start_date <= ? AND end_date >= ?", start, end),
		)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var sprint domain.Sprint
	if err := query.First(&sprint).Error; err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (r *sprintRepositoryImpl) Update(ctx context.Context, sprint *domain.Sprint) error {
	return r.db.WithContext(ctx).Save(sprint).Error
}

func (r *sprintRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Sprint{}, "id = ?", id).Error
}

func (r *sprintRepositoryImpl) DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workplace_id = ?", workplaceID).
		Delete(&domain.Sprint{}).Error
}
