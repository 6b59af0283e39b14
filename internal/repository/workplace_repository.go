package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
)

// WorkplaceRepository defines the interface for workplace data access
type WorkplaceRepository interface {
	Create(ctx context.Context, workplace *domain.Workplace) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Workplace, error)
	Update(ctx context.Context, workplace *domain.Workplace) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// workplaceRepositoryImpl is the GORM implementation of WorkplaceRepository
type workplaceRepositoryImpl struct {
	db *gorm.DB
}

// NewWorkplaceRepository creates a new instance of WorkplaceRepository
func NewWorkplaceRepository(db *gorm.DB) WorkplaceRepository {
	return &workplaceRepositoryImpl{db: db}
}

func (r *workplaceRepositoryImpl) Create(ctx context.Context, workplace *domain.Workplace) error {
	return r.db.WithContext(ctx).Create(workplace).Error
}

func (r *workplaceRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Workplace, error) {
	var workplace domain.Workplace
	if err := r.db.WithContext(ctx).First(&workplace, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &workplace, nil
}

func (r *workplaceRepositoryImpl) Update(ctx context.Context, workplace *domain.Workplace) error {
	return r.db.WithContext(ctx).Save(workplace).Error
}

func (r *workplaceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Workplace{}, "id = ?", id).Error
}
