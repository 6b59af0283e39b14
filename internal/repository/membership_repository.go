package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
)

// MembershipRepository defines the interface for membership data access
type MembershipRepository interface {
	Create(ctx context.Context, membership *domain.Membership) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Membership, error)
	FindByWorkplaceAndUser(ctx context.Context, workplaceID, userID uuid.UUID) (*domain.Membership, error)
	FindByWorkplace(ctx context.Context, workplaceID uuid.UUID, emailPrefix string) ([]*domain.Membership, error)
	FindByWorkplaceAndUserIDs(ctx context.Context, workplaceID uuid.UUID, userIDs []uuid.UUID) ([]*domain.Membership, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Membership, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error
}

// membershipRepositoryImpl is the GORM implementation of MembershipRepository
type membershipRepositoryImpl struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new instance of MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepositoryImpl{db: db}
}

func (r *membershipRepositoryImpl) Create(ctx context.Context, membership *domain.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *membershipRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Membership, error) {
	var membership domain.Membership
	if err := r.db.WithContext(ctx).First(&membership, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *membershipRepositoryImpl) FindByWorkplaceAndUser(ctx context.Context, workplaceID, userID uuid.UUID) (*domain.Membership, error) {
	var membership domain.Membership
	if err := r.db.WithContext(ctx).
		Where("workplace_id = ? AND user_id = ?", workplaceID, userID).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindByWorkplace returns the memberships of a workplace with users
// preloaded, optionally filtered by a case-sensitive email prefix
func (r *membershipRepositoryImpl) FindByWorkplace(ctx context.Context, workplaceID uuid.UUID, emailPrefix string) ([]*domain.Membership, error) {
	query := r.db.WithContext(ctx).
		Preload("User").
		Where("workplace_id = ?", workplaceID)
	if emailPrefix != "" {
		query = query.
			Joins("JOIN users ON users.id = memberships.user_id").
			Where("users.email LIKE ?", emailPrefix+"%")
	}

	var memberships []*domain.Membership
	if err := query.Order("memberships.created_at ASC").Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *membershipRepositoryImpl) FindByWorkplaceAndUserIDs(ctx context.Context, workplaceID uuid.UUID, userIDs []uuid.UUID) ([]*domain.Membership, error) {
	if len(userIDs) == 0 {
		return []*domain.Membership{}, nil
	}

	var memberships []*domain.Membership
	if err := r.db.WithContext(ctx).
		Where("workplace_id = ? AND user_id IN ?", workplaceID, userIDs).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *membershipRepositoryImpl) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Membership, error) {
	var memberships []*domain.Membership
	if err := r.db.WithContext(ctx).
		Preload("Workplace").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *membershipRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Membership{}, "id = ?", id).Error
}

func (r *membershipRepositoryImpl) DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workplace_id = ?", workplaceID).
		Delete(&domain.Membership{}).Error
}
