package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
)

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByIssue(ctx context.Context, issueID uuid.UUID) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIssue(ctx context.Context, issueID uuid.UUID) error
	DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error
	// UpdateSprintForIssue rewrites the denormalized sprint reference on
	// every comment of the issue. Called only from the issue re-parenting
	// path.
	UpdateSprintForIssue(ctx context.Context, issueID uuid.UUID, sprintID *uuid.UUID) error
	// DetachFromSprint clears the denormalized sprint reference on every
	// comment of the sprint. Called only from the sprint deletion path.
	DetachFromSprint(ctx context.Context, sprintID uuid.UUID) error
}

// commentRepositoryImpl is the GORM implementation of CommentRepository
type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

func (r *commentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepositoryImpl) FindByIssue(ctx context.Context, issueID uuid.UUID) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	if err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepositoryImpl) Update(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Comment{}, "id = ?", id).Error
}

func (r *commentRepositoryImpl) DeleteByIssue(ctx context.Context, issueID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Delete(&domain.Comment{}).Error
}

func (r *commentRepositoryImpl) DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workplace_id = ?", workplaceID).
		Delete(&domain.Comment{}).Error
}

func (r *commentRepositoryImpl) UpdateSprintForIssue(ctx context.Context, issueID uuid.UUID, sprintID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("issue_id = ?", issueID).
		Update("sprint_id", sprintID).Error
}

func (r *commentRepositoryImpl) DetachFromSprint(ctx context.Context, sprintID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("sprint_id = ?", sprintID).
		Update("sprint_id", nil).Error
}
