package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
)

// IssueRepository defines the interface for issue and assignment data access
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error)
	FindByWorkplace(ctx context.Context, workplaceID uuid.UUID, namePrefix string) ([]*domain.Issue, error)
	FindBySprint(ctx context.Context, sprintID uuid.UUID) ([]*domain.Issue, error)
	Update(ctx context.Context, issue *domain.Issue) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error
	// DetachFromSprint clears the sprint reference and inherited end date on
	// every issue of the sprint
	DetachFromSprint(ctx context.Context, sprintID uuid.UUID) error

	AddAssignments(ctx context.Context, issueID uuid.UUID, membershipIDs []uuid.UUID) error
	RemoveAssignments(ctx context.Context, issueID uuid.UUID, membershipIDs []uuid.UUID) error
	FindAssignments(ctx context.Context, issueID uuid.UUID) ([]*domain.IssueAssignment, error)
	DeleteAssignmentsByIssue(ctx context.Context, issueID uuid.UUID) error
	DeleteAssignmentsByWorkplace(ctx context.Context, workplaceID uuid.UUID) error
}

// issueRepositoryImpl is the GORM implementation of IssueRepository
type issueRepositoryImpl struct {
	db *gorm.DB
}

// NewIssueRepository creates a new instance of IssueRepository
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &issueRepositoryImpl{db: db}
}

func (r *issueRepositoryImpl) Create(ctx context.Context, issue *domain.Issue) error {
	return r.db.WithContext(ctx).Create(issue).Error
}

func (r *issueRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error) {
	var issue domain.Issue
	if err := r.db.WithContext(ctx).
		Preload("Assignments").
		First(&issue, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// FindByWorkplace returns the issues of a workplace, optionally filtered
// by a case-sensitive name prefix
func (r *issueRepositoryImpl) FindByWorkplace(ctx context.Context, workplaceID uuid.UUID, namePrefix string) ([]*domain.Issue, error) {
	query := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("workplace_id = ?", workplaceID)
	if namePrefix != "" {
		query = query.Where("name LIKE ?", namePrefix+"%")
	}

	var issues []*domain.Issue
	if err := query.Order("created_at ASC").Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

func (r *issueRepositoryImpl) FindBySprint(ctx context.Context, sprintID uuid.UUID) ([]*domain.Issue, error) {
	var issues []*domain.Issue
	if err := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("sprint_id = ?", sprintID).
		Order("created_at ASC").
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

func (r *issueRepositoryImpl) Update(ctx context.Context, issue *domain.Issue) error {
	return r.db.WithContext(ctx).Save(issue).Error
}

func (r *issueRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Issue{}, "id = ?", id).Error
}

func (r *issueRepositoryImpl) DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workplace_id = ?", workplaceID).
		Delete(&domain.Issue{}).Error
}

func (r *issueRepositoryImpl) DetachFromSprint(ctx context.Context, sprintID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Issue{}).
		Where("sprint_id = ?", sprintID).
		Updates(map[string]interface{}{"sprint_id": nil, "end_date": nil}).Error
}

// AddAssignments inserts assignment rows for memberships not yet assigned,
// giving the operation set-union semantics
func (r *issueRepositoryImpl) AddAssignments(ctx context.Context, issueID uuid.UUID, membershipIDs []uuid.UUID) error {
	if len(membershipIDs) == 0 {
		return nil
	}

	existing, err := r.FindAssignments(ctx, issueID)
	if err != nil {
		return err
	}
	assigned := make(map[uuid.UUID]bool, len(existing))
	for _, a := range existing {
		assigned[a.MembershipID] = true
	}

	for _, membershipID := range membershipIDs {
		if assigned[membershipID] {
			continue
		}
		assignment := &domain.IssueAssignment{
			IssueID:      issueID,
			MembershipID: membershipID,
		}
		if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
			return err
		}
		assigned[membershipID] = true
	}
	return nil
}

func (r *issueRepositoryImpl) RemoveAssignments(ctx context.Context, issueID uuid.UUID, membershipIDs []uuid.UUID) error {
	if len(membershipIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("issue_id = ? AND membership_id IN ?", issueID, membershipIDs).
		Delete(&domain.IssueAssignment{}).Error
}

func (r *issueRepositoryImpl) FindAssignments(ctx context.Context, issueID uuid.UUID) ([]*domain.IssueAssignment, error) {
	var assignments []*domain.IssueAssignment
	if err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *issueRepositoryImpl) DeleteAssignmentsByIssue(ctx context.Context, issueID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Delete(&domain.IssueAssignment{}).Error
}

func (r *issueRepositoryImpl) DeleteAssignmentsByWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("issue_id IN (?)", r.db.Model(&domain.Issue{}).Select("id").Where("workplace_id = ?", workplaceID)).
		Delete(&domain.IssueAssignment{}).Error
}
