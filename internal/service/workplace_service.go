package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
	"workplace-api/internal/dto"
	"workplace-api/internal/metrics"
	"workplace-api/internal/repository"
	"workplace-api/internal/response"
)

// WorkplaceService defines the interface for workplace business logic
type WorkplaceService interface {
	CreateWorkplace(ctx context.Context, userID uuid.UUID, req *dto.CreateWorkplaceRequest) (*dto.WorkplaceResponse, error)
	GetWorkplace(ctx context.Context, workplaceID uuid.UUID) (*dto.WorkplaceResponse, error)
	ListWorkplaces(ctx context.Context, userID uuid.UUID) ([]*dto.WorkplaceResponse, error)
	UpdateWorkplace(ctx context.Context, workplaceID uuid.UUID, req *dto.UpdateWorkplaceRequest) (*dto.WorkplaceResponse, error)
	DeleteWorkplace(ctx context.Context, workplaceID uuid.UUID) error
	ListMembers(ctx context.Context, workplaceID uuid.UUID, emailPrefix string) ([]*dto.MemberResponse, error)
	RemoveMember(ctx context.Context, workplaceID, membershipID uuid.UUID) error
}

// workplaceServiceImpl is the implementation of WorkplaceService
type workplaceServiceImpl struct {
	workplaceRepo  repository.WorkplaceRepository
	membershipRepo repository.MembershipRepository
	sprintRepo     repository.SprintRepository
	issueRepo      repository.IssueRepository
	commentRepo    repository.CommentRepository
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewWorkplaceService creates a new instance of WorkplaceService
func NewWorkplaceService(
	workplaceRepo repository.WorkplaceRepository,
	membershipRepo repository.MembershipRepository,
	sprintRepo repository.SprintRepository,
	issueRepo repository.IssueRepository,
	commentRepo repository.CommentRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) WorkplaceService {
	return &workplaceServiceImpl{
		workplaceRepo:  workplaceRepo,
		membershipRepo: membershipRepo,
		sprintRepo:     sprintRepo,
		issueRepo:      issueRepo,
		commentRepo:    commentRepo,
		metrics:        m,
		logger:         logger,
	}
}

// CreateWorkplace creates a workplace and enrolls the creator as ADMIN
func (s *workplaceServiceImpl) CreateWorkplace(ctx context.Context, userID uuid.UUID, req *dto.CreateWorkplaceRequest) (*dto.WorkplaceResponse, error) {
	workplace := &domain.Workplace{
		Name:        req.Name,
		Description: req.Description,
		States:      domain.EncodeStates(domain.DefaultStates),
	}

	if err := s.workplaceRepo.Create(ctx, workplace); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create workplace", err.Error())
	}

	membership := &domain.Membership{
		WorkplaceID: workplace.ID,
		UserID:      userID,
		Role:        domain.RoleAdmin,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		// The workplace row exists without an admin at this point. Roll it
		// back so the creator can retry; the orphan sweep covers a failed
		// rollback.
		if derr := s.workplaceRepo.Delete(ctx, workplace.ID); derr != nil {
			s.logger.Error("Failed to roll back workplace after membership failure",
				zap.String("workplace_id", workplace.ID.String()),
				zap.Error(derr),
			)
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to enroll creator", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementWorkplaceCreated()
	}
	s.logger.Info("Workplace created",
		zap.String("workplace_id", workplace.ID.String()),
		zap.String("user_id", userID.String()),
	)

	return toWorkplaceResponse(workplace), nil
}

// GetWorkplace returns a single workplace
func (s *workplaceServiceImpl) GetWorkplace(ctx context.Context, workplaceID uuid.UUID) (*dto.WorkplaceResponse, error) {
	workplace, err := s.findWorkplace(ctx, workplaceID)
	if err != nil {
		return nil, err
	}
	return toWorkplaceResponse(workplace), nil
}

// ListWorkplaces returns every workplace the user belongs to
func (s *workplaceServiceImpl) ListWorkplaces(ctx context.Context, userID uuid.UUID) ([]*dto.WorkplaceResponse, error) {
	memberships, err := s.membershipRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list workplaces", err.Error())
	}

	result := make([]*dto.WorkplaceResponse, 0, len(memberships))
	for _, m := range memberships {
		if m.Workplace == nil {
			// Dangling membership, removed by the orphan sweep.
			continue
		}
		result = append(result, toWorkplaceResponse(m.Workplace))
	}
	return result, nil
}

// UpdateWorkplace updates name and description. The allowed-state list is
// immutable after creation.
func (s *workplaceServiceImpl) UpdateWorkplace(ctx context.Context, workplaceID uuid.UUID, req *dto.UpdateWorkplaceRequest) (*dto.WorkplaceResponse, error) {
	workplace, err := s.findWorkplace(ctx, workplaceID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		workplace.Name = *req.Name
	}
	if req.Description != nil {
		workplace.Description = *req.Description
	}

	if err := s.workplaceRepo.Update(ctx, workplace); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update workplace", err.Error())
	}
	return toWorkplaceResponse(workplace), nil
}

// DeleteWorkplace removes a workplace and everything scoped to it. The
// steps run sequentially without a surrounding transaction; a failure
// part-way leaves no dangling references to already-deleted rows because
// children go before parents, and the orphan sweep removes leftovers.
func (s *workplaceServiceImpl) DeleteWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	if _, err := s.findWorkplace(ctx, workplaceID); err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func(context.Context, uuid.UUID) error
	}{
		{"memberships", s.membershipRepo.DeleteByWorkplace},
		{"comments", s.commentRepo.DeleteByWorkplace},
		{"issue_assignments", s.issueRepo.DeleteAssignmentsByWorkplace},
		{"issues", s.issueRepo.DeleteByWorkplace},
		{"sprints", s.sprintRepo.DeleteByWorkplace},
		{"workplace", func(ctx context.Context, id uuid.UUID) error {
			return s.workplaceRepo.Delete(ctx, id)
		}},
	}

	for _, step := range steps {
		if err := step.fn(ctx, workplaceID); err != nil {
			s.logger.Error("Workplace cascade step failed",
				zap.String("workplace_id", workplaceID.String()),
				zap.String("step", step.name),
				zap.Error(err),
			)
			return response.NewAppError(response.ErrCodeInternal, "Failed to delete workplace", err.Error())
		}
	}

	s.logger.Info("Workplace deleted", zap.String("workplace_id", workplaceID.String()))
	return nil
}

// ListMembers returns the members of a workplace, optionally filtered by
// an email prefix
func (s *workplaceServiceImpl) ListMembers(ctx context.Context, workplaceID uuid.UUID, emailPrefix string) ([]*dto.MemberResponse, error) {
	if _, err := s.findWorkplace(ctx, workplaceID); err != nil {
		return nil, err
	}

	memberships, err := s.membershipRepo.FindByWorkplace(ctx, workplaceID, emailPrefix)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list members", err.Error())
	}

	result := make([]*dto.MemberResponse, 0, len(memberships))
	for _, m := range memberships {
		member := &dto.MemberResponse{
			MembershipID: m.ID,
			UserID:       m.UserID,
			Role:         m.Role,
			JoinedAt:     m.CreatedAt,
		}
		if m.User != nil {
			member.Email = m.User.Email
			member.Name = m.User.Name
		}
		result = append(result, member)
	}
	return result, nil
}

// RemoveMember removes a membership from a workplace
func (s *workplaceServiceImpl) RemoveMember(ctx context.Context, workplaceID, membershipID uuid.UUID) error {
	membership, err := s.membershipRepo.FindByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeUserNotFound, "Member not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load membership", err.Error())
	}
	if membership.WorkplaceID != workplaceID {
		return response.NewAppError(response.ErrCodeUserNotFound, "Member not found", "")
	}

	if err := s.membershipRepo.Delete(ctx, membershipID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to remove member", err.Error())
	}
	return nil
}

func (s *workplaceServiceImpl) findWorkplace(ctx context.Context, workplaceID uuid.UUID) (*domain.Workplace, error) {
	workplace, err := s.workplaceRepo.FindByID(ctx, workplaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeWorkplaceNotFound, "Workplace not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load workplace", err.Error())
	}
	return workplace, nil
}

func toWorkplaceResponse(workplace *domain.Workplace) *dto.WorkplaceResponse {
	return &dto.WorkplaceResponse{
		ID:          workplace.ID,
		Name:        workplace.Name,
		Description: workplace.Description,
		States:      workplace.StateList(),
		CreatedAt:   workplace.CreatedAt,
		UpdatedAt:   workplace.UpdatedAt,
	}
}
