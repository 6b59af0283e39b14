package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
	"workplace-api/internal/dto"
	"workplace-api/internal/metrics"
	"workplace-api/internal/repository"
	"workplace-api/internal/response"
)

// SprintService defines the interface for sprint business logic
type SprintService interface {
	CreateSprint(ctx context.Context, workplaceID uuid.UUID, req *dto.CreateSprintRequest) (*dto.SprintResponse, error)
	GetSprint(ctx context.Context, workplaceID, sprintID uuid.UUID) (*dto.SprintResponse, error)
	ListSprints(ctx context.Context, workplaceID uuid.UUID, skip, limit int) ([]*dto.SprintResponse, error)
	UpdateSprint(ctx context.Context, workplaceID, sprintID uuid.UUID, req *dto.UpdateSprintRequest) (*dto.SprintResponse, error)
	DeleteSprint(ctx context.Context, workplaceID, sprintID uuid.UUID) error
}

// sprintServiceImpl is the implementation of SprintService
type sprintServiceImpl struct {
	sprintRepo    repository.SprintRepository
	workplaceRepo repository.WorkplaceRepository
	issueRepo     repository.IssueRepository
	commentRepo   repository.CommentRepository
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewSprintService creates a new instance of SprintService
func NewSprintService(
	sprintRepo repository.SprintRepository,
	workplaceRepo repository.WorkplaceRepository,
	issueRepo repository.IssueRepository,
	commentRepo repository.CommentRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) SprintService {
	return &sprintServiceImpl{
		sprintRepo:    sprintRepo,
		workplaceRepo: workplaceRepo,
		issueRepo:     issueRepo,
		commentRepo:   commentRepo,
		metrics:       m,
		logger:        logger,
	}
}

// CreateSprint creates a sprint after checking the date range and the
// no-overlap rule. Ranges are half-open, so a sprint may start exactly
// where another ends.
func (s *sprintServiceImpl) CreateSprint(ctx context.Context, workplaceID uuid.UUID, req *dto.CreateSprintRequest) (*dto.SprintResponse, error) {
	if _, err := s.findWorkplace(ctx, workplaceID); err != nil {
		return nil, err
	}

	if err := s.validateRange(ctx, workplaceID, req.StartDate, req.EndDate, nil); err != nil {
		return nil, err
	}

	sprint := &domain.Sprint{
		WorkplaceID: workplaceID,
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := s.sprintRepo.Create(ctx, sprint); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create sprint", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementSprintCreated()
	}
	s.logger.Info("Sprint created",
		zap.String("sprint_id", sprint.ID.String()),
		zap.String("workplace_id", workplaceID.String()),
	)

	return toSprintResponse(sprint), nil
}

// GetSprint returns a single sprint scoped to the workplace
func (s *sprintServiceImpl) GetSprint(ctx context.Context, workplaceID, sprintID uuid.UUID) (*dto.SprintResponse, error) {
	sprint, err := s.findSprint(ctx, workplaceID, sprintID)
	if err != nil {
		return nil, err
	}
	return toSprintResponse(sprint), nil
}

// ListSprints returns the sprints of a workplace ordered by creation time
func (s *sprintServiceImpl) ListSprints(ctx context.Context, workplaceID uuid.UUID, skip, limit int) ([]*dto.SprintResponse, error) {
	if _, err := s.findWorkplace(ctx, workplaceID); err != nil {
		return nil, err
	}

	sprints, err := s.sprintRepo.FindByWorkplace(ctx, workplaceID, skip, limit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list sprints", err.Error())
	}

	result := make([]*dto.SprintResponse, 0, len(sprints))
	for _, sprint := range sprints {
		result = append(result, toSprintResponse(sprint))
	}
	return result, nil
}

// UpdateSprint applies a partial update. The merged date range is checked
// against every other sprint of the workplace; the sprint never conflicts
// with itself.
func (s *sprintServiceImpl) UpdateSprint(ctx context.Context, workplaceID, sprintID uuid.UUID, req *dto.UpdateSprintRequest) (*dto.SprintResponse, error) {
	sprint, err := s.findSprint(ctx, workplaceID, sprintID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sprint.Name = *req.Name
	}
	if req.StartDate != nil || req.EndDate != nil {
		start := sprint.StartDate
		end := sprint.EndDate
		if req.StartDate != nil {
			start = *req.StartDate
		}
		if req.EndDate != nil {
			end = *req.EndDate
		}
		if err := s.validateRange(ctx, workplaceID, start, end, &sprintID); err != nil {
			return nil, err
		}
		sprint.StartDate = start
		sprint.EndDate = end
	}

	if err := s.sprintRepo.Update(ctx, sprint); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update sprint", err.Error())
	}
	return toSprintResponse(sprint), nil
}

// DeleteSprint removes a sprint. Issues survive: they are detached back to
// the backlog with their inherited end date cleared, and the denormalized
// sprint reference on their comments is cleared with them.
func (s *sprintServiceImpl) DeleteSprint(ctx context.Context, workplaceID, sprintID uuid.UUID) error {
	if _, err := s.findSprint(ctx, workplaceID, sprintID); err != nil {
		return err
	}

	if err := s.issueRepo.DetachFromSprint(ctx, sprintID); err != nil {
		s.logger.Error("Failed to detach issues from sprint",
			zap.String("sprint_id", sprintID.String()),
			zap.Error(err),
		)
		return response.NewAppError(response.ErrCodeInternal, "Failed to detach issues", err.Error())
	}
	if err := s.commentRepo.DetachFromSprint(ctx, sprintID); err != nil {
		s.logger.Error("Failed to detach comments from sprint",
			zap.String("sprint_id", sprintID.String()),
			zap.Error(err),
		)
		return response.NewAppError(response.ErrCodeInternal, "Failed to detach comments", err.Error())
	}
	if err := s.sprintRepo.Delete(ctx, sprintID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete sprint", err.Error())
	}

	s.logger.Info("Sprint deleted",
		zap.String("sprint_id", sprintID.String()),
		zap.String("workplace_id", workplaceID.String()),
	)
	return nil
}

// validateRange checks ordering and the no-overlap rule for a candidate
// [start, end) range. The check and the following insert are not
// serialized; two concurrent creates can both pass.
func (s *sprintServiceImpl) validateRange(ctx context.Context, workplaceID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) error {
	if end.Before(start) {
		return response.NewAppError(response.ErrCodeInvalidDateRange, "End date must not precede start date", "")
	}

	conflict, err := s.sprintRepo.FindOverlapping(ctx, workplaceID, start, end, excludeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to check sprint overlap", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementSprintOverlapRejected()
	}
	return response.NewAppError(response.ErrCodeSprintOverlap,
		"Sprint dates overlap an existing sprint",
		fmt.Sprintf("conflicts with sprint %s", conflict.ID),
	)
}

func (s *sprintServiceImpl) findWorkplace(ctx context.Context, workplaceID uuid.UUID) (*domain.Workplace, error) {
	workplace, err := s.workplaceRepo.FindByID(ctx, workplaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeWorkplaceNotFound, "Workplace not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load workplace", err.Error())
	}
	return workplace, nil
}

func (s *sprintServiceImpl) findSprint(ctx context.Context, workplaceID, sprintID uuid.UUID) (*domain.Sprint, error) {
	sprint, err := s.sprintRepo.FindByID(ctx, sprintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeSprintNotFound, "Sprint not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load sprint", err.Error())
	}
	if sprint.WorkplaceID != workplaceID {
		return nil, response.NewAppError(response.ErrCodeSprintNotFound, "Sprint not found", "")
	}
	return sprint, nil
}

func toSprintResponse(sprint *domain.Sprint) *dto.SprintResponse {
	return &dto.SprintResponse{
		ID:          sprint.ID,
		WorkplaceID: sprint.WorkplaceID,
		Name:        sprint.Name,
		StartDate:   sprint.StartDate,
		EndDate:     sprint.EndDate,
		CreatedAt:   sprint.CreatedAt,
		UpdatedAt:   sprint.UpdatedAt,
	}
}
