package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
	"workplace-api/internal/dto"
	"workplace-api/internal/metrics"
	"workplace-api/internal/repository"
	"workplace-api/internal/response"
)

// IssueService defines the interface for issue business logic
type IssueService interface {
	CreateIssue(ctx context.Context, workplaceID, authorID uuid.UUID, req *dto.CreateIssueRequest) (*dto.IssueResponse, error)
	GetIssue(ctx context.Context, workplaceID, issueID uuid.UUID) (*dto.IssueResponse, error)
	ListIssues(ctx context.Context, workplaceID uuid.UUID, namePrefix string) ([]*dto.IssueResponse, error)
	ListSprintIssues(ctx context.Context, workplaceID, sprintID uuid.UUID) ([]*dto.IssueResponse, error)
	UpdateIssue(ctx context.Context, workplaceID, issueID uuid.UUID, req *dto.UpdateIssueRequest) (*dto.IssueResponse, error)
	DeleteIssue(ctx context.Context, workplaceID, issueID uuid.UUID) error
	AssignUsers(ctx context.Context, workplaceID, issueID uuid.UUID, req *dto.AssignUsersRequest) (*dto.IssueResponse, error)
	UnassignUsers(ctx context.Context, workplaceID, issueID uuid.UUID, req *dto.AssignUsersRequest) (*dto.IssueResponse, error)
}

// issueServiceImpl is the implementation of IssueService
type issueServiceImpl struct {
	issueRepo      repository.IssueRepository
	workplaceRepo  repository.WorkplaceRepository
	sprintRepo     repository.SprintRepository
	membershipRepo repository.MembershipRepository
	commentRepo    repository.CommentRepository
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewIssueService creates a new instance of IssueService
func NewIssueService(
	issueRepo repository.IssueRepository,
	workplaceRepo repository.WorkplaceRepository,
	sprintRepo repository.SprintRepository,
	membershipRepo repository.MembershipRepository,
	commentRepo repository.CommentRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) IssueService {
	return &issueServiceImpl{
		issueRepo:      issueRepo,
		workplaceRepo:  workplaceRepo,
		sprintRepo:     sprintRepo,
		membershipRepo: membershipRepo,
		commentRepo:    commentRepo,
		metrics:        m,
		logger:         logger,
	}
}

// CreateIssue creates an issue. The state must belong to the workplace's
// allowed-state list, implementers must resolve to non-guest memberships
// of the workplace, and a scheduled issue inherits its sprint's end date.
func (s *issueServiceImpl) CreateIssue(ctx context.Context, workplaceID, authorID uuid.UUID, req *dto.CreateIssueRequest) (*dto.IssueResponse, error) {
	workplace, err := s.findWorkplace(ctx, workplaceID)
	if err != nil {
		return nil, err
	}

	if err := s.validateFields(workplace, &req.IssueFields); err != nil {
		return nil, err
	}

	sprint, err := s.resolveSprint(ctx, workplaceID, req.SprintID)
	if err != nil {
		return nil, err
	}

	implementers, err := s.resolveImplementers(ctx, workplaceID, req.Implementers, response.ErrCodeUserNotFound)
	if err != nil {
		return nil, err
	}

	issue := &domain.Issue{
		WorkplaceID: workplaceID,
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		Priority:    req.Priority,
		State:       req.State,
		Label:       req.Label,
		Files:       domain.EncodeFiles(req.Files),
	}
	if sprint != nil {
		issue.SprintID = &sprint.ID
		endDate := sprint.EndDate
		issue.EndDate = &endDate
	}

	if err := s.issueRepo.Create(ctx, issue); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create issue", err.Error())
	}

	if len(implementers) > 0 {
		if err := s.issueRepo.AddAssignments(ctx, issue.ID, implementers); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to assign implementers", err.Error())
		}
	}

	if s.metrics != nil {
		s.metrics.IncrementIssueCreated()
	}
	s.logger.Info("Issue created",
		zap.String("issue_id", issue.ID.String()),
		zap.String("workplace_id", workplaceID.String()),
	)

	return s.loadResponse(ctx, workplaceID, issue.ID)
}

// GetIssue returns a single issue scoped to the workplace
func (s *issueServiceImpl) GetIssue(ctx context.Context, workplaceID, issueID uuid.UUID) (*dto.IssueResponse, error) {
	issue, err := s.findIssue(ctx, workplaceID, issueID)
	if err != nil {
		return nil, err
	}
	return toIssueResponse(issue), nil
}

// ListIssues returns the issues of a workplace, optionally filtered by a
// case-sensitive name prefix
func (s *issueServiceImpl) ListIssues(ctx context.Context, workplaceID uuid.UUID, namePrefix string) ([]*dto.IssueResponse, error) {
	if _, err := s.findWorkplace(ctx, workplaceID); err != nil {
		return nil, err
	}

	issues, err := s.issueRepo.FindByWorkplace(ctx, workplaceID, namePrefix)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list issues", err.Error())
	}
	return toIssueResponses(issues), nil
}

// ListSprintIssues returns the issues scheduled into a sprint
func (s *issueServiceImpl) ListSprintIssues(ctx context.Context, workplaceID, sprintID uuid.UUID) ([]*dto.IssueResponse, error) {
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

	issues, err := s.issueRepo.FindBySprint(ctx, sprintID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list issues", err.Error())
	}
	return toIssueResponses(issues), nil
}

// UpdateIssue replaces the writable fields of an issue. Changing the
// sprint re-parents the issue: the end date follows the new sprint (or is
// cleared on detach) and the denormalized sprint reference on the issue's
// comments is rewritten.
func (s *issueServiceImpl) UpdateIssue(ctx context.Context, workplaceID, issueID uuid.UUID, req *dto.UpdateIssueRequest) (*dto.IssueResponse, error) {
	workplace, err := s.findWorkplace(ctx, workplaceID)
	if err != nil {
		return nil, err
	}
	issue, err := s.findIssue(ctx, workplaceID, issueID)
	if err != nil {
		return nil, err
	}

	if err := s.validateFields(workplace, &req.IssueFields); err != nil {
		return nil, err
	}

	sprint, err := s.resolveSprint(ctx, workplaceID, req.SprintID)
	if err != nil {
		return nil, err
	}

	implementers, err := s.resolveImplementers(ctx, workplaceID, req.Implementers, response.ErrCodeUserNotFound)
	if err != nil {
		return nil, err
	}

	sprintChanged := !uuidPtrEqual(issue.SprintID, req.SprintID)

	issue.Name = req.Name
	issue.Text = req.Text
	issue.Priority = req.Priority
	issue.State = req.State
	issue.Label = req.Label
	issue.Files = domain.EncodeFiles(req.Files)
	if sprintChanged {
		if sprint != nil {
			issue.SprintID = &sprint.ID
			endDate := sprint.EndDate
			issue.EndDate = &endDate
		} else {
			issue.SprintID = nil
			issue.EndDate = nil
		}
	}

	if err := s.issueRepo.Update(ctx, issue); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update issue", err.Error())
	}

	if sprintChanged {
		if err := s.commentRepo.UpdateSprintForIssue(ctx, issueID, issue.SprintID); err != nil {
			s.logger.Error("Failed to refresh comment sprint references",
				zap.String("issue_id", issueID.String()),
				zap.Error(err),
			)
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to refresh comment sprint references", err.Error())
		}
	}

	if err := s.replaceAssignments(ctx, issue, implementers); err != nil {
		return nil, err
	}

	return s.loadResponse(ctx, workplaceID, issueID)
}

// DeleteIssue removes an issue with its comments and assignments
func (s *issueServiceImpl) DeleteIssue(ctx context.Context, workplaceID, issueID uuid.UUID) error {
	if _, err := s.findIssue(ctx, workplaceID, issueID); err != nil {
		return err
	}

	if err := s.commentRepo.DeleteByIssue(ctx, issueID); err != nil {
		s.logger.Error("Failed to delete issue comments",
			zap.String("issue_id", issueID.String()),
			zap.Error(err),
		)
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete comments", err.Error())
	}
	if err := s.issueRepo.DeleteAssignmentsByIssue(ctx, issueID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete assignments", err.Error())
	}
	if err := s.issueRepo.Delete(ctx, issueID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete issue", err.Error())
	}

	s.logger.Info("Issue deleted",
		zap.String("issue_id", issueID.String()),
		zap.String("workplace_id", workplaceID.String()),
	)
	return nil
}

// AssignUsers adds implementers to an issue. Already-assigned users are
// skipped, so the call is idempotent.
func (s *issueServiceImpl) AssignUsers(ctx context.Context, workplaceID, issueID uuid.UUID, req *dto.AssignUsersRequest) (*dto.IssueResponse, error) {
	if _, err := s.findIssue(ctx, workplaceID, issueID); err != nil {
		return nil, err
	}

	implementers, err := s.resolveImplementers(ctx, workplaceID, req.UserIDs, response.ErrCodeValidation)
	if err != nil {
		return nil, err
	}

	if err := s.issueRepo.AddAssignments(ctx, issueID, implementers); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to assign users", err.Error())
	}
	return s.loadResponse(ctx, workplaceID, issueID)
}

// UnassignUsers removes implementers from an issue. Users not currently
// assigned are ignored.
func (s *issueServiceImpl) UnassignUsers(ctx context.Context, workplaceID, issueID uuid.UUID, req *dto.AssignUsersRequest) (*dto.IssueResponse, error) {
	if _, err := s.findIssue(ctx, workplaceID, issueID); err != nil {
		return nil, err
	}

	memberships, err := s.membershipRepo.FindByWorkplaceAndUserIDs(ctx, workplaceID, dedupe(req.UserIDs))
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to resolve memberships", err.Error())
	}
	membershipIDs := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		membershipIDs = append(membershipIDs, m.ID)
	}

	if len(membershipIDs) > 0 {
		if err := s.issueRepo.RemoveAssignments(ctx, issueID, membershipIDs); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to unassign users", err.Error())
		}
	}
	return s.loadResponse(ctx, workplaceID, issueID)
}

// validateFields checks enum fields and the workplace-scoped state list
func (s *issueServiceImpl) validateFields(workplace *domain.Workplace, fields *dto.IssueFields) error {
	if !fields.Priority.Valid() {
		return response.NewAppError(response.ErrCodeValidation, "Unknown priority", string(fields.Priority))
	}
	if !fields.Label.Valid() {
		return response.NewAppError(response.ErrCodeValidation, "Unknown label", string(fields.Label))
	}
	if !workplace.HasState(fields.State) {
		return response.NewAppError(response.ErrCodeValidation,
			"State is not in the workplace's allowed-state list", fields.State)
	}
	return nil
}

// resolveSprint loads the sprint when an issue is being scheduled. A
// sprint belonging to another workplace is reported as absent.
func (s *issueServiceImpl) resolveSprint(ctx context.Context, workplaceID uuid.UUID, sprintID *uuid.UUID) (*domain.Sprint, error) {
	if sprintID == nil {
		return nil, nil
	}
	sprint, err := s.sprintRepo.FindByID(ctx, *sprintID)
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

// resolveImplementers maps user ids to membership ids of the workplace.
// Every user must be a member and guests cannot implement issues. missCode
// is the error code reported for a non-member id: USER_NOT_FOUND on the
// create/update paths, VALIDATION_ERROR on explicit assignment.
func (s *issueServiceImpl) resolveImplementers(ctx context.Context, workplaceID uuid.UUID, userIDs []uuid.UUID, missCode string) ([]uuid.UUID, error) {
	userIDs = dedupe(userIDs)
	if len(userIDs) == 0 {
		return nil, nil
	}

	memberships, err := s.membershipRepo.FindByWorkplaceAndUserIDs(ctx, workplaceID, userIDs)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to resolve memberships", err.Error())
	}
	if len(memberships) != len(userIDs) {
		return nil, response.NewAppError(missCode,
			"Implementer is not a member of the workplace", "")
	}

	membershipIDs := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		if m.Role == domain.RoleGuest {
			return nil, response.NewAppError(response.ErrCodeValidation,
				"Guests cannot implement issues",
				fmt.Sprintf("user %s", m.UserID),
			)
		}
		membershipIDs = append(membershipIDs, m.ID)
	}
	return membershipIDs, nil
}

// replaceAssignments reconciles stored assignments with the target set
func (s *issueServiceImpl) replaceAssignments(ctx context.Context, issue *domain.Issue, target []uuid.UUID) error {
	current, err := s.issueRepo.FindAssignments(ctx, issue.ID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to load assignments", err.Error())
	}

	targetSet := make(map[uuid.UUID]bool, len(target))
	for _, id := range target {
		targetSet[id] = true
	}
	currentSet := make(map[uuid.UUID]bool, len(current))
	for _, a := range current {
		currentSet[a.MembershipID] = true
	}

	var toAdd, toRemove []uuid.UUID
	for _, id := range target {
		if !currentSet[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, a := range current {
		if !targetSet[a.MembershipID] {
			toRemove = append(toRemove, a.MembershipID)
		}
	}

	if len(toAdd) > 0 {
		if err := s.issueRepo.AddAssignments(ctx, issue.ID, toAdd); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to assign implementers", err.Error())
		}
	}
	if len(toRemove) > 0 {
		if err := s.issueRepo.RemoveAssignments(ctx, issue.ID, toRemove); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to unassign implementers", err.Error())
		}
	}
	return nil
}

func (s *issueServiceImpl) loadResponse(ctx context.Context, workplaceID, issueID uuid.UUID) (*dto.IssueResponse, error) {
	issue, err := s.findIssue(ctx, workplaceID, issueID)
	if err != nil {
		return nil, err
	}
	return toIssueResponse(issue), nil
}

func (s *issueServiceImpl) findWorkplace(ctx context.Context, workplaceID uuid.UUID) (*domain.Workplace, error) {
	workplace, err := s.workplaceRepo.FindByID(ctx, workplaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeWorkplaceNotFound, "Workplace not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load workplace", err.Error())
	}
	return workplace, nil
}

func (s *issueServiceImpl) findIssue(ctx context.Context, workplaceID, issueID uuid.UUID) (*domain.Issue, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeIssueNotFound, "Issue not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load issue", err.Error())
	}
	if issue.WorkplaceID != workplaceID {
		return nil, response.NewAppError(response.ErrCodeIssueNotFound, "Issue not found", "")
	}
	return issue, nil
}

func toIssueResponse(issue *domain.Issue) *dto.IssueResponse {
	implementers := make([]uuid.UUID, 0, len(issue.Assignments))
	for _, a := range issue.Assignments {
		implementers = append(implementers, a.MembershipID)
	}
	return &dto.IssueResponse{
		ID:           issue.ID,
		WorkplaceID:  issue.WorkplaceID,
		SprintID:     issue.SprintID,
		AuthorID:     issue.AuthorID,
		Name:         issue.Name,
		Text:         issue.Text,
		Priority:     issue.Priority,
		State:        issue.State,
		Label:        issue.Label,
		EndDate:      issue.EndDate,
		Implementers: implementers,
		Files:        issue.FileList(),
		CreatedAt:    issue.CreatedAt,
		UpdatedAt:    issue.UpdatedAt,
	}
}

func toIssueResponses(issues []*domain.Issue) []*dto.IssueResponse {
	result := make([]*dto.IssueResponse, 0, len(issues))
	for _, issue := range issues {
		result = append(result, toIssueResponse(issue))
	}
	return result
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result
}
