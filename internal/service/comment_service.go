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

// CommentService defines the interface for comment business logic
type CommentService interface {
	CreateComment(ctx context.Context, workplaceID, issueID, authorID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	GetComment(ctx context.Context, workplaceID, issueID, commentID uuid.UUID) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, workplaceID, issueID uuid.UUID) ([]*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, workplaceID, issueID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, workplaceID, issueID, commentID uuid.UUID) error
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	issueRepo   repository.IssueRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	issueRepo repository.IssueRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		issueRepo:   issueRepo,
		metrics:     m,
		logger:      logger,
	}
}

// CreateComment creates a comment on an issue. The workplace and sprint
// references are copied from the issue at write time.
func (s *commentServiceImpl) CreateComment(ctx context.Context, workplaceID, issueID, authorID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	issue, err := s.findIssue(ctx, workplaceID, issueID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		IssueID:     issue.ID,
		WorkplaceID: issue.WorkplaceID,
		SprintID:    issue.SprintID,
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		Files:       domain.EncodeFiles(req.Files),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create comment", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementCommentCreated()
	}
	s.logger.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("issue_id", issueID.String()),
	)

	return toCommentResponse(comment), nil
}

// GetComment returns a single comment scoped to the issue
func (s *commentServiceImpl) GetComment(ctx context.Context, workplaceID, issueID, commentID uuid.UUID) (*dto.CommentResponse, error) {
	comment, err := s.findComment(ctx, workplaceID, issueID, commentID)
	if err != nil {
		return nil, err
	}
	return toCommentResponse(comment), nil
}

// ListComments returns the comments of an issue in creation order
func (s *commentServiceImpl) ListComments(ctx context.Context, workplaceID, issueID uuid.UUID) ([]*dto.CommentResponse, error) {
	if _, err := s.findIssue(ctx, workplaceID, issueID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByIssue(ctx, issueID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list comments", err.Error())
	}

	result := make([]*dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		result = append(result, toCommentResponse(comment))
	}
	return result, nil
}

// UpdateComment applies a partial update. The denormalized workplace and
// sprint references are not writable here.
func (s *commentServiceImpl) UpdateComment(ctx context.Context, workplaceID, issueID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.findComment(ctx, workplaceID, issueID, commentID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		comment.Name = *req.Name
	}
	if req.Text != nil {
		comment.Text = *req.Text
	}
	if req.Files != nil {
		comment.Files = domain.EncodeFiles(*req.Files)
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update comment", err.Error())
	}
	return toCommentResponse(comment), nil
}

// DeleteComment removes a comment
func (s *commentServiceImpl) DeleteComment(ctx context.Context, workplaceID, issueID, commentID uuid.UUID) error {
	if _, err := s.findComment(ctx, workplaceID, issueID, commentID); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete comment", err.Error())
	}
	return nil
}

func (s *commentServiceImpl) findIssue(ctx context.Context, workplaceID, issueID uuid.UUID) (*domain.Issue, error) {
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

func (s *commentServiceImpl) findComment(ctx context.Context, workplaceID, issueID, commentID uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeCommentNotFound, "Comment not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load comment", err.Error())
	}
	if comment.IssueID != issueID || comment.WorkplaceID != workplaceID {
		return nil, response.NewAppError(response.ErrCodeCommentNotFound, "Comment not found", "")
	}
	return comment, nil
}

func toCommentResponse(comment *domain.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:          comment.ID,
		IssueID:     comment.IssueID,
		WorkplaceID: comment.WorkplaceID,
		SprintID:    comment.SprintID,
		AuthorID:    comment.AuthorID,
		Name:        comment.Name,
		Text:        comment.Text,
		Files:       comment.FileList(),
		CreatedAt:   comment.CreatedAt,
		UpdatedAt:   comment.UpdatedAt,
	}
}
