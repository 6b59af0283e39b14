package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workplace-api/internal/dto"
	"workplace-api/internal/middleware"
	"workplace-api/internal/response"
	"workplace-api/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// CreateComment godoc
// @Summary      Create a comment
// @Description  Creates a comment authored by the caller's membership; the workplace and sprint references are copied from the issue
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        request body dto.CreateCommentRequest true "Comment payload"
// @Success      201 {object} dto.CommentResponse
// @Failure      400 {object} response.ErrorResponse "Invalid payload"
// @Failure      404 {object} response.ErrorResponse "Issue not found"
// @Router       /workplaces/{workplaceId}/issues/{issueId}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	workplaceID, issueID, ok := h.issuePathIDs(c)
	if !ok {
		return
	}

	membership, ok := middleware.MembershipFromContext(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), workplaceID, issueID, membership.ID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, comment)
}

// ListComments godoc
// @Summary      List the comments of an issue
// @Tags         comments
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        issueId path string true "Issue ID (UUID)"
// @Success      200 {array} dto.CommentResponse
// @Failure      404 {object} response.ErrorResponse "Issue not found"
// @Router       /workplaces/{workplaceId}/issues/{issueId}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	workplaceID, issueID, ok := h.issuePathIDs(c)
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), workplaceID, issueID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, comments)
}

// GetComment godoc
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} dto.CommentResponse
// @Failure      404 {object} response.ErrorResponse "Comment not found"
// @Router       /workplaces/{workplaceId}/issues/{issueId}/comments/{commentId} [get]
func (h *CommentHandler) GetComment(c *gin.Context) {
	workplaceID, issueID, commentID, ok := h.commentPathIDs(c)
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(c.Request.Context(), workplaceID, issueID, commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, comment)
}

// UpdateComment godoc
// @Summary      Update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        commentId path string true "Comment ID (UUID)"
// @Param        request body dto.UpdateCommentRequest true "Fields to update"
// @Success      200 {object} dto.CommentResponse
// @Failure      404 {object} response.ErrorResponse "Comment not found"
// @Router       /workplaces/{workplaceId}/issues/{issueId}/comments/{commentId} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	workplaceID, issueID, commentID, ok := h.commentPathIDs(c)
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(), workplaceID, issueID, commentID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} response.ErrorResponse "Comment not found"
// @Router       /workplaces/{workplaceId}/issues/{issueId}/comments/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	workplaceID, issueID, commentID, ok := h.commentPathIDs(c)
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), workplaceID, issueID, commentID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, response.MessageResponse{Message: "Comment deleted"})
}

func (h *CommentHandler) issuePathIDs(c *gin.Context) (workplaceID, issueID uuid.UUID, ok bool) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return uuid.Nil, uuid.Nil, false
	}
	issueID, err = uuid.Parse(c.Param("issueId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeIssueNotFound, "Issue not found")
		return uuid.Nil, uuid.Nil, false
	}
	return workplaceID, issueID, true
}

func (h *CommentHandler) commentPathIDs(c *gin.Context) (workplaceID, issueID, commentID uuid.UUID, ok bool) {
	workplaceID, issueID, ok = h.issuePathIDs(c)
	if !ok {
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeCommentNotFound, "Comment not found")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	return workplaceID, issueID, commentID, true
}
