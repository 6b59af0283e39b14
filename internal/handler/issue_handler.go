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

type IssueHandler struct {
	issueService service.IssueService
}

func NewIssueHandler(issueService service.IssueService) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
	}
}

// CreateIssue godoc
// @Summary      Create an issue
// @Description  Creates an issue authored by the caller's membership. A scheduled issue inherits its sprint's end date.
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        request body dto.CreateIssueRequest true "Issue payload"
// @Success      201 {object} dto.IssueResponse
// @Failure      400 {object} response.ErrorResponse "Invalid payload, unknown state, or guest implementer"
// @Failure      403 {object} response.ErrorResponse "Requires MEMBER"
// @Failure      404 {object} response.ErrorResponse "Sprint or implementer not found"
// @Router       /workplaces/{workplaceId}/issues [post]
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}

	membership, ok := middleware.MembershipFromContext(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	var req dto.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	issue, err := h.issueService.CreateIssue(c.Request.Context(), workplaceID, membership.ID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, issue)
}

// ListIssues godoc
// @Summary      List the issues of a workplace
// @Description  Lists issues, optionally narrowed to names starting with the given prefix
// @Tags         issues
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        name query string false "Case-sensitive name prefix"
// @Success      200 {array} dto.IssueResponse
// @Failure      404 {object} response.ErrorResponse "Workplace not found"
// @Router       /workplaces/{workplaceId}/issues [get]
func (h *IssueHandler) ListIssues(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}

	issues, err := h.issueService.ListIssues(c.Request.Context(), workplaceID, c.Query("name"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, issues)
}

// GetIssue godoc
// @Summary      Get an issue
// @Tags         issues
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        issueId path string true "Issue ID (UUID)"
// @Success      200 {object} dto.IssueResponse
// @Failure      404 {object} response.ErrorResponse "Issue not found"
// @Router       /workplaces/{workplaceId}/issues/{issueId} [get]
func (h *IssueHandler) GetIssue(c *gin.Context) {
	workplaceID, issueID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	issue, err := h.issueService.GetIssue(c.Request.Context(), workplaceID, issueID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, issue)
}

// UpdateIssue godoc
// @Summary      Update an issue
// @Description  Replaces the issue's writable fields. A null sprintId detaches it; a different sprintId re-parents it and refreshes its comments.
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        request body dto.UpdateIssueRequest true "Issue payload"
// @Success      200 {object} dto.IssueResponse
// @Failure      400 {object} response.ErrorResponse "Invalid payload, unknown state, or guest implementer"
// @Failure      404 {object} response.ErrorResponse "Issue, sprint or implementer not found"
// @Router       /workplaces/{workplaceId}/issues/{issueId} [put]
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	workplaceID, issueID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	var req dto.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	issue, err := h.issueService.UpdateIssue(c.Request.Context(), workplaceID, issueID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, issue)
}

// DeleteIssue godoc
// @Summary      Delete an issue
// @Description  Removes the issue with its comments and assignments
// @Tags         issues
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        issueId path string true "Issue ID (UUID)"
// @Success      200 {object} response.MessageResponse
// @Failure      403 {object} response.ErrorResponse "Requires MEMBER"
// @Failure      404 {object} response.ErrorResponse "Issue not found"
// @Router       /workplaces/{workplaceId}/issues/{issueId} [delete]
func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	workplaceID, issueID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	if err := h.issueService.DeleteIssue(c.Request.Context(), workplaceID, issueID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, response.MessageResponse{Message: "Issue deleted"})
}

// AssignUsers godoc
// @Summary      Assign implementers
// @Description  Adds non-guest members as implementers. Already-assigned users are skipped.
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        request body dto.AssignUsersRequest true "User IDs"
// @Success      200 {object} dto.IssueResponse
// @Failure      400 {object} response.ErrorResponse "Guest implementer"
// @Failure      404 {object} response.ErrorResponse "Issue or user not found"
// @Router       /workplaces/{workplaceId}/issues/{issueId}/assignees [post]
func (h *IssueHandler) AssignUsers(c *gin.Context) {
	workplaceID, issueID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	var req dto.AssignUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	issue, err := h.issueService.AssignUsers(c.Request.Context(), workplaceID, issueID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, issue)
}

// UnassignUsers godoc
// @Summary      Unassign implementers
// @Description  Removes implementers. Users not assigned are ignored.
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        request body dto.AssignUsersRequest true "User IDs"
// @Success      200 {object} dto.IssueResponse
// @Failure      404 {object} response.ErrorResponse "Issue not found"
// @Router       /workplaces/{workplaceId}/issues/{issueId}/assignees [delete]
func (h *IssueHandler) UnassignUsers(c *gin.Context) {
	workplaceID, issueID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	var req dto.AssignUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	issue, err := h.issueService.UnassignUsers(c.Request.Context(), workplaceID, issueID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, issue)
}

func (h *IssueHandler) pathIDs(c *gin.Context) (workplaceID, issueID uuid.UUID, ok bool) {
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
