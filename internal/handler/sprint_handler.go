package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workplace-api/internal/dto"
	"workplace-api/internal/response"
	"workplace-api/internal/service"
)

type SprintHandler struct {
	sprintService service.SprintService
	issueService  service.IssueService
}

func NewSprintHandler(sprintService service.SprintService, issueService service.IssueService) *SprintHandler {
	return &SprintHandler{
		sprintService: sprintService,
		issueService:  issueService,
	}
}

// CreateSprint godoc
// @Summary      Create a sprint
// @Description  Creates a sprint. The half-open date range must not overlap another sprint of the workplace.
// @Tags         sprints
// @Accept       json
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        request body dto.CreateSprintRequest true "Sprint payload"
// @Success      201 {object} dto.SprintResponse
// @Failure      400 {object} response.ErrorResponse "Invalid payload or date range"
// @Failure      403 {object} response.ErrorResponse "Requires ADMIN"
// @Failure      409 {object} response.ErrorResponse "Dates overlap an existing sprint"
// @Router       /workplaces/{workplaceId}/sprints [post]
func (h *SprintHandler) CreateSprint(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}

	var req dto.CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	sprint, err := h.sprintService.CreateSprint(c.Request.Context(), workplaceID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, sprint)
}

// ListSprints godoc
// @Summary      List sprints
// @Tags         sprints
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        skip query int false "Rows to skip"
// @Param        limit query int false "Maximum rows to return"
// @Success      200 {array} dto.SprintResponse
// @Failure      404 {object} response.ErrorResponse "Workplace not found"
// @Router       /workplaces/{workplaceId}/sprints [get]
func (h *SprintHandler) ListSprints(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	sprints, err := h.sprintService.ListSprints(c.Request.Context(), workplaceID, skip, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, sprints)
}

// GetSprint godoc
// @Summary      Get a sprint
// @Tags         sprints
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        sprintId path string true "Sprint ID (UUID)"
// @Success      200 {object} dto.SprintResponse
// @Failure      404 {object} response.ErrorResponse "Sprint not found"
// @Router       /workplaces/{workplaceId}/sprints/{sprintId} [get]
func (h *SprintHandler) GetSprint(c *gin.Context) {
	workplaceID, sprintID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	sprint, err := h.sprintService.GetSprint(c.Request.Context(), workplaceID, sprintID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, sprint)
}

// ListSprintIssues godoc
// @Summary      List the issues of a sprint
// @Tags         sprints
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        sprintId path string true "Sprint ID (UUID)"
// @Success      200 {array} dto.IssueResponse
// @Failure      404 {object} response.ErrorResponse "Sprint not found"
// @Router       /workplaces/{workplaceId}/sprints/{sprintId}/issues [get]
func (h *SprintHandler) ListSprintIssues(c *gin.Context) {
	workplaceID, sprintID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	issues, err := h.issueService.ListSprintIssues(c.Request.Context(), workplaceID, sprintID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, issues)
}

// UpdateSprint godoc
// @Summary      Update a sprint
// @Description  Applies a partial update. The merged date range is checked against every other sprint.
// @Tags         sprints
// @Accept       json
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        sprintId path string true "Sprint ID (UUID)"
// @Param        request body dto.UpdateSprintRequest true "Fields to update"
// @Success      200 {object} dto.SprintResponse
// @Failure      400 {object} response.ErrorResponse "Invalid date range"
// @Failure      404 {object} response.ErrorResponse "Sprint not found"
// @Failure      409 {object} response.ErrorResponse "Dates overlap an existing sprint"
// @Router       /workplaces/{workplaceId}/sprints/{sprintId} [put]
func (h *SprintHandler) UpdateSprint(c *gin.Context) {
	workplaceID, sprintID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	var req dto.UpdateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	sprint, err := h.sprintService.UpdateSprint(c.Request.Context(), workplaceID, sprintID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, sprint)
}

// DeleteSprint godoc
// @Summary      Delete a sprint
// @Description  Deletes the sprint; its issues return to the backlog with inherited end dates cleared
// @Tags         sprints
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        sprintId path string true "Sprint ID (UUID)"
// @Success      200 {object} response.MessageResponse
// @Failure      403 {object} response.ErrorResponse "Requires ADMIN"
// @Failure      404 {object} response.ErrorResponse "Sprint not found"
// @Router       /workplaces/{workplaceId}/sprints/{sprintId} [delete]
func (h *SprintHandler) DeleteSprint(c *gin.Context) {
	workplaceID, sprintID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	if err := h.sprintService.DeleteSprint(c.Request.Context(), workplaceID, sprintID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, response.MessageResponse{Message: "Sprint deleted"})
}

func (h *SprintHandler) pathIDs(c *gin.Context) (workplaceID, sprintID uuid.UUID, ok bool) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return uuid.Nil, uuid.Nil, false
	}
	sprintID, err = uuid.Parse(c.Param("sprintId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeSprintNotFound, "Sprint not found")
		return uuid.Nil, uuid.Nil, false
	}
	return workplaceID, sprintID, true
}
