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

type WorkplaceHandler struct {
	workplaceService  service.WorkplaceService
	invitationService service.InvitationService
}

func NewWorkplaceHandler(workplaceService service.WorkplaceService, invitationService service.InvitationService) *WorkplaceHandler {
	return &WorkplaceHandler{
		workplaceService:  workplaceService,
		invitationService: invitationService,
	}
}

// CreateWorkplace godoc
// @Summary      Create a workplace
// @Description  Creates a workplace with the default state list and enrolls the caller as ADMIN
// @Tags         workplaces
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateWorkplaceRequest true "Workplace payload"
// @Success      201 {object} dto.WorkplaceResponse
// @Failure      400 {object} response.ErrorResponse "Invalid payload"
// @Failure      401 {object} response.ErrorResponse "Authentication required"
// @Router       /workplaces [post]
func (h *WorkplaceHandler) CreateWorkplace(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	var req dto.CreateWorkplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	workplace, err := h.workplaceService.CreateWorkplace(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, workplace)
}

// ListWorkplaces godoc
// @Summary      List the caller's workplaces
// @Tags         workplaces
// @Produce      json
// @Success      200 {array} dto.WorkplaceResponse
// @Failure      401 {object} response.ErrorResponse "Authentication required"
// @Router       /workplaces [get]
func (h *WorkplaceHandler) ListWorkplaces(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	workplaces, err := h.workplaceService.ListWorkplaces(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, workplaces)
}

// GetWorkplace godoc
// @Summary      Get a workplace
// @Tags         workplaces
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Success      200 {object} dto.WorkplaceResponse
// @Failure      404 {object} response.ErrorResponse "Workplace not found"
// @Router       /workplaces/{workplaceId} [get]
func (h *WorkplaceHandler) GetWorkplace(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}

	workplace, err := h.workplaceService.GetWorkplace(c.Request.Context(), workplaceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, workplace)
}

// UpdateWorkplace godoc
// @Summary      Update a workplace
// @Description  Updates name and description. The state list is not writable.
// @Tags         workplaces
// @Accept       json
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        request body dto.UpdateWorkplaceRequest true "Fields to update"
// @Success      200 {object} dto.WorkplaceResponse
// @Failure      403 {object} response.ErrorResponse "Requires ADMIN"
// @Failure      404 {object} response.ErrorResponse "Workplace not found"
// @Router       /workplaces/{workplaceId} [put]
func (h *WorkplaceHandler) UpdateWorkplace(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}

	var req dto.UpdateWorkplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	workplace, err := h.workplaceService.UpdateWorkplace(c.Request.Context(), workplaceID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, workplace)
}

// DeleteWorkplace godoc
// @Summary      Delete a workplace
// @Description  Removes the workplace with its memberships, sprints, issues and comments
// @Tags         workplaces
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Success      200 {object} response.MessageResponse
// @Failure      403 {object} response.ErrorResponse "Requires ADMIN"
// @Failure      404 {object} response.ErrorResponse "Workplace not found"
// @Router       /workplaces/{workplaceId} [delete]
func (h *WorkplaceHandler) DeleteWorkplace(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}

	if err := h.workplaceService.DeleteWorkplace(c.Request.Context(), workplaceID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, response.MessageResponse{Message: "Workplace deleted"})
}

// ListMembers godoc
// @Summary      List workplace members
// @Description  Lists members, optionally filtered by an email prefix
// @Tags         workplaces
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        email query string false "Email prefix filter"
// @Success      200 {array} dto.MemberResponse
// @Failure      404 {object} response.ErrorResponse "Workplace not found"
// @Router       /workplaces/{workplaceId}/members [get]
func (h *WorkplaceHandler) ListMembers(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}

	members, err := h.workplaceService.ListMembers(c.Request.Context(), workplaceID, c.Query("email"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, members)
}

// RemoveMember godoc
// @Summary      Remove a workplace member
// @Tags         workplaces
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        membershipId path string true "Membership ID (UUID)"
// @Success      200 {object} response.MessageResponse
// @Failure      403 {object} response.ErrorResponse "Requires ADMIN"
// @Failure      404 {object} response.ErrorResponse "Member not found"
// @Router       /workplaces/{workplaceId}/members/{membershipId} [delete]
func (h *WorkplaceHandler) RemoveMember(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}
	membershipID, err := uuid.Parse(c.Param("membershipId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeUserNotFound, "Member not found")
		return
	}

	if err := h.workplaceService.RemoveMember(c.Request.Context(), workplaceID, membershipID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, response.MessageResponse{Message: "Member removed"})
}

// InviteMember godoc
// @Summary      Invite a user by email
// @Description  Issues a single-use invitation token and mails it to the address
// @Tags         workplaces
// @Accept       json
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        request body dto.InviteMemberRequest true "Invitation payload"
// @Success      200 {object} response.MessageResponse
// @Failure      403 {object} response.ErrorResponse "Requires ADMIN"
// @Failure      404 {object} response.ErrorResponse "Workplace not found"
// @Router       /workplaces/{workplaceId}/invitations [post]
func (h *WorkplaceHandler) InviteMember(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}

	var req dto.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.invitationService.InviteMember(c.Request.Context(), workplaceID, &req); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, response.MessageResponse{Message: "Invitation sent"})
}

// AcceptInvitation godoc
// @Summary      Accept an invitation
// @Description  Consumes an invitation token and enrolls the caller as MEMBER
// @Tags         workplaces
// @Accept       json
// @Produce      json
// @Param        request body dto.AcceptInvitationRequest true "Invitation token"
// @Success      200 {object} dto.WorkplaceResponse
// @Failure      400 {object} response.ErrorResponse "Token expired or unknown"
// @Failure      403 {object} response.ErrorResponse "Token issued for another address"
// @Router       /invitations/accept [post]
func (h *WorkplaceHandler) AcceptInvitation(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	var req dto.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	workplace, err := h.invitationService.AcceptInvitation(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, workplace)
}
