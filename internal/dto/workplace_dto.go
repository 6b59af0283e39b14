package dto

import (
	"time"

	"github.com/google/uuid"

	"workplace-api/internal/domain"
)

// CreateWorkplaceRequest represents the request to create a workplace
type CreateWorkplaceRequest struct {
	Name        string `json:"name" binding:"required,min=1"`
	Description string `json:"description"`
}

// UpdateWorkplaceRequest represents a partial workplace update.
// The allowed-state list is not mutable through this path.
type UpdateWorkplaceRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}

// WorkplaceResponse represents the workplace response
type WorkplaceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	States      []string  `json:"states"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MemberResponse represents a workplace member
type MemberResponse struct {
	MembershipID uuid.UUID   `json:"membershipId"`
	UserID       uuid.UUID   `json:"userId"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Role         domain.Role `json:"role"`
	JoinedAt     time.Time   `json:"joinedAt"`
}

// InviteMemberRequest represents the request to invite a user by email
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AcceptInvitationRequest carries the invitation token
type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}
