package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateSprintRequest represents the request to create a sprint
type CreateSprintRequest struct {
	Name      string    `json:"name" binding:"required,min=1"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// UpdateSprintRequest represents a partial sprint update
type UpdateSprintRequest struct {
	Name      *string    `json:"name" binding:"omitempty,min=1"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// SprintResponse represents the sprint response
type SprintResponse struct {
	ID          uuid.UUID `json:"id"`
	WorkplaceID uuid.UUID `json:"workplaceId"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
