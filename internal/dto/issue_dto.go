package dto

import (
	"time"

	"github.com/google/uuid"

	"workplace-api/internal/domain"
)

// IssueFields carries the writable fields of an issue. Implementers are
// user ids; each must resolve to a non-guest membership of the workplace.
type IssueFields struct {
	Name         string          `json:"name" binding:"required,min=1"`
	Text         string          `json:"text"`
	Priority     domain.Priority `json:"priority" binding:"required"`
	State        string          `json:"state" binding:"required"`
	Label        domain.Label    `json:"label" binding:"required"`
	SprintID     *uuid.UUID      `json:"sprintId"`
	Implementers []uuid.UUID     `json:"implementers"`
	Files        []string        `json:"files"`
}

// CreateIssueRequest represents the request to create an issue
type CreateIssueRequest struct {
	IssueFields
}

// UpdateIssueRequest replaces the writable fields of an issue. A null
// sprintId detaches the issue from its sprint; a different sprintId
// re-parents it.
type UpdateIssueRequest struct {
	IssueFields
}

// AssignUsersRequest carries the user ids to assign or unassign
type AssignUsersRequest struct {
	UserIDs []uuid.UUID `json:"userIds" binding:"required,min=1"`
}

// IssueResponse represents the issue response
type IssueResponse struct {
	ID           uuid.UUID       `json:"id"`
	WorkplaceID  uuid.UUID       `json:"workplaceId"`
	SprintID     *uuid.UUID      `json:"sprintId"`
	AuthorID     uuid.UUID       `json:"authorId"`
	Name         string          `json:"name"`
	Text         string          `json:"text"`
	Priority     domain.Priority `json:"priority"`
	State        string          `json:"state"`
	Label        domain.Label    `json:"label"`
	EndDate      *time.Time      `json:"endDate"`
	Implementers []uuid.UUID     `json:"implementers"`
	Files        []string        `json:"files"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
