package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateCommentRequest represents the request to create a comment
type CreateCommentRequest struct {
	Name  string   `json:"name" binding:"required,min=1"`
	Text  string   `json:"text" binding:"required,min=1"`
	Files []string `json:"files"`
}

// UpdateCommentRequest represents a partial comment update
type UpdateCommentRequest struct {
	Name  *string   `json:"name" binding:"omitempty,min=1"`
	Text  *string   `json:"text" binding:"omitempty,min=1"`
	Files *[]string `json:"files"`
}

// CommentResponse represents the comment response. WorkplaceID and
// SprintID mirror the parent issue at write time.
type CommentResponse struct {
	ID          uuid.UUID  `json:"id"`
	IssueID     uuid.UUID  `json:"issueId"`
	WorkplaceID uuid.UUID  `json:"workplaceId"`
	SprintID    *uuid.UUID `json:"sprintId"`
	AuthorID    uuid.UUID  `json:"authorId"`
	Name        string     `json:"name"`
	Text        string     `json:"text"`
	Files       []string   `json:"files"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
