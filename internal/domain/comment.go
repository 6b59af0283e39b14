package domain

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Comment is a feedback item on an issue. WorkplaceID and SprintID are
// denormalized from the issue at creation for scoped queries; SprintID is
// refreshed when the issue is re-parented and never written independently.
type Comment struct {
	BaseModel
	IssueID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_comments_issue_id" json:"issue_id"`
	WorkplaceID uuid.UUID      `gorm:"type:uuid;not null;index:idx_comments_workplace_id" json:"workplace_id"`
	SprintID    *uuid.UUID     `gorm:"type:uuid;index:idx_comments_sprint_id" json:"sprint_id"`
	AuthorID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_comments_author_id" json:"author_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Text        string         `gorm:"type:text" json:"text"`
	Files       datatypes.JSON `gorm:"type:jsonb" json:"files"`

	Issue  *Issue      `gorm:"foreignKey:IssueID" json:"issue,omitempty"`
	Author *Membership `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// FileList decodes the attached file tokens
func (c *Comment) FileList() []string {
	var files []string
	if len(c.Files) > 0 {
		_ = json.Unmarshal(c.Files, &files)
	}
	return files
}
