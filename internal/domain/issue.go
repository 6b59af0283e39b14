package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Priority represents the urgency of an issue
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether the priority is one of the known constants
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Label categorizes an issue by discipline
type Label string

const (
	LabelFrontend Label = "frontend"
	LabelBackend  Label = "backend"
	LabelDevops   Label = "devops"
	LabelQA       Label = "qa"
	LabelDesign   Label = "design"
	LabelOther    Label = "other"
)

// Valid reports whether the label is one of the known constants
func (l Label) Valid() bool {
	switch l {
	case LabelFrontend, LabelBackend, LabelDevops, LabelQA, LabelDesign, LabelOther:
		return true
	}
	return false
}

// Issue is a unit of work inside a workplace, optionally scheduled into a
// sprint. WorkplaceID is write-once; SprintID and EndDate change together
// on re-parenting and nowhere else. Files holds storage tokens only, never
// blob content.
type Issue struct {
	BaseModel
	WorkplaceID uuid.UUID      `gorm:"type:uuid;not null;index:idx_issues_workplace_id" json:"workplace_id"`
	SprintID    *uuid.UUID     `gorm:"type:uuid;index:idx_issues_sprint_id" json:"sprint_id"`
	AuthorID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_issues_author_id" json:"author_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Text        string         `gorm:"type:text" json:"text"`
	Priority    Priority       `gorm:"type:varchar(20);not null" json:"priority"`
	State       string         `gorm:"type:varchar(100);not null" json:"state"`
	Label       Label          `gorm:"type:varchar(50);not null" json:"label"`
	EndDate     *time.Time     `gorm:"type:timestamp" json:"end_date"`
	Files       datatypes.JSON `gorm:"type:jsonb" json:"files"`

	Workplace   *Workplace        `gorm:"foreignKey:WorkplaceID" json:"workplace,omitempty"`
	Sprint      *Sprint           `gorm:"foreignKey:SprintID" json:"sprint,omitempty"`
	Author      *Membership       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Assignments []IssueAssignment `gorm:"foreignKey:IssueID" json:"assignments,omitempty"`
}

// TableName specifies the table name for Issue
func (Issue) TableName() string {
	return "issues"
}

// FileList decodes the attached file tokens
func (i *Issue) FileList() []string {
	var files []string
	if len(i.Files) > 0 {
		_ = json.Unmarshal(i.Files, &files)
	}
	return files
}

// EncodeFiles encodes a file token list for storage
func EncodeFiles(files []string) datatypes.JSON {
	if files == nil {
		files = []string{}
	}
	raw, _ := json.Marshal(files)
	return raw
}

// IssueAssignment binds an issue to an implementer membership.
// Guests are rejected before rows are written, so every row here points at
// a MEMBER or ADMIN membership of the issue's workplace.
type IssueAssignment struct {
	BaseModel
	IssueID      uuid.UUID `gorm:"type:uuid;not null;index:idx_issue_assignments_issue_id;uniqueIndex:uq_issue_assignments_issue_member" json:"issue_id"`
	MembershipID uuid.UUID `gorm:"type:uuid;not null;index:idx_issue_assignments_membership_id;uniqueIndex:uq_issue_assignments_issue_member" json:"membership_id"`

	Membership *Membership `gorm:"foreignKey:MembershipID" json:"membership,omitempty"`
}

// TableName specifies the table name for IssueAssignment
func (IssueAssignment) TableName() string {
	return "issue_assignments"
}
