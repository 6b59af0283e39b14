package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sprint is a time-boxed container of issues within a workplace.
// Date ranges are half-open [StartDate, EndDate): two sprints of the same
// workplace must not intersect, touching endpoints are allowed.
type Sprint struct {
	BaseModel
	WorkplaceID uuid.UUID `gorm:"type:uuid;not null;index:idx_sprints_workplace_id" json:"workplace_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	StartDate   time.Time `gorm:"type:timestamp;not null;index:idx_sprints_start_date" json:"start_date"`
	EndDate     time.Time `gorm:"type:timestamp;not null;index:idx_sprints_end_date" json:"end_date"`

	Workplace *Workplace `gorm:"foreignKey:WorkplaceID;constraint:OnDelete:CASCADE" json:"workplace,omitempty"`
}

// TableName specifies the table name for Sprint
func (Sprint) TableName() string {
	return "sprints"
}

// Overlaps reports whether the sprint's [start, end) range intersects the
// given range
func (s *Sprint) Overlaps(start, end time.Time) bool {
	return s.StartDate.Before(end) && start.Before(s.EndDate)
}
