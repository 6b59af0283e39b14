package domain

import "github.com/google/uuid"

// Role represents the capability level of a workplace member
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleGuest  Role = "GUEST"
)

// Rank returns the position of the role in the capability order
// GUEST < MEMBER < ADMIN. Unknown roles rank below GUEST.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleMember:
		return 1
	case RoleGuest:
		return 0
	default:
		return -1
	}
}

// AtLeast reports whether the role grants every capability of min
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

// Valid reports whether the role is one of the known constants
func (r Role) Valid() bool {
	return r.Rank() >= 0
}

// Membership binds a user to a workplace with a role. The compound unique
// index enforces at most one membership per (workplace, user) pair at the
// storage layer, closing the check-then-insert race.
type Membership struct {
	BaseModel
	WorkplaceID uuid.UUID `gorm:"type:uuid;not null;index:idx_memberships_workplace_id;uniqueIndex:uq_memberships_workplace_user" json:"workplace_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_memberships_user_id;uniqueIndex:uq_memberships_workplace_user" json:"user_id"`
	Role        Role      `gorm:"type:varchar(20);not null" json:"role"`

	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Workplace *Workplace `gorm:"foreignKey:WorkplaceID" json:"workplace,omitempty"`
}

// TableName specifies the table name for Membership
func (Membership) TableName() string {
	return "memberships"
}
