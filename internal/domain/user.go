package domain

// User represents a registered account. Authorship and assignment never
// reference a User directly; they go through a workplace Membership.
type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Verified     bool   `gorm:"not null;default:false" json:"verified"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
