package models

// Role enum
type Role string

const (
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// User represents a registered identity. Only managers participate in
// authorization decisions; plain users exist for completeness of the roster.
type User struct {
	BaseModel
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role  Role   `gorm:"size:20;default:'user'" json:"role"`
}

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}
