package models

import "time"

type UserRole string

const (
	UserRoleSuperAdmin   UserRole = "super_admin"
	UserRoleCompanyAdmin UserRole = "company_admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User is a platform account (administrators only; candidates authenticate
// with invite codes, not accounts).
type User struct {
	BaseModel
	CompanyID    *string    `gorm:"type:uuid;index" json:"company_id,omitempty"` // nil for super admins
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `json:"name"`
	Role         UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);default:'active'" json:"status"`

	Company       *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
