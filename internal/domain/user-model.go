package domain

import "gorm.io/gorm"

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `json:"-"`
	DisplayName  string  `json:"display_name"`
	AvatarURL    *string `gorm:"type:text" json:"avatar_url,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Role         string  `gorm:"type:varchar(20);not null;default:student;index" json:"role"`
	Status       string  `gorm:"type:varchar(20);not null;default:active" json:"status"`
	gorm.Model
}
