package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/SHERATONS/FISHERMEN/pkg/enums"
)

// User represents the canonical identity entity. Fishermen and buyers share
// the same table and are distinguished by role.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string         `gorm:"type:text;not null;uniqueIndex"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	Role         enums.UserRole `gorm:"type:text;not null"`
	ProfileInfo  *string        `gorm:"column:profile_info"`
	Location     *string        `gorm:"column:location"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
