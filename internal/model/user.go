package model

import "time"

// Role constants
const (
	RoleContributor = "contributor"
	RoleAdmin       = "admin"
)

type User struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Provider   string    `gorm:"not null;size:20" json:"provider"`
	ProviderID string    `gorm:"not null;size:255" json:"providerId"`
	Email      string    `gorm:"not null;size:255" json:"email"`
	Name       string    `gorm:"size:255" json:"name"`
	AvatarURL  string    `json:"avatarUrl"`
	Role       string    `gorm:"not null;size:20;default:'contributor'" json:"role"`
	Banned     bool      `gorm:"not null;default:false" json:"banned"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
