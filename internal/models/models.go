package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog record. ImageURL and ImageKey are set together when
// an image has been uploaded to the object store and are both nil otherwise;
// ImageKey is the handle needed to delete the stored object later.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Name        string    `gorm:"not null"                  json:"name"`
	Description string    `gorm:"default:''"                json:"description"`
	ImageURL    *string   `json:"image"`
	ImageKey    *string   `json:"imageKey"`
	IsAvailable bool      `gorm:"default:true"              json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null"      json:"username"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	Role         string    `gorm:"not null"             json:"role"`
}

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)
