package models

import "time"

// AuthAccount is the identity record: credentials plus the metadata captured at
// sign-up. It is distinct from the User profile row, which the application owns
// and which may lag behind (see the self-heal path in the auth controller).
type AuthAccount struct {
	ID                string    `json:"id" gorm:"primaryKey"` // uuid
	Email             string    `json:"email" gorm:"unique;not null"`
	Password          string    `json:"-" gorm:"not null"`
	MetadataName      string    `json:"metadata_name" gorm:"default:''"`
	Role              string    `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	IsEmailVerified   bool      `json:"is_email_verified" gorm:"default:false"`
	VerificationToken string    `json:"-" gorm:"default:''"`
	LastLogin         time.Time `json:"last_login" gorm:"default:NULL"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	IsDeleted         bool      `gorm:"default:false"`
}

// User is the profile row, keyed by the auth account's ID.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"` // same uuid as AuthAccount
	Email     string    `json:"email" gorm:"not null"`
	Name      string    `json:"name" gorm:"default:''"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
