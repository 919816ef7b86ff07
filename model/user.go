package model

import "time"

// User represents a registered account.
type User struct {
	ID             uint64     `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email          string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash   string     `gorm:"size:255;not null" json:"-"`
	IsStaff        bool       `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser    bool       `gorm:"not null;default:false" json:"is_superuser"`
	IsPremium      bool       `gorm:"not null;default:false" json:"is_premium"`
	Gender         string     `gorm:"size:1" json:"gender,omitempty"` // M, F or O
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	ProfilePicture string     `gorm:"size:200" json:"profile_picture,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the user may perform administrator-gated
// operations.
func (u *User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

// UserSnapshot is the public profile shape returned with credentials.
type UserSnapshot struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsPremium bool   `json:"is_premium"`
}

// Snapshot builds the public profile snapshot of the user.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsPremium: u.IsPremium,
	}
}
