package model

import "time"

// LoginCode is a single-use numeric login code sent by email.
// A code is redeemable only while Used is false and its age is within
// the configured validity window. Several outstanding codes may exist
// for one email; verification picks the most recent match. Consumed
// and expired rows accumulate and are never purged.
type LoginCode struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;index;not null" json:"email"`
	Code      string    `gorm:"size:6;not null" json:"code"`
	CreatedAt time.Time `json:"created_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
}
