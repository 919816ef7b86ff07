package model

import "time"

// FavoriteSong marks a song as a favorite of a user. At most one row
// exists per (user, song) pair.
type FavoriteSong struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"uniqueIndex:idx_favorite_user_song;not null" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SongID    uint64    `gorm:"uniqueIndex:idx_favorite_user_song;not null" json:"song_id"`
	Song      *Song     `gorm:"constraint:OnDelete:CASCADE" json:"song,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListeningHistory is an append-only log of playback events. Rows are
// never mutated after creation.
type ListeningHistory struct {
	ID               uint64    `gorm:"primaryKey" json:"id"`
	UserID           uint64    `gorm:"index;not null" json:"user_id"`
	User             *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SongID           uint64    `gorm:"index;not null" json:"song_id"`
	Song             *Song     `gorm:"constraint:OnDelete:CASCADE" json:"song,omitempty"`
	PlayedAt         time.Time `json:"played_at"`
	DurationListened int       `gorm:"not null;default:0" json:"duration_listened"` // seconds
}
