package model

import "time"

// Playlist is a named, owner-scoped set of songs. Membership has set
// semantics: no duplicates, order irrelevant. Private unless Public is
// set.
type Playlist struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	OwnerID   uint64    `gorm:"index;not null" json:"owner_id"`
	Owner     *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Public    bool      `gorm:"not null;default:false" json:"public"`
	CreatedAt time.Time `json:"created_at"`
	Songs     []Song    `gorm:"many2many:playlist_songs;constraint:OnDelete:CASCADE" json:"songs"`
}
