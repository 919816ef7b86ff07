package model

import "time"

// Artist is a catalog reference entity. Deleting an artist cascades
// to its albums and songs.
type Artist struct {
	ID               uint64 `gorm:"primaryKey" json:"id"`
	Name             string `gorm:"size:100;not null" json:"name"`
	Bio              string `gorm:"type:text" json:"bio,omitempty"`
	ProfilePicture   string `gorm:"size:200" json:"profile_picture,omitempty"`
	Verified         bool   `gorm:"not null;default:false" json:"verified"`
	MonthlyListeners int64  `gorm:"not null;default:0" json:"monthly_listeners"`
}

// Genre is a catalog reference entity.
type Genre struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

// Album belongs to one artist and optionally one genre. Deleting an
// album cascades to its songs.
type Album struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	ArtistID    uint64     `gorm:"index;not null" json:"artist_id"`
	Artist      *Artist    `gorm:"constraint:OnDelete:CASCADE" json:"artist,omitempty"`
	GenreID     *uint64    `gorm:"index" json:"genre_id,omitempty"`
	Genre       *Genre     `gorm:"constraint:OnDelete:SET NULL" json:"genre,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	CoverImage  string     `gorm:"size:200" json:"cover_image,omitempty"`
	TotalSongs  int        `gorm:"not null;default:0" json:"total_songs"`
}

// Song belongs to one artist (required) and optionally one album and
// one genre.
type Song struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	Title     string  `gorm:"size:100;not null" json:"title"`
	ArtistID  uint64  `gorm:"index;not null" json:"artist_id"`
	Artist    *Artist `gorm:"constraint:OnDelete:CASCADE" json:"artist,omitempty"`
	AlbumID   *uint64 `gorm:"index" json:"album_id,omitempty"`
	Album     *Album  `gorm:"constraint:OnDelete:CASCADE" json:"album,omitempty"`
	GenreID   *uint64 `gorm:"index" json:"genre_id,omitempty"`
	Genre     *Genre  `gorm:"constraint:OnDelete:SET NULL" json:"genre,omitempty"`
	AudioFile string  `gorm:"size:200" json:"audio_file,omitempty"`
	Image     string  `gorm:"size:200" json:"image,omitempty"`
	Duration  int     `gorm:"not null;default:0" json:"duration"` // seconds
	IsPremium bool    `gorm:"not null;default:false" json:"is_premium"`
}
