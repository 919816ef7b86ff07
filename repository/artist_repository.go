package repository

import (
	"context"
	"errors"
	"fmt"

	"melodex/model"

	"gorm.io/gorm"
)

// ArtistRepository defines artist data operations.
type ArtistRepository interface {
	Create(ctx context.Context, artist *model.Artist) error
	FindByID(ctx context.Context, id uint64) (*model.Artist, error)
	List(ctx context.Context) ([]model.Artist, error)
	Update(ctx context.Context, artist *model.Artist) error
	// Delete removes the artist and cascades to its albums and songs.
	Delete(ctx context.Context, id uint64) error
}

type gormArtistRepository struct {
	db *gorm.DB
}

// NewArtistRepository creates a GORM-backed ArtistRepository.
func NewArtistRepository(gdb *gorm.DB) ArtistRepository {
	return &gormArtistRepository{db: gdb}
}

func (r *gormArtistRepository) Create(ctx context.Context, artist *model.Artist) error {
	if err := r.db.WithContext(ctx).Create(artist).Error; err != nil {
		return fmt.Errorf("failed to create artist: %w", err)
	}
	return nil
}

func (r *gormArtistRepository) FindByID(ctx context.Context, id uint64) (*model.Artist, error) {
	var artist model.Artist
	err := r.db.WithContext(ctx).First(&artist, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find artist %d: %w", id, err)
	}
	return &artist, nil
}

func (r *gormArtistRepository) List(ctx context.Context) ([]model.Artist, error) {
	var artists []model.Artist
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&artists).Error; err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, nil
}

func (r *gormArtistRepository) Update(ctx context.Context, artist *model.Artist) error {
	if err := r.db.WithContext(ctx).Save(artist).Error; err != nil {
		return fmt.Errorf("failed to update artist %d: %w", artist.ID, err)
	}
	return nil
}

// Delete removes the artist together with its albums and songs. The
// cascade is explicit so the invariant holds regardless of whether the
// backing store enforces foreign keys.
func (r *gormArtistRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var songIDs []uint64
		if err := tx.Model(&model.Song{}).Where("artist_id = ?", id).Pluck("id", &songIDs).Error; err != nil {
			return fmt.Errorf("failed to collect artist songs: %w", err)
		}
		if err := deleteSongs(tx, songIDs); err != nil {
			return err
		}
		if err := tx.Where("artist_id = ?", id).Delete(&model.Album{}).Error; err != nil {
			return fmt.Errorf("failed to delete artist albums: %w", err)
		}
		if err := tx.Delete(&model.Artist{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete artist %d: %w", id, err)
		}
		return nil
	})
}

// deleteSongs removes the given songs plus their playlist membership,
// favorite and history rows inside the caller's transaction.
func deleteSongs(tx *gorm.DB, songIDs []uint64) error {
	if len(songIDs) == 0 {
		return nil
	}
	if err := tx.Exec("DELETE FROM playlist_songs WHERE song_id IN ?", songIDs).Error; err != nil {
		return fmt.Errorf("failed to delete playlist membership rows: %w", err)
	}
	if err := tx.Where("song_id IN ?", songIDs).Delete(&model.FavoriteSong{}).Error; err != nil {
		return fmt.Errorf("failed to delete favorite rows: %w", err)
	}
	if err := tx.Where("song_id IN ?", songIDs).Delete(&model.ListeningHistory{}).Error; err != nil {
		return fmt.Errorf("failed to delete history rows: %w", err)
	}
	if err := tx.Where("id IN ?", songIDs).Delete(&model.Song{}).Error; err != nil {
		return fmt.Errorf("failed to delete songs: %w", err)
	}
	return nil
}
