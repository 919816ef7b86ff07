package repository

import (
	"context"
	"errors"
	"fmt"

	"melodex/model"

	"gorm.io/gorm"
)

// AlbumRepository defines album data operations.
type AlbumRepository interface {
	Create(ctx context.Context, album *model.Album) error
	FindByID(ctx context.Context, id uint64) (*model.Album, error)
	List(ctx context.Context) ([]model.Album, error)
	Update(ctx context.Context, album *model.Album) error
	// Delete removes the album and cascades to its songs.
	Delete(ctx context.Context, id uint64) error
}

type gormAlbumRepository struct {
	db *gorm.DB
}

// NewAlbumRepository creates a GORM-backed AlbumRepository.
func NewAlbumRepository(gdb *gorm.DB) AlbumRepository {
	return &gormAlbumRepository{db: gdb}
}

func (r *gormAlbumRepository) Create(ctx context.Context, album *model.Album) error {
	if err := r.db.WithContext(ctx).Create(album).Error; err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}
	return nil
}

func (r *gormAlbumRepository) FindByID(ctx context.Context, id uint64) (*model.Album, error) {
	var album model.Album
	err := r.db.WithContext(ctx).Preload("Artist").Preload("Genre").First(&album, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find album %d: %w", id, err)
	}
	return &album, nil
}

func (r *gormAlbumRepository) List(ctx context.Context) ([]model.Album, error) {
	var albums []model.Album
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&albums).Error; err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, nil
}

func (r *gormAlbumRepository) Update(ctx context.Context, album *model.Album) error {
	if err := r.db.WithContext(ctx).Save(album).Error; err != nil {
		return fmt.Errorf("failed to update album %d: %w", album.ID, err)
	}
	return nil
}

// Delete removes the album together with its songs (explicit cascade,
// matching the artist delete path).
func (r *gormAlbumRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var songIDs []uint64
		if err := tx.Model(&model.Song{}).Where("album_id = ?", id).Pluck("id", &songIDs).Error; err != nil {
			return fmt.Errorf("failed to collect album songs: %w", err)
		}
		if err := deleteSongs(tx, songIDs); err != nil {
			return err
		}
		if err := tx.Delete(&model.Album{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete album %d: %w", id, err)
		}
		return nil
	})
}
