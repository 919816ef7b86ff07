package repository

import (
	"context"
	"errors"
	"fmt"

	"melodex/model"

	"gorm.io/gorm"
)

// SongRepository defines song data operations, including the catalog
// filter queries.
type SongRepository interface {
	Create(ctx context.Context, song *model.Song) error
	FindByID(ctx context.Context, id uint64) (*model.Song, error)
	List(ctx context.Context) ([]model.Song, error)
	Update(ctx context.Context, song *model.Song) error
	Delete(ctx context.Context, id uint64) error

	FilterByTitle(ctx context.Context, title string) ([]model.Song, error)
	FilterByArtist(ctx context.Context, artistID uint64) ([]model.Song, error)
	FilterByAlbum(ctx context.Context, albumID uint64) ([]model.Song, error)
	FilterByGenre(ctx context.Context, genreID uint64) ([]model.Song, error)
}

type gormSongRepository struct {
	db *gorm.DB
}

// NewSongRepository creates a GORM-backed SongRepository.
func NewSongRepository(gdb *gorm.DB) SongRepository {
	return &gormSongRepository{db: gdb}
}

func (r *gormSongRepository) Create(ctx context.Context, song *model.Song) error {
	if err := r.db.WithContext(ctx).Create(song).Error; err != nil {
		return fmt.Errorf("failed to create song: %w", err)
	}
	return nil
}

func (r *gormSongRepository) FindByID(ctx context.Context, id uint64) (*model.Song, error) {
	var song model.Song
	err := r.db.WithContext(ctx).Preload("Artist").Preload("Album").Preload("Genre").First(&song, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find song %d: %w", id, err)
	}
	return &song, nil
}

func (r *gormSongRepository) List(ctx context.Context) ([]model.Song, error) {
	var songs []model.Song
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	return songs, nil
}

func (r *gormSongRepository) Update(ctx context.Context, song *model.Song) error {
	if err := r.db.WithContext(ctx).Save(song).Error; err != nil {
		return fmt.Errorf("failed to update song %d: %w", song.ID, err)
	}
	return nil
}

func (r *gormSongRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteSongs(tx, []uint64{id})
	})
}

func (r *gormSongRepository) FilterByTitle(ctx context.Context, title string) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).Where("title LIKE ?", "%"+title+"%").Order("id ASC").Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to filter songs by title: %w", err)
	}
	return songs, nil
}

func (r *gormSongRepository) FilterByArtist(ctx context.Context, artistID uint64) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).Where("artist_id = ?", artistID).Order("id ASC").Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to filter songs by artist: %w", err)
	}
	return songs, nil
}

func (r *gormSongRepository) FilterByAlbum(ctx context.Context, albumID uint64) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).Where("album_id = ?", albumID).Order("id ASC").Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to filter songs by album: %w", err)
	}
	return songs, nil
}

func (r *gormSongRepository) FilterByGenre(ctx context.Context, genreID uint64) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).Where("genre_id = ?", genreID).Order("id ASC").Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to filter songs by genre: %w", err)
	}
	return songs, nil
}
