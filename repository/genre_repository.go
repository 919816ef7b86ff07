package repository

import (
	"context"
	"errors"
	"fmt"

	"melodex/model"

	"gorm.io/gorm"
)

// GenreRepository defines genre data operations.
type GenreRepository interface {
	Create(ctx context.Context, genre *model.Genre) error
	FindByID(ctx context.Context, id uint64) (*model.Genre, error)
	List(ctx context.Context) ([]model.Genre, error)
	Update(ctx context.Context, genre *model.Genre) error
	Delete(ctx context.Context, id uint64) error
}

type gormGenreRepository struct {
	db *gorm.DB
}

// NewGenreRepository creates a GORM-backed GenreRepository.
func NewGenreRepository(gdb *gorm.DB) GenreRepository {
	return &gormGenreRepository{db: gdb}
}

func (r *gormGenreRepository) Create(ctx context.Context, genre *model.Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		return fmt.Errorf("failed to create genre: %w", err)
	}
	return nil
}

func (r *gormGenreRepository) FindByID(ctx context.Context, id uint64) (*model.Genre, error) {
	var genre model.Genre
	err := r.db.WithContext(ctx).First(&genre, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find genre %d: %w", id, err)
	}
	return &genre, nil
}

func (r *gormGenreRepository) List(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func (r *gormGenreRepository) Update(ctx context.Context, genre *model.Genre) error {
	if err := r.db.WithContext(ctx).Save(genre).Error; err != nil {
		return fmt.Errorf("failed to update genre %d: %w", genre.ID, err)
	}
	return nil
}

// Delete removes the genre. Albums and songs keep existing with their
// genre reference cleared.
func (r *gormGenreRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Album{}).Where("genre_id = ?", id).Update("genre_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear genre on albums: %w", err)
		}
		if err := tx.Model(&model.Song{}).Where("genre_id = ?", id).Update("genre_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear genre on songs: %w", err)
		}
		if err := tx.Delete(&model.Genre{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete genre %d: %w", id, err)
		}
		return nil
	})
}
