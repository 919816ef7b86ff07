package repository

import (
	"context"
	"fmt"
	"time"

	"melodex/model"

	"gorm.io/gorm"
)

// EngagementRepository covers favorites and the append-only listening
// history.
type EngagementRepository interface {
	// Favorite marks the song as a favorite. Idempotent: returns false
	// when the pair already existed.
	Favorite(ctx context.Context, userID, songID uint64) (bool, error)
	// Unfavorite removes the pair. Idempotent: returns false when
	// there was nothing to remove.
	Unfavorite(ctx context.Context, userID, songID uint64) (bool, error)
	ListFavorites(ctx context.Context, userID uint64) ([]model.FavoriteSong, error)

	RecordListening(ctx context.Context, entry *model.ListeningHistory) error
	ListHistory(ctx context.Context, userID uint64, limit int) ([]model.ListeningHistory, error)
}

type gormEngagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a GORM-backed EngagementRepository.
func NewEngagementRepository(gdb *gorm.DB) EngagementRepository {
	return &gormEngagementRepository{db: gdb}
}

func (r *gormEngagementRepository) Favorite(ctx context.Context, userID, songID uint64) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.FavoriteSong{}).
			Where("user_id = ? AND song_id = ?", userID, songID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check favorite: %w", err)
		}
		if count > 0 {
			return nil
		}

		fav := &model.FavoriteSong{UserID: userID, SongID: songID, CreatedAt: time.Now()}
		if err := tx.Create(fav).Error; err != nil {
			return fmt.Errorf("failed to create favorite: %w", err)
		}
		created = true
		return nil
	})
	return created, err
}

func (r *gormEngagementRepository) Unfavorite(ctx context.Context, userID, songID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Delete(&model.FavoriteSong{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *gormEngagementRepository) ListFavorites(ctx context.Context, userID uint64) ([]model.FavoriteSong, error) {
	var favorites []model.FavoriteSong
	err := r.db.WithContext(ctx).Preload("Song").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

func (r *gormEngagementRepository) RecordListening(ctx context.Context, entry *model.ListeningHistory) error {
	if entry.PlayedAt.IsZero() {
		entry.PlayedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record listening event: %w", err)
	}
	return nil
}

func (r *gormEngagementRepository) ListHistory(ctx context.Context, userID uint64, limit int) ([]model.ListeningHistory, error) {
	q := r.db.WithContext(ctx).Preload("Song").
		Where("user_id = ?", userID).
		Order("played_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var history []model.ListeningHistory
	if err := q.Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return history, nil
}
