package repository

import (
	"context"
	"testing"
	"time"

	"melodex/model"

	"gorm.io/gorm"
)

func seedEngagement(t *testing.T, gdb *gorm.DB) (user model.User, songs []model.Song) {
	t.Helper()
	user = model.User{Username: "ana", Email: "ana@example.com", PasswordHash: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	artist := model.Artist{Name: "Aurora Lane"}
	if err := gdb.Create(&artist).Error; err != nil {
		t.Fatalf("create artist: %v", err)
	}
	songs = []model.Song{
		{Title: "Afterglow", ArtistID: artist.ID},
		{Title: "Paper Moons", ArtistID: artist.ID},
	}
	if err := gdb.Create(&songs).Error; err != nil {
		t.Fatalf("create songs: %v", err)
	}
	return user, songs
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	user, songs := seedEngagement(t, gdb)
	repo := NewEngagementRepository(gdb)

	t.Run("favoriting is idempotent", func(t *testing.T) {
		created, err := repo.Favorite(ctx, user.ID, songs[0].ID)
		if err != nil {
			t.Fatalf("Favorite: %v", err)
		}
		if !created {
			t.Fatal("first favorite should report created")
		}

		created, err = repo.Favorite(ctx, user.ID, songs[0].ID)
		if err != nil {
			t.Fatalf("Favorite again: %v", err)
		}
		if created {
			t.Fatal("second favorite should be a no-op")
		}

		if n := count(t, gdb, &model.FavoriteSong{}); n != 1 {
			t.Fatalf("expected one favorite row, got %d", n)
		}
	})

	t.Run("listing preloads songs", func(t *testing.T) {
		favorites, err := repo.ListFavorites(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListFavorites: %v", err)
		}
		if len(favorites) != 1 || favorites[0].Song == nil || favorites[0].Song.Title != "Afterglow" {
			t.Fatalf("unexpected favorites %+v", favorites)
		}
	})

	t.Run("unfavoriting reports whether anything was removed", func(t *testing.T) {
		removed, err := repo.Unfavorite(ctx, user.ID, songs[0].ID)
		if err != nil {
			t.Fatalf("Unfavorite: %v", err)
		}
		if !removed {
			t.Fatal("expected a removal")
		}

		removed, err = repo.Unfavorite(ctx, user.ID, songs[0].ID)
		if err != nil {
			t.Fatalf("Unfavorite again: %v", err)
		}
		if removed {
			t.Fatal("nothing left to remove")
		}
	})
}

func TestListeningHistory(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	user, songs := seedEngagement(t, gdb)
	repo := NewEngagementRepository(gdb)

	base := time.Now().Add(-time.Hour)
	entries := []model.ListeningHistory{
		{UserID: user.ID, SongID: songs[0].ID, PlayedAt: base, DurationListened: 30},
		{UserID: user.ID, SongID: songs[1].ID, PlayedAt: base.Add(time.Minute), DurationListened: 60},
		{UserID: user.ID, SongID: songs[0].ID, PlayedAt: base.Add(2 * time.Minute), DurationListened: 90},
	}
	for i := range entries {
		if err := repo.RecordListening(ctx, &entries[i]); err != nil {
			t.Fatalf("RecordListening: %v", err)
		}
	}

	t.Run("history is append-only, repeats included", func(t *testing.T) {
		history, err := repo.ListHistory(ctx, user.ID, 0)
		if err != nil {
			t.Fatalf("ListHistory: %v", err)
		}
		if len(history) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(history))
		}
		if history[0].DurationListened != 90 {
			t.Fatal("expected newest first")
		}
	})

	t.Run("limit caps the page", func(t *testing.T) {
		history, err := repo.ListHistory(ctx, user.ID, 2)
		if err != nil {
			t.Fatalf("ListHistory: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(history))
		}
	})

	t.Run("played_at defaults to now", func(t *testing.T) {
		entry := &model.ListeningHistory{UserID: user.ID, SongID: songs[0].ID, DurationListened: 10}
		if err := repo.RecordListening(ctx, entry); err != nil {
			t.Fatalf("RecordListening: %v", err)
		}
		if entry.PlayedAt.IsZero() {
			t.Fatal("expected a default timestamp")
		}
	})
}
