// Package playlist implements the playlist membership engine:
// ownership-authorized, idempotent bulk add/remove over a song set.
package playlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"melodex/apperr"
	"melodex/model"

	"gorm.io/gorm"
)

// Requester identifies the caller of a playlist operation.
type Requester struct {
	UserID uint64
	Admin  bool
}

// Messages reported on idempotent no-op mutations.
const (
	msgAlreadyPresent = "all requested songs were already in the playlist"
	msgNotPresent     = "none of the requested songs were in the playlist"
)

// Engine manages playlists and their song membership.
type Engine struct {
	db *gorm.DB
}

// NewEngine creates an Engine.
func NewEngine(gdb *gorm.DB) *Engine {
	return &Engine{db: gdb}
}

// Create creates a playlist for ownerID. An empty name is replaced by
// "Playlist#{N+1}" where N is the number of playlists the owner
// already has; generated names may collide under concurrent creates
// and duplicates are tolerated. songIDs == nil means no song data was
// supplied; an explicitly empty list is a validation error, and every
// supplied ID must reference an existing song. Playlists are private
// unless public is set.
func (e *Engine) Create(ctx context.Context, ownerID uint64, name string, public bool, songIDs []uint64) (*model.Playlist, error) {
	var created *model.Playlist

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var songs []model.Song
		if songIDs != nil {
			if len(songIDs) == 0 {
				return apperr.Validation("songs", "playlist must contain at least one song")
			}
			var err error
			songs, err = loadSongs(tx, songIDs)
			if err != nil {
				return err
			}
		}

		if name == "" {
			var count int64
			if err := tx.Model(&model.Playlist{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count playlists: %w", err)
			}
			name = fmt.Sprintf("Playlist#%d", count+1)
		}

		pl := &model.Playlist{
			OwnerID: ownerID,
			Name:    name,
			Public:  public,
			Songs:   songs,
		}
		if err := tx.Create(pl).Error; err != nil {
			return fmt.Errorf("failed to create playlist: %w", err)
		}
		created = pl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns one playlist. Non-admin requesters may retrieve only
// playlists they own or that are public; anything else reads as not
// found so private playlists do not leak their existence.
func (e *Engine) Get(ctx context.Context, playlistID uint64, req Requester) (*model.Playlist, error) {
	var pl model.Playlist
	err := e.db.WithContext(ctx).Preload("Songs").First(&pl, playlistID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("playlist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist: %w", err)
	}

	if !req.Admin && pl.OwnerID != req.UserID && !pl.Public {
		return nil, apperr.NotFound("playlist")
	}
	return &pl, nil
}

// List returns the playlists visible to the requester: everything for
// admins, own plus public playlists for everyone else.
func (e *Engine) List(ctx context.Context, req Requester) ([]model.Playlist, error) {
	q := e.db.WithContext(ctx).Preload("Songs").Order("id ASC")
	if !req.Admin {
		q = q.Where("owner_id = ? OR public = ?", req.UserID, true)
	}

	var playlists []model.Playlist
	if err := q.Find(&playlists).Error; err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	return playlists, nil
}

// Rename updates the playlist's name and visibility. Owner or admin
// only.
func (e *Engine) Rename(ctx context.Context, playlistID uint64, req Requester, name string, public *bool) (*model.Playlist, error) {
	var updated *model.Playlist

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pl, err := authorize(tx, playlistID, req)
		if err != nil {
			return err
		}

		if name != "" {
			pl.Name = name
		}
		if public != nil {
			pl.Public = *public
		}
		if err := tx.Model(pl).Select("name", "public").Updates(map[string]interface{}{
			"name":   pl.Name,
			"public": pl.Public,
		}).Error; err != nil {
			return fmt.Errorf("failed to update playlist: %w", err)
		}

		if err := tx.Preload("Songs").First(pl, pl.ID).Error; err != nil {
			return fmt.Errorf("failed to reload playlist: %w", err)
		}
		updated = pl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddSongs adds the given songs to the playlist. Authorization is
// checked before the payload is validated; validation is
// all-or-nothing and names the offending IDs. The membership diff is
// computed against a snapshot read inside the mutating transaction, so
// concurrent overlapping adds converge to the union. Re-adding present
// songs is a no-op success; the returned message says so.
func (e *Engine) AddSongs(ctx context.Context, playlistID uint64, req Requester, songIDs []uint64) (*model.Playlist, string, error) {
	var result *model.Playlist
	var message string

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pl, err := authorize(tx, playlistID, req)
		if err != nil {
			return err
		}

		songs, err := loadSongs(tx, songIDs)
		if err != nil {
			return err
		}

		current, err := membershipSet(tx, pl.ID)
		if err != nil {
			return err
		}

		var toAdd []model.Song
		for _, s := range songs {
			if !current[s.ID] {
				toAdd = append(toAdd, s)
			}
		}

		if len(toAdd) > 0 {
			if err := tx.Model(pl).Association("Songs").Append(toAdd); err != nil {
				return fmt.Errorf("failed to add songs to playlist: %w", err)
			}
			message = fmt.Sprintf("%d song(s) added to playlist", len(toAdd))
		} else {
			message = msgAlreadyPresent
		}

		if err := tx.Preload("Songs").First(pl, pl.ID).Error; err != nil {
			return fmt.Errorf("failed to reload playlist: %w", err)
		}
		result = pl
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return result, message, nil
}

// RemoveSongs removes the given songs from the playlist. Same
// authorization and validation rules as AddSongs; only the
// intersection with current membership is removed, and removing absent
// songs is a no-op success. Removal may leave the playlist empty.
func (e *Engine) RemoveSongs(ctx context.Context, playlistID uint64, req Requester, songIDs []uint64) (*model.Playlist, string, error) {
	var result *model.Playlist
	var message string

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pl, err := authorize(tx, playlistID, req)
		if err != nil {
			return err
		}

		songs, err := loadSongs(tx, songIDs)
		if err != nil {
			return err
		}

		current, err := membershipSet(tx, pl.ID)
		if err != nil {
			return err
		}

		var toRemove []model.Song
		for _, s := range songs {
			if current[s.ID] {
				toRemove = append(toRemove, s)
			}
		}

		if len(toRemove) > 0 {
			if err := tx.Model(pl).Association("Songs").Delete(toRemove); err != nil {
				return fmt.Errorf("failed to remove songs from playlist: %w", err)
			}
			message = fmt.Sprintf("%d song(s) removed from playlist", len(toRemove))
		} else {
			message = msgNotPresent
		}

		if err := tx.Preload("Songs").First(pl, pl.ID).Error; err != nil {
			return fmt.Errorf("failed to reload playlist: %w", err)
		}
		result = pl
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return result, message, nil
}

// Delete deletes the playlist and its membership rows. Owner or admin
// only.
func (e *Engine) Delete(ctx context.Context, playlistID uint64, req Requester) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pl, err := authorize(tx, playlistID, req)
		if err != nil {
			return err
		}

		if err := tx.Model(pl).Association("Songs").Clear(); err != nil {
			return fmt.Errorf("failed to clear playlist membership: %w", err)
		}
		if err := tx.Delete(pl).Error; err != nil {
			return fmt.Errorf("failed to delete playlist: %w", err)
		}
		return nil
	})
}

// authorize loads the playlist and enforces the ownership rule for
// mutation: owner or admin, otherwise Forbidden. Reported before any
// payload validation.
func authorize(tx *gorm.DB, playlistID uint64, req Requester) (*model.Playlist, error) {
	var pl model.Playlist
	err := tx.First(&pl, playlistID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("playlist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist: %w", err)
	}

	if !req.Admin && pl.OwnerID != req.UserID {
		return nil, apperr.Forbidden("only the playlist owner or an administrator may modify it")
	}
	return &pl, nil
}

// loadSongs resolves song IDs, failing with a validation error that
// names every missing ID. No partial application: one bad ID aborts
// the whole operation.
func loadSongs(tx *gorm.DB, songIDs []uint64) ([]model.Song, error) {
	if len(songIDs) == 0 {
		return nil, nil
	}

	var songs []model.Song
	if err := tx.Where("id IN ?", songIDs).Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to load songs: %w", err)
	}

	if len(songs) != len(uniqueIDs(songIDs)) {
		found := make(map[uint64]bool, len(songs))
		for _, s := range songs {
			found[s.ID] = true
		}
		var missing []string
		for _, id := range uniqueIDs(songIDs) {
			if !found[id] {
				missing = append(missing, fmt.Sprintf("%d", id))
			}
		}
		return nil, apperr.Validation("songs",
			fmt.Sprintf("unknown song IDs: %s", strings.Join(missing, ", ")))
	}
	return songs, nil
}

// membershipSet reads the playlist's current song IDs inside the
// caller's transaction.
func membershipSet(tx *gorm.DB, playlistID uint64) (map[uint64]bool, error) {
	var ids []uint64
	err := tx.Table("playlist_songs").
		Where("playlist_id = ?", playlistID).
		Pluck("song_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist membership: %w", err)
	}

	set := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	var out []uint64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
