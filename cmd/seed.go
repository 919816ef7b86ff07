package cmd

import (
	"fmt"
	"time"

	"melodex/config"
	"melodex/db"
	"melodex/model"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the catalog with sample data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		gdb, err := db.Connect(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close(gdb)

		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		if err := seedCatalog(gdb); err != nil {
			return err
		}
		fmt.Println("catalog seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seedCatalog(gdb *gorm.DB) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Artist{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("catalog is not empty, refusing to seed")
		}

		genres := []model.Genre{
			{Name: "Pop", Description: "Popular music"},
			{Name: "R&B", Description: "Rhythm and blues"},
			{Name: "Hip-Hop", Description: "Hip-hop and rap"},
			{Name: "Rock", Description: "Rock music"},
			{Name: "Electronic", Description: "Electronic music"},
		}
		if err := tx.Create(&genres).Error; err != nil {
			return err
		}

		artists := []model.Artist{
			{Name: "Aurora Lane", Bio: "Pop singer-songwriter", Verified: true, MonthlyListeners: 15000000},
			{Name: "Nightframe", Bio: "Electronic duo", Verified: true, MonthlyListeners: 7100000},
			{Name: "The Hollow Pines", Bio: "Indie rock band", Verified: true, MonthlyListeners: 4200000},
			{Name: "Marlowe Reyes", Bio: "R&B vocalist", Verified: false, MonthlyListeners: 980000},
		}
		if err := tx.Create(&artists).Error; err != nil {
			return err
		}

		date := func(s string) *time.Time {
			t, _ := time.Parse("2006-01-02", s)
			return &t
		}

		albums := []model.Album{
			{Title: "Glass Horizons", ArtistID: artists[0].ID, GenreID: &genres[0].ID, ReleaseDate: date("2023-05-12"), TotalSongs: 3},
			{Title: "Signal Decay", ArtistID: artists[1].ID, GenreID: &genres[4].ID, ReleaseDate: date("2022-11-04"), TotalSongs: 2},
			{Title: "Evergreen", ArtistID: artists[2].ID, GenreID: &genres[3].ID, ReleaseDate: date("2024-02-23"), TotalSongs: 2},
		}
		if err := tx.Create(&albums).Error; err != nil {
			return err
		}

		songs := []model.Song{
			{Title: "Afterglow", ArtistID: artists[0].ID, AlbumID: &albums[0].ID, GenreID: &genres[0].ID, Duration: 214},
			{Title: "Paper Moons", ArtistID: artists[0].ID, AlbumID: &albums[0].ID, GenreID: &genres[0].ID, Duration: 198},
			{Title: "Last Light", ArtistID: artists[0].ID, AlbumID: &albums[0].ID, GenreID: &genres[0].ID, Duration: 243, IsPremium: true},
			{Title: "Static Bloom", ArtistID: artists[1].ID, AlbumID: &albums[1].ID, GenreID: &genres[4].ID, Duration: 305},
			{Title: "Carrier Wave", ArtistID: artists[1].ID, AlbumID: &albums[1].ID, GenreID: &genres[4].ID, Duration: 287, IsPremium: true},
			{Title: "North of Nowhere", ArtistID: artists[2].ID, AlbumID: &albums[2].ID, GenreID: &genres[3].ID, Duration: 226},
			{Title: "Timberline", ArtistID: artists[2].ID, AlbumID: &albums[2].ID, GenreID: &genres[3].ID, Duration: 252},
			{Title: "Velvet Hours", ArtistID: artists[3].ID, GenreID: &genres[1].ID, Duration: 233},
		}
		if err := tx.Create(&songs).Error; err != nil {
			return err
		}

		plans := []model.SubscriptionPlan{
			{Name: "Free", PlanType: model.PlanFree, Price: 0, MaxUsers: 1, Description: "Ad-supported listening"},
			{Name: "Individual", PlanType: model.PlanIndividual, Price: 9.99, MaxUsers: 1, Description: "Ad-free listening and premium tracks"},
			{Name: "Family", PlanType: model.PlanFamily, Price: 14.99, MaxUsers: 6, Description: "Premium for up to six accounts"},
		}
		return tx.Create(&plans).Error
	})
}
