package cmd

import (
	"context"
	"errors"
	"fmt"

	"melodex/config"
	"melodex/core/auth"
	"melodex/db"
	"melodex/model"
	"melodex/repository"

	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
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

		users := repository.NewUserRepository(gdb)
		ctx := context.Background()

		existing, err := users.FindByUsername(ctx, adminUsername)
		if err != nil {
			return err
		}
		if existing != nil {
			fmt.Printf("user %q already exists\n", adminUsername)
			return nil
		}

		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		admin := &model.User{
			Username:     adminUsername,
			Email:        adminEmail,
			PasswordHash: hash,
			IsStaff:      true,
			IsSuperuser:  true,
			IsPremium:    true,
		}
		if err := users.Create(ctx, admin); err != nil {
			if errors.Is(err, repository.ErrDuplicateUser) {
				return fmt.Errorf("a user with that username or email already exists")
			}
			return err
		}

		fmt.Printf("created admin user %q (id %d)\n", admin.Username, admin.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "admin", "admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "admin@example.com", "admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (required)")
	createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}
