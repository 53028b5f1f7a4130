package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/suflam/usersvc/internal/domain"
	"github.com/suflam/usersvc/internal/repository"
	"github.com/suflam/usersvc/internal/service"
	"github.com/suflam/usersvc/pkg/config"
	"github.com/suflam/usersvc/pkg/database"
	"github.com/suflam/usersvc/pkg/events"
)

var (
	adminName     string
	adminCell     string
	adminEmail    string
	adminPassword string
)

// createAdminCmd provisions the first admin directly against the store,
// bypassing the HTTP auth gate. Without it no one can mint an admin token.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin user directly in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		ctx := context.Background()
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		userRepo := repository.NewUserRepository(pool)
		tokenRepo := repository.NewTokenRepository(pool)
		authService := service.NewAuthService(userRepo, tokenRepo, events.NoopPublisher{}, cfg)
		userService := service.NewUserService(userRepo, authService, events.NoopPublisher{})

		user, err := userService.Create(ctx, &domain.CreateUserRequest{
			Name:       adminName,
			CellNumber: adminCell,
			Email:      adminEmail,
			Password:   adminPassword,
			Role:       domain.RoleAdmin,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Admin user created with ID: %d\n", user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)
	createAdminCmd.Flags().StringVar(&adminName, "name", "Admin User", "admin display name")
	createAdminCmd.Flags().StringVar(&adminCell, "cellnumber", "", "admin cellnumber (login identifier)")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	createAdminCmd.MarkFlagRequired("cellnumber")
	createAdminCmd.MarkFlagRequired("email")
	createAdminCmd.MarkFlagRequired("password")
}
