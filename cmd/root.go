package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/suflam/usersvc/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "usersvc",
	Short: "User management API with token-based auth and role-based access",
}

func Execute() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
