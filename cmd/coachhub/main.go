package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/coachhub/coachhub/internal/interfaces/cli/migrate"
	"github.com/coachhub/coachhub/internal/interfaces/cli/server"
	"github.com/coachhub/coachhub/internal/interfaces/cli/syncbookings"
	"github.com/coachhub/coachhub/internal/shared/version"
)

// @title CoachHub API
// @version 1.0
// @description Coaching marketplace API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:     "coachhub",
		Short:   "CoachHub - coaching marketplace backend",
		Long:    `CoachHub serves the coaching marketplace API and ships migration and booking sync tools.`,
		Version: version.Version,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		syncbookings.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
