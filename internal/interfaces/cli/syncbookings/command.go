// Package syncbookings provides the one-shot booking reconciliation command.
package syncbookings

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/coachhub/coachhub/internal/infrastructure/config"
	"github.com/coachhub/coachhub/internal/infrastructure/database"
	httpRouter "github.com/coachhub/coachhub/internal/interfaces/http"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

var (
	env        string
	configPath string
	coachID    string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile bookings with Cal.com and Calendly",
		Long:  `Pull bookings from each coach's scheduling provider and reconcile them with local records. Without --coach every connected coach is synced.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVar(&coachID, "coach", "", "Sync a single coach by user ID")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// One-shot runs never start the maintenance scheduler.
	cfg.Scheduler.Enabled = false

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	gin.SetMode(gin.ReleaseMode)
	c := httpRouter.NewContainer(database.Get(), cfg, log)
	defer c.Shutdown()
	// Reconciliation publishes booking events; Shutdown drains them.
	if err := c.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}

	ctx := cmd.Context()
	if coachID != "" {
		res, err := c.SyncCoach().Execute(ctx, coachID)
		if err != nil {
			return fmt.Errorf("sync coach %s: %w", coachID, err)
		}
		log.Infow("coach synced", "coach_id", coachID,
			"created", res.Created, "updated", res.Updated,
			"cancelled", res.Cancelled, "unchanged", res.Unchanged, "skipped", res.Skipped)
		return nil
	}

	res, err := c.SyncAll().Execute(ctx)
	if err != nil {
		return fmt.Errorf("sync all coaches: %w", err)
	}
	log.Infow("all coaches synced",
		"created", res.Created, "updated", res.Updated,
		"cancelled", res.Cancelled, "unchanged", res.Unchanged, "skipped", res.Skipped)
	return nil
}
