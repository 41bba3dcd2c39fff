package migration

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/shared/logger"
)

const (
	dialect    = "postgres"
	scriptsDir = "scripts"
)

//go:embed scripts/*.sql
var embedded embed.FS

// Migrator applies the embedded goose migrations. Create writes new scripts
// to sourceDir on disk since the embedded set is read-only.
type Migrator struct {
	sourceDir string
	logger    logger.Interface
}

func NewMigrator(sourceDir string, log logger.Interface) *Migrator {
	return &Migrator{
		sourceDir: sourceDir,
		logger:    log,
	}
}

// Scripts returns the embedded migration file set.
func Scripts() fs.FS {
	sub, err := fs.Sub(embedded, scriptsDir)
	if err != nil {
		panic(err)
	}
	return sub
}

func (m *Migrator) prepare() error {
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

func (m *Migrator) Migrate(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := m.prepare(); err != nil {
		return err
	}

	currentVersion, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		m.logger.Errorw("failed to get current version", "error", err)
		return fmt.Errorf("failed to get current version: %w", err)
	}
	m.logger.Infow("current migration status", "version", currentVersion)

	if err := goose.UpContext(ctx, sqlDB, scriptsDir); err != nil {
		m.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}
	m.logger.Infow("migration completed",
		"from_version", currentVersion,
		"to_version", finalVersion)
	return nil
}

func (m *Migrator) MigrateDown(ctx context.Context, db *gorm.DB, steps int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := m.prepare(); err != nil {
		return err
	}

	m.logger.Infow("starting down migration", "steps", steps)
	for i := 0; i < steps; i++ {
		if err := goose.DownContext(ctx, sqlDB, scriptsDir); err != nil {
			m.logger.Errorw("down migration failed", "error", err, "step", i+1)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}
	return nil
}

func (m *Migrator) GetVersion(ctx context.Context, db *gorm.DB) (int64, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := m.prepare(); err != nil {
		return 0, err
	}
	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

func (m *Migrator) Status(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := m.prepare(); err != nil {
		return err
	}
	if err := goose.StatusContext(ctx, sqlDB, scriptsDir); err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	return nil
}

// Create scaffolds a new SQL migration in the on-disk source directory.
func (m *Migrator) Create(name string) error {
	goose.SetBaseFS(nil)
	goose.SetSequential(true)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Create(nil, m.sourceDir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}
	m.logger.Infow("migration created", "name", name, "dir", m.sourceDir)
	return nil
}
