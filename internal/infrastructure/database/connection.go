package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/shared/config"
	appLogger "github.com/coachhub/coachhub/internal/shared/logger"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	pingTimeout        = 10 * time.Second
)

var (
	db   *gorm.DB
	dbMu sync.RWMutex
)

// Init opens the Postgres connection pool. Supabase's pooler runs in
// transaction mode, so prepared statements are disabled when a URL is used.
func Init(cfg *config.DatabaseConfig) error {
	conn, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.GetDSN(),
		PreferSimpleProtocol: cfg.URL != "",
	}), &gorm.Config{
		Logger:      newQueryLogger(slowQueryThreshold),
		PrepareStmt: cfg.URL == "",
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	dbMu.Lock()
	db = conn
	dbMu.Unlock()

	appLogger.Get().Info("database connection established", "database", cfg.Database, "pooled", cfg.URL != "")
	return nil
}

func Get() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return db
}

// Ping checks the connection, used by the health endpoint.
func Ping(ctx context.Context) error {
	current := Get()
	if current == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := current.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close() error {
	dbMu.Lock()
	current := db
	db = nil
	dbMu.Unlock()

	if current == nil {
		return nil
	}
	sqlDB, err := current.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	appLogger.Get().Info("database connection closed")
	return nil
}
