package cmd

import (
	"fmt"
	"log/slog"

	"farmacia/internal/adapters/out/memory"
	"farmacia/internal/adapters/out/postgres"
	"farmacia/internal/core/ports"
	"farmacia/internal/pkg/telemetry"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenOrderStore connects the configured order store, migrating PostgreSQL schemas first.
// The returned close function releases the connection pool.
func OpenOrderStore(cfg Config, logger *slog.Logger) (ports.UnitOfWorkFactory, func() error, error) {
	if cfg.StorageDriver == StorageMemory {
		store, err := memory.NewOrderStore()
		if err != nil {
			return nil, nil, err
		}
		logger.Warn("Using in-memory order store, orders are lost on restart")
		return store, func() error { return nil }, nil
	}

	sqlDB, err := telemetry.OpenDB("postgres", cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	if err := postgres.Migrate(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("open gorm: %w", err)
	}

	logger.Info("Connected to order store", "host", cfg.DBHost, "database", cfg.DBName)
	return postgres.NewGormUnitOfWorkFactory(gormDB, logger), sqlDB.Close, nil
}
