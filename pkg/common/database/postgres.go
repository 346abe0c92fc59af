package database

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/wellnesshub/platform/pkg/common/config"
	"github.com/wellnesshub/platform/pkg/common/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
)

// GetPostgres returns the shared connection handle. All record timestamps
// are written in UTC so the windowed organization queries compare cleanly.
func GetPostgres() (*gorm.DB, error) {
	var err error
	dbOnce.Do(func() {
		cfg := config.Load()
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.PostgresHost,
			cfg.PostgresUser,
			cfg.PostgresPassword,
			cfg.PostgresDB,
			cfg.PostgresPort,
			cfg.PostgresSSLMode,
		)

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			NowFunc: func() time.Time { return time.Now().UTC() },
		})
		if err != nil {
			logger.Log.WithError(err).Error("failed to connect to postgres")
			return
		}

		var sqlDB *sql.DB
		sqlDB, err = db.DB()
		if err != nil {
			logger.Log.WithError(err).Error("failed to configure postgres pool")
			return
		}
		sqlDB.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.PostgresMaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.PostgresConnMaxLifetime)

		logger.Log.WithFields(map[string]interface{}{
			"database":       cfg.PostgresDB,
			"max_open_conns": cfg.PostgresMaxOpenConns,
		}).Info("connected to postgres")
	})

	return db, err
}

func ClosePostgres() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
