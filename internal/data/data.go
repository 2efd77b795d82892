package data

import (
	"fmt"
	"time"

	analyticsdata "github.com/leadpilot/leadpilot-backend/internal/analytics/data"
	"github.com/leadpilot/leadpilot-backend/internal/conf"
	historydata "github.com/leadpilot/leadpilot-backend/internal/history/data"
	leaddata "github.com/leadpilot/leadpilot-backend/internal/lead/data"
	redispkg "github.com/leadpilot/leadpilot-backend/internal/pkg/redis"
	templatedata "github.com/leadpilot/leadpilot-backend/internal/template/data"
	userdata "github.com/leadpilot/leadpilot-backend/internal/user/data"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Data holds the shared database and cache handles
type Data struct {
	DB    *gorm.DB
	Redis *redispkg.Client

	logger *zap.Logger
}

// NewData initializes Postgres and Redis connections and runs migrations
func NewData(cfg *conf.Config, logger *zap.Logger) (*Data, func(), error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&userdata.UserPO{},
		&leaddata.SavedLeadPO{},
		&historydata.SavedSearchPO{},
		&templatedata.EmailTemplatePO{},
		&analyticsdata.ActivityPO{},
	); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("database initialized successfully",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName))

	redisClient, err := redispkg.New(&redispkg.Config{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: 10,
	}, logger)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	data := &Data{DB: db, Redis: redisClient, logger: logger}

	cleanup := func() {
		logger.Info("closing data layer")
		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close redis", zap.Error(err))
		}
		if err := sqlDB.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}

	return data, cleanup, nil
}
