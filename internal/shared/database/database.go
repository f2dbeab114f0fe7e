package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"busly/internal/shared/config"
	applog "busly/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB holds database connections. Redis is nil when disabled or unreachable.
type DB struct {
	PostgreSQL *gorm.DB
	Redis      *redis.Client
}

// Open connects to PostgreSQL (retrying while it starts up), applies the schema
// when DB_AUTO_MIGRATE is on, and attaches Redis if it answers.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	log := applog.GetDefault()

	pg, err := openPostgres(ctx, cfg)
	if err != nil {
		return nil, err
	}
	db := &DB{PostgreSQL: pg}

	if cfg.Database.AutoMigrate {
		if err := Migrate(pg.WithContext(ctx)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, schedule cache and seat lock are off")
		return db, nil
	}
	rdb, err := openRedis(ctx, cfg.Redis)
	if err != nil {
		// seat exclusion still holds through the unique index
		log.Warn("Redis unavailable, continuing without cache and seat lock", "error", err)
		return db, nil
	}
	db.Redis = rdb
	return db, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger:         newGormLogger(applog.GetDefault(), cfg.IsDevelopment(), cfg.Database.SlowQuery),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	attempts := max(cfg.Database.ConnectRetries, 1)
	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = sqlDB.PingContext(pingCtx)
		cancel()
		if err == nil {
			break
		}
		if attempt == attempts {
			sqlDB.Close()
			return nil, fmt.Errorf("postgres unreachable after %d attempts: %w", attempts, err)
		}

		applog.GetDefault().Warn("PostgreSQL not ready, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			sqlDB.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}

	applog.GetDefault().Info("PostgreSQL connected", "host", cfg.Database.Host, "database", cfg.Database.Name)
	return gdb, nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.PoolSize / 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	applog.GetDefault().Info("Redis connected", "addr", cfg.Addr)
	return rdb, nil
}

// Close closes all database connections
func (db *DB) Close() error {
	var errs []error
	if db.PostgreSQL != nil {
		if sqlDB, err := db.PostgreSQL.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if db.Redis != nil {
		errs = append(errs, db.Redis.Close())
	}
	return errors.Join(errs...)
}

// Ping checks every attached backend. Redis being absent is not an error,
// but Redis failing after it was attached is.
func (db *DB) Ping(ctx context.Context) error {
	var errs []error
	if db.PostgreSQL != nil {
		sqlDB, err := db.PostgreSQL.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		}
	}
	if db.Redis != nil {
		if err := db.Redis.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
