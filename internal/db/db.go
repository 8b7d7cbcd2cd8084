package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vaughan-dsouza/medium-blog/internal/config"
	"github.com/vaughan-dsouza/medium-blog/internal/models"
)

// DB bundles the pooled connection with the ORM layered on top of it.
// Both share the same *sql.DB, so there is a single pool per process.
type DB struct {
	SQL *sqlx.DB
	ORM *gorm.DB
}

func Connect(ctx context.Context, dsn string, pool config.DatabaseConfig) (*sqlx.DB, error) {
	// Parse DSN → pgx config struct
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("db: failed to parse DSN: %w", err)
	}

	// Fail fast on startup if PG is unreachable
	cfg.ConnectTimeout = 5 * time.Second

	sqlDB := stdlib.OpenDB(*cfg)
	db := sqlx.NewDb(sqlDB, "pgx")

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db: failed to connect to Postgres: %w", err)
	}

	if err := healthCheck(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// healthCheck runs a round trip query, which a bare ping does not.
func healthCheck(ctx context.Context, db *sqlx.DB) error {
	var one int
	if err := db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return fmt.Errorf("db: health check failed: %w", err)
	}
	return nil
}

// Open connects to Postgres, layers gorm over the pool and migrates the schema.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*DB, error) {
	sqlxDB, err := Connect(ctx, cfg.DatabaseURL, cfg.DB)
	if err != nil {
		return nil, err
	}

	orm, err := NewORM(sqlxDB.DB, log)
	if err != nil {
		_ = sqlxDB.Close()
		return nil, err
	}

	if err := Migrate(orm.WithContext(ctx)); err != nil {
		_ = sqlxDB.Close()
		return nil, err
	}

	return &DB{SQL: sqlxDB, ORM: orm}, nil
}

func NewORM(sqlDB *sql.DB, log zerolog.Logger) (*gorm.DB, error) {
	orm, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: NewGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("db: failed to open gorm: %w", err)
	}
	return orm, nil
}

func Migrate(orm *gorm.DB) error {
	if err := orm.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}

// PingContext backs the /healthz endpoint.
func (d *DB) PingContext(ctx context.Context) error {
	return healthCheck(ctx, d.SQL)
}

func (d *DB) Close() error {
	return d.SQL.Close()
}
