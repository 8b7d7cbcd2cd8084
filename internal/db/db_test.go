package db_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/medium-blog/internal/config"
	"github.com/vaughan-dsouza/medium-blog/internal/db"
	"github.com/vaughan-dsouza/medium-blog/internal/db/dbtest"
	"github.com/vaughan-dsouza/medium-blog/internal/models"
)

func TestMigrate_CreatesTables(t *testing.T) {
	orm := dbtest.New(t)

	assert.True(t, orm.Migrator().HasTable(&models.User{}))
	assert.True(t, orm.Migrator().HasTable(&models.Post{}))
	assert.True(t, orm.Migrator().HasColumn(&models.User{}, "password_hash"))
	assert.True(t, orm.Migrator().HasColumn(&models.Post{}, "author_id"))
}

func TestMigrate_UniqueEmail(t *testing.T) {
	orm := dbtest.New(t)

	require.NoError(t, orm.Create(&models.User{Email: "ada@example.com", Password: "x"}).Error)
	assert.Error(t, orm.Create(&models.User{Email: "ada@example.com", Password: "y"}).Error)
}

func TestConnect_BadDSN(t *testing.T) {
	_, err := db.Connect(context.Background(), "postgres://%zz", config.Default().DB)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse DSN")
}

func TestDB_PingContext(t *testing.T) {
	orm := dbtest.New(t)
	sqlDB, err := orm.DB()
	require.NoError(t, err)

	database := &db.DB{SQL: sqlx.NewDb(sqlDB, "sqlite3"), ORM: orm}
	require.NoError(t, database.PingContext(context.Background()))

	require.NoError(t, database.Close())
	err = database.PingContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health check failed")
}
