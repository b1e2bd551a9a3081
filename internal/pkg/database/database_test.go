package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vgardrinier/a2a-marketplace/internal/model"
)

func TestInitDB_SQLiteCreatesDirectory(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "app.db")

	db, err := InitDB("sqlite", dsn)
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(&model.Worker{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestInitDB_UnsupportedType(t *testing.T) {
	_, err := InitDB("oracle", "x")
	assert.Error(t, err)
}
