package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortiurbani/orti-api/internal/config"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
)

func TestOpen_SQLite(t *testing.T) {
	conf := &config.AppConfig{
		Database: &config.DatabaseConfig{Driver: "sqlite"},
		SQLite:   &config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "orti.db")},
	}

	db, err := Open(conf, "")
	require.NoError(t, err)

	for _, model := range []any{&dao.User{}, &dao.Association{}, &dao.PlotAssignment{}, &dao.SensorReading{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	conf := &config.AppConfig{Database: &config.DatabaseConfig{Driver: "oracle"}}

	_, err := Open(conf, "")
	assert.Error(t, err)
}
