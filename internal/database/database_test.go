package database

import (
	"path/filepath"
	"testing"

	"github.com/isdelr/artverse-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SQLite(t *testing.T) {
	db, err := New("sqlite", filepath.Join(t.TempDir(), "artverse.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, Migrate(db))
	// Migrating twice is a no-op.
	require.NoError(t, Migrate(db))

	for _, table := range []any{&models.User{}, &models.Artwork{}, &models.WishlistEntry{}, &models.DirectMessage{}, &models.Event{},
		&models.ChatGroup{}, &models.ChatGroupMember{}, &models.ChatMessage{}} {
		assert.True(t, db.Migrator().HasTable(table), "%T table missing", table)
	}

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New("mongodb", "mongodb://localhost")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:", sqliteDSN(":memory:"))
	assert.Equal(t, "art.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", sqliteDSN("art.db"))
	assert.Equal(t, "file:art.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", sqliteDSN("file:art.db?mode=rwc"))
}
