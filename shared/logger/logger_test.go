package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestLogger(t *testing.T) (*Logger, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	l, err := New(db)
	require.NoError(t, err)
	return l, db
}

func TestAuditLogWrite(t *testing.T) {
	l, db := newTestLogger(t)

	require.NoError(t, l.Info("login", "user logged in", map[string]interface{}{"user_id": 1}))
	require.NoError(t, l.Warn("login_failed", "invalid credentials", nil))

	var entries []AuthLog
	require.NoError(t, db.Order("id").Find(&entries).Error)
	require.Len(t, entries, 2)

	assert.Equal(t, INFO, entries[0].Level)
	assert.Equal(t, "login", entries[0].Event)
	assert.JSONEq(t, `{"user_id":1}`, string(entries[0].Fields))

	assert.Equal(t, WARN, entries[1].Level)
	assert.Empty(t, entries[1].Fields)
}
