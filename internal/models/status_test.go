package models

import (
	"testing"

	"prepared/pkg/errors"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestEnsureUnknownStatus(t *testing.T) {
	db := testDB(t)

	require.NoError(t, EnsureUnknownStatus(db, "u1", "e1", "San Francisco, CA 94105", 10))

	row, err := GetUserStatus(db, "u1", "e1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, StatusUnknown, row.Status)
	assert.Contains(t, row.Notes, "within 10 miles")

	t.Run("conflict refreshes location context only", func(t *testing.T) {
		_, err := UpsertUserStatus(db, "u1", "e1", StatusSafe, "checked in", "old text")
		require.NoError(t, err)

		require.NoError(t, EnsureUnknownStatus(db, "u1", "e1", "Oakland, CA 94610", 10))

		row, err := GetUserStatus(db, "u1", "e1")
		require.NoError(t, err)
		assert.Equal(t, StatusSafe, row.Status, "user report must survive the automatic pass")
		assert.Equal(t, "checked in", row.Notes)
		assert.Equal(t, "Oakland, CA 94610", row.LocationText)
	})

	t.Run("one row per pair", func(t *testing.T) {
		require.NoError(t, EnsureUnknownStatus(db, "u1", "e1", "x", 10))
		var count int64
		require.NoError(t, db.Model(&UserEmergencyStatus{}).
			Where("user_id = ? AND emergency_id = ?", "u1", "e1").Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}

func TestUpsertUserStatus(t *testing.T) {
	db := testDB(t)

	t.Run("rejects statuses outside the enum", func(t *testing.T) {
		_, err := UpsertUserStatus(db, "u1", "e1", "kinda ok", "", "")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidStatus))
	})

	t.Run("insert then overwrite", func(t *testing.T) {
		_, err := UpsertUserStatus(db, "u1", "e1", StatusNeedsHelp, "trapped upstairs", "94105")
		require.NoError(t, err)

		_, err = UpsertUserStatus(db, "u1", "e1", StatusEvacuated, "made it out", "94610")
		require.NoError(t, err)

		row, err := GetUserStatus(db, "u1", "e1")
		require.NoError(t, err)
		assert.Equal(t, StatusEvacuated, row.Status)
		assert.Equal(t, "made it out", row.Notes)
	})
}

func TestMarkStatusResolved(t *testing.T) {
	db := testDB(t)

	// resolving a pair with no row writes nothing
	require.NoError(t, MarkStatusResolved(db, "ghost", "e1"))
	row, err := GetUserStatus(db, "ghost", "e1")
	require.NoError(t, err)
	assert.Nil(t, row)

	_, err = UpsertUserStatus(db, "u1", "e1", StatusSafe, "", "")
	require.NoError(t, err)
	require.NoError(t, MarkStatusResolved(db, "u1", "e1"))

	row, err = GetUserStatus(db, "u1", "e1")
	require.NoError(t, err)
	require.NotNil(t, row.ResolvedAt)
	assert.Equal(t, StatusSafe, row.Status, "resolution freezes, never clears, the status")

	t.Run("idempotent", func(t *testing.T) {
		first := *row.ResolvedAt
		require.NoError(t, MarkStatusResolved(db, "u1", "e1"))
		again, err := GetUserStatus(db, "u1", "e1")
		require.NoError(t, err)
		assert.Equal(t, first.UTC(), again.ResolvedAt.UTC())
	})
}

func TestStatusListings(t *testing.T) {
	db := testDB(t)

	_, err := UpsertUserStatus(db, "u1", "e1", StatusSafe, "", "")
	require.NoError(t, err)
	_, err = UpsertUserStatus(db, "u2", "e1", StatusNeedsHelp, "", "")
	require.NoError(t, err)
	_, err = UpsertUserStatus(db, "u1", "e2", StatusAtHome, "", "")
	require.NoError(t, err)

	byEmergency, err := ListStatusesByEmergency(db, "e1")
	require.NoError(t, err)
	assert.Len(t, byEmergency, 2)

	byUser, err := ListStatusesByUser(db, "u1")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)
}
