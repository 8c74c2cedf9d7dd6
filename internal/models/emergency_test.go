package models

import (
	"testing"

	"prepared/pkg/errors"
	"prepared/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEmergency() *Emergency {
	return &Emergency{
		Title:       "Warehouse fire",
		Category:    "fire",
		DeclaredBy:  "op-1",
		PostalCode:  "94105",
		RegionCode:  "CA",
		RadiusMiles: 10,
		IsActive:    true,
	}
}

func TestCreateEmergency(t *testing.T) {
	db := testDB(t)

	t.Run("assigns an id and signals the change", func(t *testing.T) {
		var signaled []string
		util.Sig().Connect(SigEmergencyChanged, func(sender any, params ...any) {
			if em, ok := sender.(*Emergency); ok {
				signaled = append(signaled, em.ID)
			}
		})

		em, err := CreateEmergency(db, sampleEmergency())
		require.NoError(t, err)
		assert.NotEmpty(t, em.ID)
		assert.Contains(t, signaled, em.ID)
	})

	t.Run("rejects a non-positive radius", func(t *testing.T) {
		bad := sampleEmergency()
		bad.RadiusMiles = 0
		_, err := CreateEmergency(db, bad)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidRadius))
	})
}

func TestGetEmergency(t *testing.T) {
	db := testDB(t)

	_, err := GetEmergency(db, "missing")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	em, err := CreateEmergency(db, sampleEmergency())
	require.NoError(t, err)
	got, err := GetEmergency(db, em.ID)
	require.NoError(t, err)
	assert.Equal(t, em.Title, got.Title)
}

func TestUpdateEmergency(t *testing.T) {
	db := testDB(t)
	em, err := CreateEmergency(db, sampleEmergency())
	require.NoError(t, err)

	t.Run("applies only the provided fields", func(t *testing.T) {
		radius := 25.0
		directives := "Shelter in place until cleared."
		got, err := UpdateEmergency(db, em.ID, EmergencyUpdate{
			RadiusMiles:        &radius,
			ResponseDirectives: &directives,
		})
		require.NoError(t, err)
		assert.Equal(t, 25.0, got.RadiusMiles)
		assert.Equal(t, directives, got.ResponseDirectives)
		assert.Equal(t, "Warehouse fire", got.Title)
	})

	t.Run("rejects an edit to a non-positive radius", func(t *testing.T) {
		radius := -1.0
		_, err := UpdateEmergency(db, em.ID, EmergencyUpdate{RadiusMiles: &radius})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidRadius))
	})
}

func TestSetEmergencyActive(t *testing.T) {
	db := testDB(t)
	em, err := CreateEmergency(db, sampleEmergency())
	require.NoError(t, err)

	got, err := SetEmergencyActive(db, em.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := ListActiveEmergencies(db)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := ListEmergencies(db)
	require.NoError(t, err)
	assert.Len(t, all, 1, "deactivated emergencies stay on record")
}
