package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationContextText(t *testing.T) {
	withCity := Location{City: "San Francisco", RegionCode: "CA", PostalCode: "94105"}
	assert.Equal(t, "San Francisco, CA 94105", withCity.ContextText())

	noCity := Location{RegionCode: "CA", PostalCode: "94105"}
	assert.Equal(t, "CA 94105", noCity.ContextText())
}

func TestListLocations(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.Create(&Location{OwnerID: "u1", PostalCode: "94105", RegionCode: "CA"}).Error)
	require.NoError(t, db.Create(&Location{OwnerID: "u1", PostalCode: "94610", RegionCode: "CA"}).Error)
	require.NoError(t, db.Create(&Location{OwnerID: "u2", PostalCode: "14201", RegionCode: "NY"}).Error)

	all, err := ListLocations(db)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, l := range all {
		assert.NotEmpty(t, l.ID, "ids are assigned on create")
	}

	mine, err := ListLocationsByOwner(db, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
