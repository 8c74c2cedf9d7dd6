package models

import (
	"fmt"
	"strings"
	"time"

	"prepared/internal/geo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is a user-owned address record. The surrounding application owns
// its CRUD UI; the engine only reads locations during matching.
type Location struct {
	ID         string   `json:"id" gorm:"primaryKey;size:36"`
	OwnerID    string   `json:"ownerId" gorm:"size:36;index"`
	Label      string   `json:"label" gorm:"size:100"`
	City       string   `json:"city" gorm:"size:100"`
	PostalCode string   `json:"postalCode" gorm:"size:16"`
	RegionCode string   `json:"regionCode" gorm:"size:8"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Point returns the location's position for geofence matching.
func (l *Location) Point() geo.Point {
	return geo.Point{
		PostalCode: l.PostalCode,
		RegionCode: l.RegionCode,
		Lat:        l.Latitude,
		Lon:        l.Longitude,
	}
}

// ContextText renders the human-readable place string stored alongside an
// automatically created status row, e.g. "San Francisco, CA 94105".
func (l *Location) ContextText() string {
	if strings.TrimSpace(l.City) == "" {
		return fmt.Sprintf("%s %s", l.RegionCode, l.PostalCode)
	}
	return fmt.Sprintf("%s, %s %s", l.City, l.RegionCode, l.PostalCode)
}

// ListLocations returns every location system-wide (reconciliation batch).
func ListLocations(db *gorm.DB) ([]Location, error) {
	var out []Location
	if err := db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListLocationsByOwner returns one user's locations (per-user queries).
func ListLocationsByOwner(db *gorm.DB, ownerID string) ([]Location, error) {
	var out []Location
	if err := db.Where("owner_id = ?", ownerID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
