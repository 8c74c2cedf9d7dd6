package models

import (
	"fmt"
	"time"

	"prepared/internal/geo"
	"prepared/pkg/errors"
	"prepared/pkg/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SigEmergencyChanged fires after any emergency declare/edit/activate/
// deactivate so the reconciler can re-scan. Sender is the *Emergency.
const SigEmergencyChanged = "emergency.changed"

// Emergency is an operator-declared incident with a geographic center and
// radius. Emergencies are never hard-deleted; deactivation keeps the row
// for the audit trail.
type Emergency struct {
	ID          string   `json:"id" gorm:"primaryKey;size:36"`
	Title       string   `json:"title" gorm:"size:255"`
	Category    string   `json:"category" gorm:"size:50"`
	Description string   `json:"description,omitempty" gorm:"size:2048"`
	DeclaredBy  string   `json:"declaredBy" gorm:"size:36;index"`
	PostalCode  string   `json:"postalCode" gorm:"size:16"`
	RegionCode  string   `json:"regionCode" gorm:"size:8"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	RadiusMiles float64  `json:"radiusMiles"`
	IsActive    bool     `json:"isActive" gorm:"index"`

	// Free-text operator guidance forwarded to the agent layer unmodified.
	ResponseDirectives string `json:"responseDirectives,omitempty" gorm:"size:4096"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (e *Emergency) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Point returns the emergency's center for geofence matching.
func (e *Emergency) Point() geo.Point {
	return geo.Point{
		PostalCode: e.PostalCode,
		RegionCode: e.RegionCode,
		Lat:        e.Latitude,
		Lon:        e.Longitude,
	}
}

func validateEmergency(e *Emergency) error {
	if e.RadiusMiles <= 0 {
		return errors.WithCodef(errors.CodeInvalidRadius, "radius must be positive, got %g", e.RadiusMiles)
	}
	return nil
}

// CreateEmergency declares a new emergency and signals the change.
func CreateEmergency(db *gorm.DB, e *Emergency) (*Emergency, error) {
	if err := validateEmergency(e); err != nil {
		return nil, err
	}
	if err := db.Create(e).Error; err != nil {
		return nil, err
	}
	util.Sig().Emit(SigEmergencyChanged, e)
	return e, nil
}

// GetEmergency returns the emergency or a not-found error.
func GetEmergency(db *gorm.DB, id string) (*Emergency, error) {
	var e Emergency
	if err := db.First(&e, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.WithCodef(errors.CodeNotFound, "emergency %s not found", id)
		}
		return nil, err
	}
	return &e, nil
}

// ListActiveEmergencies returns all currently active emergencies.
func ListActiveEmergencies(db *gorm.DB) ([]Emergency, error) {
	var out []Emergency
	if err := db.Where("is_active = ?", true).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListEmergencies returns every emergency, active or not.
func ListEmergencies(db *gorm.DB) ([]Emergency, error) {
	var out []Emergency
	if err := db.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// EmergencyUpdate carries the editable fields; nil pointers are left as-is.
type EmergencyUpdate struct {
	Title              *string  `json:"title"`
	Category           *string  `json:"category"`
	Description        *string  `json:"description"`
	PostalCode         *string  `json:"postalCode"`
	RegionCode         *string  `json:"regionCode"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	RadiusMiles        *float64 `json:"radiusMiles"`
	ResponseDirectives *string  `json:"responseDirectives"`
}

// UpdateEmergency applies an edit and signals the change.
func UpdateEmergency(db *gorm.DB, id string, upd EmergencyUpdate) (*Emergency, error) {
	e, err := GetEmergency(db, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Category != nil {
		e.Category = *upd.Category
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.PostalCode != nil {
		e.PostalCode = *upd.PostalCode
	}
	if upd.RegionCode != nil {
		e.RegionCode = *upd.RegionCode
	}
	if upd.Latitude != nil {
		e.Latitude = upd.Latitude
	}
	if upd.Longitude != nil {
		e.Longitude = upd.Longitude
	}
	if upd.RadiusMiles != nil {
		e.RadiusMiles = *upd.RadiusMiles
	}
	if upd.ResponseDirectives != nil {
		e.ResponseDirectives = *upd.ResponseDirectives
	}

	if err := validateEmergency(e); err != nil {
		return nil, err
	}
	if err := db.Save(e).Error; err != nil {
		return nil, err
	}
	util.Sig().Emit(SigEmergencyChanged, e)
	return e, nil
}

// SetEmergencyActive flips the lifecycle flag and signals the change.
func SetEmergencyActive(db *gorm.DB, id string, active bool) (*Emergency, error) {
	e, err := GetEmergency(db, id)
	if err != nil {
		return nil, err
	}
	if e.IsActive == active {
		return e, nil
	}
	e.IsActive = active
	if err := db.Save(e).Error; err != nil {
		return nil, err
	}
	util.Sig().Emit(SigEmergencyChanged, e)
	return e, nil
}

func (e *Emergency) String() string {
	state := "inactive"
	if e.IsActive {
		state = "active"
	}
	return fmt.Sprintf("%s (%s, %s %s, %g mi, %s)", e.Title, e.Category, e.RegionCode, e.PostalCode, e.RadiusMiles, state)
}
