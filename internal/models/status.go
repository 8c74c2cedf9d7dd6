package models

import (
	"fmt"
	"time"

	"prepared/pkg/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Safety status values a user can report. StatusUnknown is what the
// reconciler writes when a user first enters an emergency radius.
const (
	StatusSafe      = "safe"
	StatusNeedsHelp = "needs_help"
	StatusAtHome    = "at_home"
	StatusEvacuated = "evacuated"
	StatusUnknown   = "unknown"
)

var validStatuses = map[string]bool{
	StatusSafe:      true,
	StatusNeedsHelp: true,
	StatusAtHome:    true,
	StatusEvacuated: true,
	StatusUnknown:   true,
}

func ValidStatus(s string) bool {
	return validStatuses[s]
}

// UserEmergencyStatus records one user's safety status for one emergency.
// The composite key enforces at most one row per (user, emergency) pair.
// Rows are never deleted; deactivating the emergency sets ResolvedAt and
// freezes the status value as the historical record.
type UserEmergencyStatus struct {
	UserID       string     `json:"userId" gorm:"primaryKey;size:36"`
	EmergencyID  string     `json:"emergencyId" gorm:"primaryKey;size:36"`
	Status       string     `json:"status" gorm:"size:20"`
	Notes        string     `json:"notes,omitempty" gorm:"size:2048"`
	LocationText string     `json:"locationText,omitempty" gorm:"size:255"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

// EnsureUnknownStatus inserts an automatic "unknown" row for the pair. If a
// row already exists only the location context is refreshed; a user's own
// report is never overwritten back to unknown.
func EnsureUnknownStatus(db *gorm.DB, userID, emergencyID, locationText string, radiusMiles float64) error {
	row := &UserEmergencyStatus{
		UserID:       userID,
		EmergencyID:  emergencyID,
		Status:       StatusUnknown,
		Notes:        fmt.Sprintf("Automatically added due to proximity to emergency (within %g miles)", radiusMiles),
		LocationText: locationText,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "emergency_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"location_text", "updated_at"}),
	}).Create(row).Error
}

// MarkStatusResolved annotates the pair's row after the emergency is
// deactivated. The status value is preserved and the write is idempotent:
// an already-resolved row is left untouched.
func MarkStatusResolved(db *gorm.DB, userID, emergencyID string) error {
	now := time.Now()
	return db.Model(&UserEmergencyStatus{}).
		Where("user_id = ? AND emergency_id = ? AND resolved_at IS NULL", userID, emergencyID).
		Updates(map[string]any{"resolved_at": now, "updated_at": now}).Error
}

// UpsertUserStatus records a self-reported status. The report is
// authoritative and always wins over an automatic unknown row.
func UpsertUserStatus(db *gorm.DB, userID, emergencyID, status, notes, locationText string) (*UserEmergencyStatus, error) {
	if !ValidStatus(status) {
		return nil, errors.WithCodef(errors.CodeInvalidStatus, "invalid status %q", status)
	}
	row := &UserEmergencyStatus{
		UserID:       userID,
		EmergencyID:  emergencyID,
		Status:       status,
		Notes:        notes,
		LocationText: locationText,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "emergency_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "location_text", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

// GetUserStatus returns the row for the pair, nil when none exists.
func GetUserStatus(db *gorm.DB, userID, emergencyID string) (*UserEmergencyStatus, error) {
	var row UserEmergencyStatus
	err := db.First(&row, "user_id = ? AND emergency_id = ?", userID, emergencyID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListStatusesByEmergency returns every status row for one emergency.
func ListStatusesByEmergency(db *gorm.DB, emergencyID string) ([]UserEmergencyStatus, error) {
	var out []UserEmergencyStatus
	if err := db.Where("emergency_id = ?", emergencyID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListStatusesByUser returns every status row for one user.
func ListStatusesByUser(db *gorm.DB, userID string) ([]UserEmergencyStatus, error) {
	var out []UserEmergencyStatus
	if err := db.Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
