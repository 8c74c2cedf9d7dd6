package models

import (
	"context"

	"gorm.io/gorm"
)

// Store interfaces consumed by the engine. The gorm implementations below
// are the production backends; tests substitute in-memory fakes.

type EmergencyStore interface {
	GetEmergency(ctx context.Context, id string) (*Emergency, error)
	ListActiveEmergencies(ctx context.Context) ([]Emergency, error)
}

type LocationStore interface {
	ListLocations(ctx context.Context) ([]Location, error)
	ListLocationsByOwner(ctx context.Context, ownerID string) ([]Location, error)
}

type StatusStore interface {
	EnsureUnknown(ctx context.Context, userID, emergencyID, locationText string, radiusMiles float64) error
	MarkResolved(ctx context.Context, userID, emergencyID string) error
	Upsert(ctx context.Context, userID, emergencyID, status, notes, locationText string) (*UserEmergencyStatus, error)
	Get(ctx context.Context, userID, emergencyID string) (*UserEmergencyStatus, error)
	ListByEmergency(ctx context.Context, emergencyID string) ([]UserEmergencyStatus, error)
	ListByUser(ctx context.Context, userID string) ([]UserEmergencyStatus, error)
}

// Stores bundles the three store interfaces for constructor injection.
type Stores struct {
	Emergencies EmergencyStore
	Locations   LocationStore
	Statuses    StatusStore
}

func NewStores(db *gorm.DB) Stores {
	return Stores{
		Emergencies: &gormEmergencyStore{db: db},
		Locations:   &gormLocationStore{db: db},
		Statuses:    &gormStatusStore{db: db},
	}
}

// Migrate creates or updates the engine's tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Emergency{}, &Location{}, &UserEmergencyStatus{})
}

type gormEmergencyStore struct{ db *gorm.DB }

func (s *gormEmergencyStore) GetEmergency(ctx context.Context, id string) (*Emergency, error) {
	return GetEmergency(s.db.WithContext(ctx), id)
}

func (s *gormEmergencyStore) ListActiveEmergencies(ctx context.Context) ([]Emergency, error) {
	return ListActiveEmergencies(s.db.WithContext(ctx))
}

type gormLocationStore struct{ db *gorm.DB }

func (s *gormLocationStore) ListLocations(ctx context.Context) ([]Location, error) {
	return ListLocations(s.db.WithContext(ctx))
}

func (s *gormLocationStore) ListLocationsByOwner(ctx context.Context, ownerID string) ([]Location, error) {
	return ListLocationsByOwner(s.db.WithContext(ctx), ownerID)
}

type gormStatusStore struct{ db *gorm.DB }

func (s *gormStatusStore) EnsureUnknown(ctx context.Context, userID, emergencyID, locationText string, radiusMiles float64) error {
	return EnsureUnknownStatus(s.db.WithContext(ctx), userID, emergencyID, locationText, radiusMiles)
}

func (s *gormStatusStore) MarkResolved(ctx context.Context, userID, emergencyID string) error {
	return MarkStatusResolved(s.db.WithContext(ctx), userID, emergencyID)
}

func (s *gormStatusStore) Upsert(ctx context.Context, userID, emergencyID, status, notes, locationText string) (*UserEmergencyStatus, error) {
	return UpsertUserStatus(s.db.WithContext(ctx), userID, emergencyID, status, notes, locationText)
}

func (s *gormStatusStore) Get(ctx context.Context, userID, emergencyID string) (*UserEmergencyStatus, error) {
	return GetUserStatus(s.db.WithContext(ctx), userID, emergencyID)
}

func (s *gormStatusStore) ListByEmergency(ctx context.Context, emergencyID string) ([]UserEmergencyStatus, error) {
	return ListStatusesByEmergency(s.db.WithContext(ctx), emergencyID)
}

func (s *gormStatusStore) ListByUser(ctx context.Context, userID string) ([]UserEmergencyStatus, error) {
	return ListStatusesByUser(s.db.WithContext(ctx), userID)
}
