package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"prepared/internal/geo"
	"prepared/internal/models"
	"prepared/pkg/errors"
	"prepared/pkg/logger"
	"prepared/pkg/metrics"

	"go.uber.org/zap"
)

const defaultWorkers = 8

// Reconciler keeps UserEmergencyStatus consistent with the current
// emergency and location data. It is safe to re-run: all writes are
// conflict-keyed upserts or idempotent annotations.
type Reconciler struct {
	emergencies models.EmergencyStore
	locations   models.LocationStore
	statuses    models.StatusStore
	workers     int
	invalidate  func(userID string)
}

// New builds a reconciler over the injected stores. workers bounds the
// write fan-out of a batch pass; values below 1 select the default.
func New(emergencies models.EmergencyStore, locations models.LocationStore, statuses models.StatusStore, workers int) *Reconciler {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Reconciler{
		emergencies: emergencies,
		locations:   locations,
		statuses:    statuses,
		workers:     workers,
	}
}

// SetInvalidator registers a hook called with each user ID whose status
// row was written, used to drop read-side cache entries.
func (r *Reconciler) SetInvalidator(fn func(userID string)) {
	r.invalidate = fn
}

// WriteFailure is one user's failed status write within a batch pass.
type WriteFailure struct {
	UserID string
	Err    error
}

func (f WriteFailure) Error() string {
	return fmt.Sprintf("status write for user %s failed: %v", f.UserID, f.Err)
}

func (f WriteFailure) Unwrap() error { return f.Err }

// Partial folds the per-user failures of a pass into a single coded error,
// nil when the pass was clean. The failed user IDs are listed so the
// caller knows what a re-run will repair.
func Partial(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(errs))
	for _, err := range errs {
		if f, ok := err.(WriteFailure); ok {
			ids = append(ids, f.UserID)
		}
	}
	return errors.WithCodef(errors.CodePartialReconciliation,
		"%d status writes failed (users: %s)", len(errs), strings.Join(ids, ", "))
}

// OnEmergencyChanged scans every location against the given emergency and
// upserts or annotates the matching users' status rows. It returns the
// number of affected users and any per-user write failures; a failure for
// one user never blocks the rest of the batch.
func (r *Reconciler) OnEmergencyChanged(ctx context.Context, emergencyID string) (int, []error) {
	start := time.Now()
	defer func() {
		metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	em, err := r.emergencies.GetEmergency(ctx, emergencyID)
	if err != nil {
		metrics.ReconcileRunsTotal.WithLabelValues("error").Inc()
		return 0, []error{err}
	}
	if em.RadiusMiles <= 0 {
		metrics.ReconcileRunsTotal.WithLabelValues("error").Inc()
		return 0, []error{errors.WithCodef(errors.CodeInvalidRadius, "emergency %s has radius %g", em.ID, em.RadiusMiles)}
	}

	locs, err := r.locations.ListLocations(ctx)
	if err != nil {
		metrics.ReconcileRunsTotal.WithLabelValues("error").Inc()
		return 0, []error{errors.Wrap(err, "listing locations")}
	}

	// A user with several locations in range still gets exactly one row,
	// keyed on the first matching location's context.
	affected := make(map[string]string)
	center := em.Point()
	for i := range locs {
		loc := &locs[i]
		path := "postal"
		if loc.Point().HasCoordinates() && center.HasCoordinates() {
			path = "haversine"
		}
		in, err := geo.WithinRadius(loc.Point(), center, em.RadiusMiles)
		if err != nil {
			// conservative: a location that cannot be matched is neither
			// marked safe nor affected
			metrics.GeomatchPathTotal.WithLabelValues("unavailable").Inc()
			logger.Warn("geomatch unavailable, skipping location",
				zap.String("location", loc.ID),
				zap.String("emergency", em.ID),
				zap.Error(err))
			continue
		}
		metrics.GeomatchPathTotal.WithLabelValues(path).Inc()
		if in {
			if _, seen := affected[loc.OwnerID]; !seen {
				affected[loc.OwnerID] = loc.ContextText()
			}
		}
	}

	if len(affected) == 0 {
		metrics.ReconcileRunsTotal.WithLabelValues("ok").Inc()
		logger.Info("reconciliation pass complete",
			zap.String("emergency", em.ID),
			zap.Bool("active", em.IsActive),
			zap.Int("affected", 0))
		return 0, nil
	}

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
		sem  = make(chan struct{}, r.workers)
	)
	for ownerID, locText := range affected {
		wg.Add(1)
		sem <- struct{}{}
		go func(ownerID, locText string) {
			defer wg.Done()
			defer func() { <-sem }()

			var werr error
			if em.IsActive {
				werr = r.statuses.EnsureUnknown(ctx, ownerID, em.ID, locText, em.RadiusMiles)
			} else {
				werr = r.statuses.MarkResolved(ctx, ownerID, em.ID)
			}
			if werr != nil {
				metrics.StatusUpsertFailures.Inc()
				mu.Lock()
				errs = append(errs, WriteFailure{UserID: ownerID, Err: werr})
				mu.Unlock()
				return
			}
			r.invalidateUser(ownerID)
		}(ownerID, locText)
	}
	wg.Wait()

	metrics.AffectedUsersTotal.Add(float64(len(affected)))
	result := "ok"
	if len(errs) > 0 {
		result = "partial"
	}
	metrics.ReconcileRunsTotal.WithLabelValues(result).Inc()

	logger.Info("reconciliation pass complete",
		zap.String("emergency", em.ID),
		zap.Bool("active", em.IsActive),
		zap.Int("affected", len(affected)),
		zap.Int("failures", len(errs)))
	return len(affected), errs
}

// OnUserReportsStatus records a self-reported status for the pair. The
// report is authoritative regardless of whether the user is currently
// geofenced as affected.
func (r *Reconciler) OnUserReportsStatus(ctx context.Context, userID, emergencyID, status, notes, locationText string) (*models.UserEmergencyStatus, error) {
	if !models.ValidStatus(status) {
		return nil, errors.WithCodef(errors.CodeInvalidStatus, "invalid status %q", status)
	}
	if _, err := r.emergencies.GetEmergency(ctx, emergencyID); err != nil {
		return nil, err
	}

	row, err := r.statuses.Upsert(ctx, userID, emergencyID, status, notes, locationText)
	if err != nil {
		return nil, errors.Wrapf(err, "recording status for user %s", userID)
	}
	r.invalidateUser(userID)

	logger.Info("user status recorded",
		zap.String("user", userID),
		zap.String("emergency", emergencyID),
		zap.String("status", status))
	return row, nil
}

// ReconcileAll re-runs the pass for every active emergency. Used by the
// periodic sweep to repair any bounded staleness left by partial failures.
func (r *Reconciler) ReconcileAll(ctx context.Context) error {
	active, err := r.emergencies.ListActiveEmergencies(ctx)
	if err != nil {
		return errors.Wrap(err, "listing active emergencies")
	}
	var failed int
	for i := range active {
		if _, errs := r.OnEmergencyChanged(ctx, active[i].ID); len(errs) > 0 {
			failed += len(errs)
		}
	}
	if failed > 0 {
		return errors.WithCodef(errors.CodePartialReconciliation, "sweep finished with %d failed writes", failed)
	}
	return nil
}

func (r *Reconciler) invalidateUser(userID string) {
	if r.invalidate != nil {
		r.invalidate(userID)
	}
}
