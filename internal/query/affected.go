package query

import (
	"context"
	"time"

	"prepared/internal/geo"
	"prepared/internal/models"
	"prepared/pkg/cache"
	"prepared/pkg/logger"

	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix  = "affected:"
	defaultCacheTTL = 30 * time.Second
)

// AffectedQuery answers "which active emergencies affect this user". It
// applies the same WithinRadius rule as the reconciler, so alert banners
// and the agent layer see one source of truth for "affected". Results are
// cached briefly; the reconciler invalidates entries as it writes.
type AffectedQuery struct {
	emergencies models.EmergencyStore
	locations   models.LocationStore
	cache       cache.Cache
	ttl         time.Duration
}

func New(emergencies models.EmergencyStore, locations models.LocationStore, c cache.Cache, ttl time.Duration) *AffectedQuery {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &AffectedQuery{
		emergencies: emergencies,
		locations:   locations,
		cache:       c,
		ttl:         ttl,
	}
}

// ListAffectingEmergencies returns the active emergencies with at least one
// of the user's locations inside their radius.
func (q *AffectedQuery) ListAffectingEmergencies(ctx context.Context, userID string) ([]models.Emergency, error) {
	active, err := q.emergencies.ListActiveEmergencies(ctx)
	if err != nil {
		return nil, err
	}

	// The cache holds emergency IDs, re-filtered against the live active
	// list so a deactivation is never masked by a stale entry.
	if q.cache != nil {
		if v, ok := q.cache.Get(ctx, cacheKeyPrefix+userID); ok {
			return filterByID(active, cast.ToStringSlice(v)), nil
		}
	}

	locs, err := q.locations.ListLocationsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		out []models.Emergency
		ids []string
	)
	for i := range active {
		em := &active[i]
		for j := range locs {
			in, err := geo.WithinRadius(locs[j].Point(), em.Point(), em.RadiusMiles)
			if err != nil {
				// unmatched location: conservatively not affected
				logger.Warn("geomatch unavailable in affected query",
					zap.String("user", userID),
					zap.String("location", locs[j].ID),
					zap.String("emergency", em.ID),
					zap.Error(err))
				continue
			}
			if in {
				out = append(out, *em)
				ids = append(ids, em.ID)
				break
			}
		}
	}

	if q.cache != nil {
		if ids == nil {
			ids = []string{}
		}
		if err := q.cache.Set(ctx, cacheKeyPrefix+userID, ids, q.ttl); err != nil {
			logger.Warn("affected cache set failed", zap.String("user", userID), zap.Error(err))
		}
	}
	return out, nil
}

// IsUserAffected reports whether any active emergency currently affects
// the user.
func (q *AffectedQuery) IsUserAffected(ctx context.Context, userID string) (bool, error) {
	affecting, err := q.ListAffectingEmergencies(ctx, userID)
	if err != nil {
		return false, err
	}
	return len(affecting) > 0, nil
}

// Invalidate drops the user's cached answer. Wired as the reconciler's
// write hook.
func (q *AffectedQuery) Invalidate(userID string) {
	if q.cache == nil {
		return
	}
	if err := q.cache.Delete(context.Background(), cacheKeyPrefix+userID); err != nil {
		logger.Warn("affected cache invalidation failed", zap.String("user", userID), zap.Error(err))
	}
}

func filterByID(all []models.Emergency, ids []string) []models.Emergency {
	if len(ids) == 0 {
		return nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Emergency
	for i := range all {
		if want[all[i].ID] {
			out = append(out, all[i])
		}
	}
	return out
}
