package listeners

import (
	"context"

	"prepared/internal/models"
	"prepared/internal/reconcile"
	"prepared/pkg/logger"
	"prepared/pkg/util"

	"go.uber.org/zap"
)

// InitEmergencyListeners reconciles statuses after every emergency
// lifecycle change. The pass runs off the request goroutine; a failed pass
// is repaired by the next trigger or the periodic sweep.
func InitEmergencyListeners(r *reconcile.Reconciler) {
	util.Sig().Connect(models.SigEmergencyChanged, func(sender any, params ...any) {
		em, ok := sender.(*models.Emergency)
		if !ok {
			return
		}

		go func() {
			affected, errs := r.OnEmergencyChanged(context.Background(), em.ID)
			if len(errs) > 0 {
				logger.Warn("reconciliation after emergency change left failures",
					zap.String("emergency", em.ID),
					zap.Int("affected", affected),
					zap.Error(reconcile.Partial(errs)))
			}
		}()
	})
}
