// Package status implements the claim-state reconciler: it decides, for each
// status-change request, whether the remote row is deleted or upserted, and
// reports the confirmed outcome.
package status

import (
	"context"

	"github.com/sirupsen/logrus"

	"giftwell/internal/models"
	"giftwell/internal/repository"
)

// Recorder receives a telemetry event for every confirmed status change and
// a failure event for every rejected gateway mutation.
type Recorder interface {
	StatusChanged(v models.StatusValue)
	GatewayFailure(operation string)
}

// Reconciler maps desired claim states onto gateway mutations.
type Reconciler struct {
	statuses repository.StatusRepository
	recorder Recorder
	logger   *logrus.Logger
}

// NewReconciler creates a reconciler over the given status gateway.
func NewReconciler(statuses repository.StatusRepository, recorder Recorder, logger *logrus.Logger) *Reconciler {
	return &Reconciler{statuses: statuses, recorder: recorder, logger: logger}
}

// SetStatus applies a status-change request and returns the stored outcome.
//
// Setting a regular item to "available" deletes the status row: absence of a
// row is the canonical representation of available, and deleting an absent
// row is a no-op success. A shopping item requested as "available" is
// silently rewritten to "planned": once claimed, a shopping item can only
// move between planned and unavailable. Anything else is an upsert.
//
// On any gateway failure the error is returned as-is and no telemetry is
// emitted; callers must not patch caches on the failure path.
func (r *Reconciler) SetStatus(ctx context.Context, st models.ItemStatus, shoppingItem bool) (models.ItemStatus, error) {
	if st.Status == models.StatusAvailable && !shoppingItem {
		if err := r.statuses.Delete(ctx, st.ItemID, st.UserID); err != nil {
			r.gatewayFailure("status_delete")
			return models.ItemStatus{}, err
		}
	} else {
		if st.Status == models.StatusAvailable && shoppingItem {
			st.Status = models.StatusPlanned
		}
		if err := r.statuses.Upsert(ctx, &st); err != nil {
			r.gatewayFailure("status_upsert")
			return models.ItemStatus{}, err
		}
	}

	r.logger.WithFields(logrus.Fields{
		"item_id": st.ItemID,
		"user_id": st.UserID,
		"status":  st.Status,
	}).Debug("Item status reconciled")

	if r.recorder != nil {
		r.recorder.StatusChanged(st.Status)
	}

	return st, nil
}

func (r *Reconciler) gatewayFailure(operation string) {
	if r.recorder != nil {
		r.recorder.GatewayFailure(operation)
	}
}
