package orders

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/HanSolo4203/RSA-v4/internal/metrics"
	"github.com/HanSolo4203/RSA-v4/internal/notify"
)

// Updater is the slice of the store the admin operations need.
type Updater interface {
	Get(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateNotes(ctx context.Context, id, notes string) error
}

// Notifier publishes a status-change notification.
type Notifier interface {
	Publish(ctx context.Context, sc notify.StatusChange) error
}

// UpdateRequest carries the staff-editable order fields. Nil means "leave as is".
type UpdateRequest struct {
	Status        *Status `json:"status,omitempty"`
	InternalNotes *string `json:"internalNotes,omitempty"`
}

// BatchFailure is one order id whose update did not land.
type BatchFailure struct {
	ID  string `json:"id"`
	Err error  `json:"-"`
}

// BatchResult aggregates per-id outcomes of a batch update. Successes are
// never rolled back when siblings fail.
type BatchResult struct {
	Succeeded []string
	Failed    []BatchFailure
}

// Admin performs the staff-side order mutations.
type Admin struct {
	store    Updater
	notifier Notifier
	recorder *metrics.Recorder
	logger   *log.Entry
}

// NewAdmin wires the admin operations. notifier and recorder may be nil.
func NewAdmin(store Updater, notifier Notifier, recorder *metrics.Recorder, logger *log.Entry) *Admin {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Admin{
		store:    store,
		notifier: notifier,
		recorder: recorder,
		logger:   logger.WithField("component", "admin"),
	}
}

// UpdateOne applies a status and/or notes change to a single order. When the
// status actually changes, a notification is published; a publish failure is
// logged and reported via the returned warning but never undoes the status
// write that already committed.
func (a *Admin) UpdateOne(ctx context.Context, id string, req UpdateRequest) (*Order, error) {
	order, err := a.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	statusChanged := false
	if req.Status != nil && *req.Status != order.Status {
		if err := a.store.UpdateStatus(ctx, id, *req.Status); err != nil {
			return nil, err
		}
		order.Status = *req.Status
		statusChanged = true
	}
	if req.InternalNotes != nil {
		if err := a.store.UpdateNotes(ctx, id, *req.InternalNotes); err != nil {
			return nil, err
		}
		order.InternalNotes = *req.InternalNotes
	}

	if statusChanged && a.notifier != nil {
		sc := notify.StatusChange{
			CustomerEmail:       order.CustomerEmail,
			OrderID:             order.ID,
			NewStatus:           string(order.Status),
			PickupDate:          order.PickupDate,
			PickupTimeSlot:      order.PickupTimeSlot,
			SpecialInstructions: order.SpecialInstructions,
		}
		if order.TotalEstimatedCost != nil {
			sc.TotalCost = *order.TotalEstimatedCost
		}
		if err := a.notifier.Publish(ctx, sc); err != nil {
			// Non-fatal: the status write is already committed.
			a.logger.WithError(err).WithField("order_id", id).Warn("notification publish failed")
		}
	}

	return order, nil
}

// BatchUpdate issues one update per order id, concurrently, and aggregates
// per-id outcomes. One id failing aborts nothing. Batch updates do not send
// notifications; staff use them for bulk bookkeeping.
func (a *Admin) BatchUpdate(ctx context.Context, ids []string, status Status, notePatch *string) BatchResult {
	outcomes := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			if err := a.store.UpdateStatus(ctx, id, status); err != nil {
				outcomes[i] = err
				return
			}
			if notePatch != nil {
				outcomes[i] = a.store.UpdateNotes(ctx, id, *notePatch)
			}
		}(i, id)
	}
	wg.Wait()

	var res BatchResult
	for i, err := range outcomes {
		if err != nil {
			res.Failed = append(res.Failed, BatchFailure{ID: ids[i], Err: err})
			continue
		}
		res.Succeeded = append(res.Succeeded, ids[i])
	}

	a.recorder.Count(ctx, metrics.MetricBatchUpdateOK, float64(len(res.Succeeded)))
	if len(res.Failed) > 0 {
		a.recorder.Count(ctx, metrics.MetricBatchUpdateFailed, float64(len(res.Failed)))
	}
	a.logger.WithFields(log.Fields{
		"requested": len(ids),
		"succeeded": len(res.Succeeded),
		"failed":    len(res.Failed),
		"status":    status,
	}).Info("batch status update")
	return res
}
