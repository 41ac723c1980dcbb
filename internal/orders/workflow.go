package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/HanSolo4203/RSA-v4/internal/catalog"
	"github.com/HanSolo4203/RSA-v4/internal/metrics"
	"github.com/HanSolo4203/RSA-v4/internal/pricing"
	"github.com/HanSolo4203/RSA-v4/internal/validation"
)

// SubmissionState is the terminal state of one submission attempt.
type SubmissionState string

const (
	// StateRejected — nothing was persisted. Resubmitting is safe.
	StateRejected SubmissionState = "rejected"
	// StateCommitted — the order and every line landed.
	StateCommitted SubmissionState = "committed"
	// StatePartiallyFailed — the order exists but at least one line is
	// missing. Resubmitting would create a second order.
	StatePartiallyFailed SubmissionState = "partially_failed"
)

// Result is the outcome of Workflow.Submit.
type Result struct {
	State       SubmissionState
	OrderID     string
	FieldErrors map[string]string // set only when State is StateRejected on validation
	Quote       pricing.Quote
	LineIDs     []string // ids of the lines that were written
	Err         error    // store error; *PartialFailureError when partially failed
}

// Writer is the slice of the store the workflow needs.
type Writer interface {
	CreateOrder(ctx context.Context, o Order) error
	CreateLine(ctx context.Context, l OrderLine) error
}

// CatalogReader supplies the offerable services.
type CatalogReader interface {
	ListActive(ctx context.Context) ([]catalog.Service, error)
}

// Workflow turns a draft into a persisted, priced order. The order-create
// write is always resolved before any line write is issued; line writes for
// one submission run concurrently with no ordering between them. There is no
// compensating delete: once the order write lands the workflow runs to
// completion and reports exactly how far it got.
type Workflow struct {
	store    Writer
	catalog  CatalogReader
	validate *validatorv10.Validate
	recorder *metrics.Recorder
	logger   *log.Entry
	nowFunc  func() time.Time
	newID    func() string
}

// NewWorkflow wires a submission workflow. recorder may be nil.
func NewWorkflow(store Writer, cat CatalogReader, recorder *metrics.Recorder, logger *log.Entry) *Workflow {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Workflow{
		store:    store,
		catalog:  cat,
		validate: validation.New(),
		recorder: recorder,
		logger:   logger.WithField("component", "submission"),
		nowFunc:  time.Now,
		newID:    uuid.NewString,
	}
}

// Submit validates, prices and persists a draft.
func (w *Workflow) Submit(ctx context.Context, draft validation.OrderDraft) Result {
	if fieldErrs := validation.ValidateDraft(w.validate, draft); fieldErrs != nil {
		w.recorder.Count(ctx, metrics.MetricOrderRejected, 1)
		return Result{State: StateRejected, FieldErrors: fieldErrs}
	}
	draft = validation.Sanitize(draft)

	services, err := w.catalog.ListActive(ctx)
	if err != nil {
		w.recorder.Count(ctx, metrics.MetricOrderRejected, 1)
		return Result{State: StateRejected, Err: fmt.Errorf("list active services: %w", err)}
	}

	selections := draft.SelectedQuantities()
	offered := map[string]bool{}
	for _, svc := range services {
		offered[svc.ID] = true
	}
	for id := range selections {
		if !offered[id] {
			w.recorder.Count(ctx, metrics.MetricOrderRejected, 1)
			return Result{State: StateRejected, FieldErrors: map[string]string{
				validation.NoServicesKey: "one or more selected services are unavailable",
			}}
		}
	}

	quote := pricing.ComputeTotal(services, selections)
	total := pricing.RoundCurrency(quote.Total)

	order := Order{
		ID:                  w.newID(),
		CustomerName:        draft.CustomerName,
		CustomerEmail:       draft.CustomerEmail,
		CustomerPhone:       draft.CustomerPhone,
		PickupAddress:       draft.PickupAddress,
		PickupDate:          draft.PickupDate,
		PickupTimeSlot:      draft.PickupTimeSlot,
		SpecialInstructions: draft.SpecialInstructions,
		Status:              StatusPending,
		TotalEstimatedCost:  &total,
		CreatedAt:           w.nowFunc().UTC(),
	}

	// The order write must resolve first: every line references its id.
	if err := w.store.CreateOrder(ctx, order); err != nil {
		w.recorder.Count(ctx, metrics.MetricOrderRejected, 1)
		w.logger.WithError(err).WithField("order_id", order.ID).Error("order create failed")
		return Result{State: StateRejected, Err: fmt.Errorf("create order: %w", err)}
	}

	lines := make([]OrderLine, 0, len(quote.Lines))
	for _, lc := range quote.Lines {
		cost := pricing.RoundCurrency(lc.Cost)
		lines = append(lines, OrderLine{
			ID:            w.newID(),
			OrderID:       order.ID,
			ServiceID:     lc.ServiceID,
			Quantity:      lc.Quantity,
			EstimatedCost: &cost,
		})
	}

	// Line writes have no ordering dependency between them; fan out and
	// join. Each slot is owned by exactly one goroutine.
	lineErrs := make([]error, len(lines))
	var wg sync.WaitGroup
	for i := range lines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lineErrs[i] = w.store.CreateLine(ctx, lines[i])
		}(i)
	}
	wg.Wait()

	var lineIDs []string
	var failures []LineFailure
	for i, err := range lineErrs {
		if err != nil {
			failures = append(failures, LineFailure{ServiceID: lines[i].ServiceID, Err: err})
			continue
		}
		lineIDs = append(lineIDs, lines[i].ID)
	}

	if len(failures) > 0 {
		pf := &PartialFailureError{
			OrderID:          order.ID,
			SucceededLineIDs: lineIDs,
			Failures:         failures,
		}
		w.recorder.Count(ctx, metrics.MetricPartialSubmission, 1)
		w.logger.WithFields(log.Fields{
			"order_id":     order.ID,
			"lines_ok":     len(lineIDs),
			"lines_failed": len(failures),
		}).Error("submission partially failed")
		return Result{State: StatePartiallyFailed, OrderID: order.ID, Quote: quote, LineIDs: lineIDs, Err: pf}
	}

	w.recorder.Count(ctx, metrics.MetricOrderSubmitted, 1)
	w.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"lines":    len(lineIDs),
		"total":    total,
	}).Info("order submitted")
	return Result{State: StateCommitted, OrderID: order.ID, Quote: quote, LineIDs: lineIDs}
}
