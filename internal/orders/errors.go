package orders

import (
	"errors"
	"fmt"
)

// ErrOrderNotFound is returned when an update or read targets a missing order id.
var ErrOrderNotFound = errors.New("order not found")

// LineFailure records one order-line write that did not land.
type LineFailure struct {
	ServiceID string
	Err       error
}

// PartialFailureError signals that the order record exists but at least one
// of its lines was not written. It must stay distinguishable from a clean
// failure: a naive retry after this error would create a second order.
type PartialFailureError struct {
	OrderID          string
	SucceededLineIDs []string
	Failures         []LineFailure
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("order %s persisted with %d of %d lines missing",
		e.OrderID, len(e.Failures), len(e.Failures)+len(e.SucceededLineIDs))
}

// IsPartialFailure checks whether err carries a PartialFailureError.
func IsPartialFailure(err error) bool {
	var pf *PartialFailureError
	return errors.As(err, &pf)
}
