package orders

import "time"

// Status is the staff-managed lifecycle of a pickup request. Transitions are
// deliberately permissive: staff may move a request to any status, including
// backwards.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ValidStatus reports whether s is one of the enumerated statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Order represents the item stored in the orders table. Attribute names are
// the external storage contract and must not change.
type Order struct {
	ID                  string    `dynamodbav:"id" json:"id"` // PK
	CustomerName        string    `dynamodbav:"customerName" json:"customerName"`
	CustomerEmail       string    `dynamodbav:"customerEmail" json:"customerEmail"`
	CustomerPhone       string    `dynamodbav:"customerPhone" json:"customerPhone"`
	PickupAddress       string    `dynamodbav:"pickupAddress" json:"pickupAddress"`
	PickupDate          string    `dynamodbav:"pickupDate" json:"pickupDate"` // 2006-01-02
	PickupTimeSlot      string    `dynamodbav:"pickupTimeSlot" json:"pickupTimeSlot"`
	SpecialInstructions string    `dynamodbav:"specialInstructions,omitempty" json:"specialInstructions,omitempty"`
	Status              Status    `dynamodbav:"status" json:"status"`
	TotalEstimatedCost  *float64  `dynamodbav:"totalEstimatedCost,omitempty" json:"totalEstimatedCost,omitempty"`
	InternalNotes       string    `dynamodbav:"internalNotes,omitempty" json:"internalNotes,omitempty"`
	CreatedAt           time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// OrderLine is one service-quantity pairing within an order. All lines for an
// order are written together at submission and never edited afterwards. The
// estimated cost is a snapshot: catalog price edits do not touch it.
type OrderLine struct {
	ID            string   `dynamodbav:"id" json:"id"`           // SK
	OrderID       string   `dynamodbav:"orderId" json:"orderId"` // PK
	ServiceID     string   `dynamodbav:"serviceId" json:"serviceId"`
	Quantity      int      `dynamodbav:"quantity" json:"quantity"`
	EstimatedCost *float64 `dynamodbav:"estimatedCost,omitempty" json:"estimatedCost,omitempty"`
}

// Filter narrows the admin request list.
type Filter struct {
	Status     *Status
	PickupFrom string // inclusive, 2006-01-02; empty means unbounded
	PickupTo   string // inclusive
}

// Matches reports whether o passes the filter.
func (f Filter) Matches(o Order) bool {
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	if f.PickupFrom != "" && o.PickupDate < f.PickupFrom {
		return false
	}
	if f.PickupTo != "" && o.PickupDate > f.PickupTo {
		return false
	}
	return true
}
