// Package pricing computes estimated costs for a laundry pickup request.
// Everything here is a pure function of its inputs: the submission workflow
// snapshots the results into the persisted order, and later catalog price
// edits never touch historical orders.
package pricing

import (
	"math"

	"github.com/HanSolo4203/RSA-v4/internal/catalog"
)

// LineCost is the priced result for one selected service.
type LineCost struct {
	ServiceID string  `json:"serviceId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Cost      float64 `json:"cost"`
}

// Quote aggregates line costs and the grand total for a selection.
type Quote struct {
	Lines []LineCost `json:"lines"`
	Total float64    `json:"total"`
}

// UnitPrice resolves the effective unit price for a service. Per-item pricing
// wins when both prices are set. A service with neither price contributes a
// zero-cost line; the UI renders that as "contact for pricing".
func UnitPrice(svc catalog.Service) float64 {
	if svc.PricePerItem != nil {
		return *svc.PricePerItem
	}
	if svc.PricePerPound != nil {
		return *svc.PricePerPound
	}
	return 0
}

// ComputeLine returns quantity * unit price. Negative quantities are treated
// as zero rather than rejected: the customer form is deliberately lenient and
// the engine never errors.
func ComputeLine(svc catalog.Service, quantity int) float64 {
	if quantity < 0 {
		quantity = 0
	}
	return float64(quantity) * UnitPrice(svc)
}

// ComputeTotal prices every service with a positive requested quantity.
// Zero-quantity selections are excluded from the result entirely; line order
// follows the order of the services slice.
func ComputeTotal(services []catalog.Service, quantities map[string]int) Quote {
	q := Quote{}
	for _, svc := range services {
		qty, ok := quantities[svc.ID]
		if !ok || qty <= 0 {
			continue
		}
		cost := ComputeLine(svc, qty)
		q.Lines = append(q.Lines, LineCost{
			ServiceID: svc.ID,
			Quantity:  qty,
			UnitPrice: UnitPrice(svc),
			Cost:      cost,
		})
		q.Total += cost
	}
	return q
}

// RoundCurrency rounds to two decimals for presentation. Internal computation
// keeps full floating precision until the snapshot.
func RoundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}
