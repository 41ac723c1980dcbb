// Package export serializes order recordsets for download. encoding/csv
// applies RFC 4180 quoting, so values containing quotes or commas round-trip
// exactly.
package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/HanSolo4203/RSA-v4/internal/orders"
)

// Columns is the fixed export column order.
var Columns = []string{
	"id",
	"customerName",
	"customerEmail",
	"customerPhone",
	"pickupDate",
	"pickupTimeSlot",
	"pickupAddress",
	"status",
	"totalEstimatedCost",
	"specialInstructions",
	"internalNotes",
	"createdAt",
}

// ToCSV renders the orders as CSV text with a header row.
func ToCSV(list []orders.Order) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(Columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, o := range list {
		cost := ""
		if o.TotalEstimatedCost != nil {
			cost = strconv.FormatFloat(*o.TotalEstimatedCost, 'f', 2, 64)
		}
		row := []string{
			o.ID,
			o.CustomerName,
			o.CustomerEmail,
			o.CustomerPhone,
			o.PickupDate,
			o.PickupTimeSlot,
			o.PickupAddress,
			string(o.Status),
			cost,
			o.SpecialInstructions,
			o.InternalNotes,
			o.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return b.String(), nil
}

// Parse reads CSV text produced by ToCSV back into orders. It exists so the
// export format stays a verifiable contract, not a write-only artifact.
func Parse(data string) ([]orders.Order, error) {
	r := csv.NewReader(strings.NewReader(data))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	if len(rows[0]) != len(Columns) {
		return nil, fmt.Errorf("unexpected column count %d", len(rows[0]))
	}
	for i, name := range Columns {
		if rows[0][i] != name {
			return nil, fmt.Errorf("unexpected column %q at position %d", rows[0][i], i)
		}
	}

	var list []orders.Order
	for _, row := range rows[1:] {
		o := orders.Order{
			ID:                  row[0],
			CustomerName:        row[1],
			CustomerEmail:       row[2],
			CustomerPhone:       row[3],
			PickupDate:          row[4],
			PickupTimeSlot:      row[5],
			PickupAddress:       row[6],
			Status:              orders.Status(row[7]),
			SpecialInstructions: row[9],
			InternalNotes:       row[10],
		}
		if row[8] != "" {
			cost, err := strconv.ParseFloat(row[8], 64)
			if err != nil {
				return nil, fmt.Errorf("parse cost %q: %w", row[8], err)
			}
			o.TotalEstimatedCost = &cost
		}
		if row[11] != "" {
			ts, err := time.Parse(time.RFC3339, row[11])
			if err != nil {
				return nil, fmt.Errorf("parse createdAt %q: %w", row[11], err)
			}
			o.CreatedAt = ts
		}
		list = append(list, o)
	}
	return list, nil
}
