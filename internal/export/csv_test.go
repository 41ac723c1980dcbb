package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HanSolo4203/RSA-v4/internal/orders"
)

func fptr(v float64) *float64 { return &v }

func sampleOrder() orders.Order {
	return orders.Order{
		ID:                  "ord-1",
		CustomerName:        "Jane O'Brien",
		CustomerEmail:       "jane@example.com",
		CustomerPhone:       "+1 555 123 4567",
		PickupAddress:       "123 Main Street, Apt 4",
		PickupDate:          "2026-03-11",
		PickupTimeSlot:      "morning",
		SpecialInstructions: `wash "delicates" cold, no softener`,
		Status:              orders.StatusPending,
		TotalEstimatedCost:  fptr(25.50),
		InternalNotes:       "repeat customer",
		CreatedAt:           time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestToCSV_HeaderAndColumnOrder(t *testing.T) {
	out, err := ToCSV(nil)
	require.NoError(t, err)

	assert.Equal(t, strings.Join(Columns, ",")+"\n", out)
}

func TestCSV_RoundTripQuotesAndCommas(t *testing.T) {
	in := sampleOrder()

	out, err := ToCSV([]orders.Order{in})
	require.NoError(t, err)

	back, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, back, 1)

	assert.Equal(t, in.SpecialInstructions, back[0].SpecialInstructions)
	assert.Equal(t, in, back[0])
}

func TestToCSV_NilCostIsEmptyField(t *testing.T) {
	in := sampleOrder()
	in.TotalEstimatedCost = nil

	out, err := ToCSV([]orders.Order{in})
	require.NoError(t, err)

	back, err := Parse(out)
	require.NoError(t, err)
	assert.Nil(t, back[0].TotalEstimatedCost)
}

func TestParse_RejectsUnknownHeader(t *testing.T) {
	_, err := Parse("id,name\n1,foo\n")
	assert.Error(t, err)
}

func TestToCSV_CostFormattedToCents(t *testing.T) {
	in := sampleOrder()
	in.TotalEstimatedCost = fptr(10.0)

	out, err := ToCSV([]orders.Order{in})
	require.NoError(t, err)
	assert.Contains(t, out, ",10.00,")
}
