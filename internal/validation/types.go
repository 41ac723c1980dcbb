package validation

// Time slots offered for pickup.
const (
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
)

// OrderDraft is an unvalidated, unsaved pickup request as the customer form
// submits it. Selections maps service id -> requested quantity.
type OrderDraft struct {
	CustomerName        string         `json:"customerName" validate:"required,min=2,max=100,person_name"`
	CustomerEmail       string         `json:"customerEmail" validate:"required,email"`
	CustomerPhone       string         `json:"customerPhone" validate:"required,phone"`
	PickupAddress       string         `json:"pickupAddress" validate:"required,min=10,max=200,address_text"`
	PickupDate          string         `json:"pickupDate" validate:"required,pickup_date"`
	PickupTimeSlot      string         `json:"pickupTimeSlot" validate:"required,oneof=morning afternoon evening"`
	SpecialInstructions string         `json:"specialInstructions" validate:"max=500"`
	Selections          map[string]int `json:"selections"`
}

// SelectedQuantities returns only the positive-quantity selections; these are
// the ones that become order lines.
func (d OrderDraft) SelectedQuantities() map[string]int {
	out := map[string]int{}
	for id, qty := range d.Selections {
		if qty > 0 {
			out[id] = qty
		}
	}
	return out
}
