package validation

import "strings"

var markupReplacer = strings.NewReplacer("<", "", ">", "")

// Sanitize normalizes a draft that has already passed validation: trims every
// string field, lower-cases the email, strips angle brackets from free text
// and drops anything that is not part of a phone number. It runs before any
// write and never mutates its input.
func Sanitize(d OrderDraft) OrderDraft {
	d.CustomerName = markupReplacer.Replace(strings.TrimSpace(d.CustomerName))
	d.CustomerEmail = strings.ToLower(strings.TrimSpace(d.CustomerEmail))
	d.CustomerPhone = sanitizePhone(strings.TrimSpace(d.CustomerPhone))
	d.PickupAddress = markupReplacer.Replace(strings.TrimSpace(d.PickupAddress))
	d.PickupDate = strings.TrimSpace(d.PickupDate)
	d.PickupTimeSlot = strings.TrimSpace(d.PickupTimeSlot)
	d.SpecialInstructions = markupReplacer.Replace(strings.TrimSpace(d.SpecialInstructions))
	return d
}

// sanitizePhone keeps a leading +, digits, parentheses, hyphens and spaces.
func sanitizePhone(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '(' || r == ')' || r == '-' || r == ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}
