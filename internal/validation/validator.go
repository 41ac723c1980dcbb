package validation

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
)

// DateLayout is the wire format for pickup dates.
const DateLayout = "2006-01-02"

// ErrNoServices is the dedicated whole-draft error key/message for a draft
// with no positive-quantity selections.
const (
	NoServicesKey     = "services"
	NoServicesMessage = "select at least one service"
)

var (
	personNameRe = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
	addressRe    = regexp.MustCompile(`^[a-zA-Z0-9\s,.\-#/']+$`)
	// lenient phone shape: optional leading +, then digits with common separators
	phoneRe = regexp.MustCompile(`^\+?[\d\s()\-]{7,20}$`)
)

// nowFunc is swapped out in tests to pin "today".
var nowFunc = time.Now

// New returns a configured validator with the pickup-request rules registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// report errors under the json field names the form uses
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("person_name", validPersonName))
	must(v.RegisterValidation("phone", validPhone))
	must(v.RegisterValidation("address_text", validAddress))
	must(v.RegisterValidation("pickup_date", validPickupDate))

	return v
}

func validPersonName(fl validatorv10.FieldLevel) bool {
	return personNameRe.MatchString(fl.Field().String())
}

func validPhone(fl validatorv10.FieldLevel) bool {
	return phoneRe.MatchString(fl.Field().String())
}

func validAddress(fl validatorv10.FieldLevel) bool {
	return addressRe.MatchString(fl.Field().String())
}

// validPickupDate accepts a parseable date that is today or later (date-only
// comparison, time of day ignored) and at most one year ahead.
func validPickupDate(fl validatorv10.FieldLevel) bool {
	d, err := time.Parse(DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	now := nowFunc()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return false
	}
	return !d.After(today.AddDate(1, 0, 0))
}

// ValidateDraft runs the full rule set over a draft and returns a field ->
// message map. The "no services selected" check only runs once every field
// rule passes; a nil map means the draft is ready for submission.
func ValidateDraft(v *validatorv10.Validate, draft OrderDraft) map[string]string {
	if err := v.Struct(draft); err != nil {
		return errorsToMap(err)
	}
	if len(draft.SelectedQuantities()) == 0 {
		return map[string]string{NoServicesKey: NoServicesMessage}
	}
	return nil
}

func errorsToMap(err error) map[string]string {
	out := map[string]string{}
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		out["error"] = err.Error()
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "person_name":
		return "may only contain letters, spaces, hyphens, apostrophes and periods"
	case "phone":
		return "must be a valid phone number"
	case "address_text":
		return "contains characters that are not allowed in an address"
	case "pickup_date":
		return "must be a date between today and one year from now"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
