// path: validation/validation.go
package validation

import (
	"net/mail"
	"strings"
	"time"

	"parkwatch/models"
)

// FieldError names one invalid field and why it failed.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every failing field of a payload. A nil/empty Errors means
// the payload is well-formed. Validation is purely syntactic; uniqueness and
// anything else needing external state is the store's job.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "valid"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

const dateLayout = "2006-01-02"

// Sighting checks a submission payload. On success the parsed visit date is
// returned alongside, so callers do not re-parse.
func Sighting(p models.SightingPayload) (time.Time, Errors) {
	var errs Errors

	if strings.TrimSpace(p.APIKey) == "" {
		errs = append(errs, FieldError{"apiKey", "API key is required"})
	}
	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, FieldError{"title", "title cannot be empty"})
	}
	if strings.TrimSpace(p.Description) == "" {
		errs = append(errs, FieldError{"description", "description cannot be empty"})
	}
	if p.Danger < 0 || p.Danger > 10 {
		errs = append(errs, FieldError{"danger", "danger must be between 0 and 10"})
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		errs = append(errs, FieldError{"latitude", "latitude must be between -90 and 90"})
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		errs = append(errs, FieldError{"longitude", "longitude must be between -180 and 180"})
	}

	var visit time.Time
	if strings.TrimSpace(p.VisitDate) == "" {
		errs = append(errs, FieldError{"visitDate", "visit date is required"})
	} else {
		t, err := time.Parse(dateLayout, p.VisitDate)
		if err != nil {
			errs = append(errs, FieldError{"visitDate", "visit date must be YYYY-MM-DD"})
		} else {
			visit = t.UTC()
		}
	}

	return visit, errs
}

// Email checks a registration address: well-formed and at least 10 characters.
func Email(address string) Errors {
	address = strings.TrimSpace(address)
	if len(address) < 10 {
		return Errors{{"email", "email must contain at least 10 characters"}}
	}
	if _, err := mail.ParseAddress(address); err != nil {
		return Errors{{"email", "must be valid email"}}
	}
	return nil
}

// Phone checks a registration number: digits only, exactly 9 of them.
func Phone(number string) Errors {
	digits := StripPhone(number)
	if digits == "" {
		return Errors{{"number", "phone number is required"}}
	}
	if len(digits) != 9 {
		return Errors{{"number", "phone number must be exactly 9 digits"}}
	}
	return nil
}

// StripPhone drops everything but digits.
func StripPhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
