package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidClock accepts HH:MM and HH:MM:SS wall-clock times.
func IsValidClock(s string) bool {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Government number validation. Dashes and spaces are ignored.
func digitsOnly(s string) string {
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, " ", "")
}

// IsValidSSS checks a 10 digit SSS number.
func IsValidSSS(s string) bool {
	d := digitsOnly(s)
	return len(d) == 10 && IsNumeric(d)
}

// IsValidPhilHealth checks a 12 digit PhilHealth number.
func IsValidPhilHealth(s string) bool {
	d := digitsOnly(s)
	return len(d) == 12 && IsNumeric(d)
}

// IsValidPagIBIG checks a 12 digit Pag-IBIG MID number.
func IsValidPagIBIG(s string) bool {
	d := digitsOnly(s)
	return len(d) == 12 && IsNumeric(d)
}

// IsValidTIN accepts 9 to 12 digit TINs (branch code optional).
func IsValidTIN(s string) bool {
	d := digitsOnly(s)
	return len(d) >= 9 && len(d) <= 12 && IsNumeric(d)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

var employeeCodeRegex = regexp.MustCompile(`^\d{4}-\d{4}$`)

// IsValidEmployeeCode checks the YYYY-NNNN employee id format.
func IsValidEmployeeCode(code string) bool {
	return employeeCodeRegex.MatchString(code)
}

type Date time.Time

// ParseDate parses a date string in "YYYY-MM-DD" format and returns a Date type.
func ParseDate(dateStr string) (Date, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return Date{}, err
	}
	return Date(t), nil
}

// Before reports whether the date d is before u.
func (d Date) Before(u Date) bool {
	return time.Time(d).Before(time.Time(u))
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00+08:00"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	// Try RFC3339 format (ISO8601 with timezone)
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	// Try RFC3339Nano format (with nanoseconds)
	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

// ValidateDateRange appends errors for a missing, malformed or reversed
// start/end pair and returns the parsed dates.
func ValidateDateRange(errs *ValidationErrors, startField, start, endField, end string) (time.Time, time.Time) {
	s, okStart := IsValidDate(start)
	if !okStart {
		*errs = append(*errs, ValidationError{Field: startField, Message: startField + " must be in YYYY-MM-DD format"})
	}
	e, okEnd := IsValidDate(end)
	if !okEnd {
		*errs = append(*errs, ValidationError{Field: endField, Message: endField + " must be in YYYY-MM-DD format"})
	}
	if okStart && okEnd && e.Before(s) {
		*errs = append(*errs, ValidationError{Field: endField, Message: endField + " must not be before " + startField})
	}
	return s, e
}
