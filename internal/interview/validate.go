package interview

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{8,15}$`)
)

// InvalidInputError rejects bad candidate fields or an empty question list
// before any session state is mutated.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateName requires at least two characters after trimming.
func ValidateName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < 2 {
		return &InvalidInputError{Field: "name", Reason: "must be at least 2 characters"}
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &InvalidInputError{Field: "email", Reason: "must be a valid email address"}
	}
	return nil
}

func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(strings.TrimSpace(phone)) {
		return &InvalidInputError{Field: "phone", Reason: "must be 8-15 digits with optional +, spaces, dashes or parentheses"}
	}
	return nil
}

// ValidateCandidateInfo checks the identity fields the candidate submitted.
// Pre-filled values from resume extraction go through the same checks.
func ValidateCandidateInfo(info CandidateInfo) error {
	if err := ValidateName(info.Name); err != nil {
		return err
	}
	if err := ValidateEmail(info.Email); err != nil {
		return err
	}
	return ValidatePhone(info.Phone)
}
